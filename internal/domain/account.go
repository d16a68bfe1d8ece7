package domain

import "sync"

// Account is a bank account backed by a Ledger. It validates caller input
// before committing it to the ledger and serializes every operation, so the
// read-then-write sequences of withdrawals and appends never interleave.
type Account struct {
	mu     sync.Mutex
	ledger *Ledger
	clock  Clock
}

// NewAccount opens an account on creationDate. A nil clock reads the UTC wall clock.
func NewAccount(creationDate Date, clock Clock) *Account {
	if clock == nil {
		clock = NewSystemClock(nil)
	}
	return &Account{
		ledger: NewLedger(creationDate),
		clock:  clock,
	}
}

// Deposit records amount, in minor units, on today's date.
func (a *Account) Deposit(amount int64) (Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if amount <= 0 {
		return Entry{}, ErrNonPositiveAmount
	}

	return a.ledger.AddEntry(amount, a.clock.Today())
}

// Withdraw records -amount on today's date. The amount must be positive and
// not exceed the current balance.
func (a *Account) Withdraw(amount int64) (Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if amount <= 0 {
		return Entry{}, ErrNonPositiveAmount
	}
	if amount > a.ledger.Balance() {
		return Entry{}, ErrInsufficientFunds
	}

	return a.ledger.AddEntry(-amount, a.clock.Today())
}

// Statement returns the ledger statement for [start, start+period]. The
// window must not end after today.
func (a *Account) Statement(start Date, period Period) ([]Entry, error) {
	return a.StatementAsOf(a.clock.Today(), start, period)
}

// StatementAsOf is Statement with today already read from the account's
// clock, for callers that need the same day for their own decisions.
func (a *Account) StatementAsOf(today, start Date, period Period) ([]Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if period.AddTo(start).After(today) {
		return nil, ErrStatementInFuture
	}

	return a.ledger.StatementFor(start, period), nil
}

// Balance returns the current balance.
func (a *Account) Balance() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.ledger.Balance()
}

// Snapshot describes the account at one instant.
type Snapshot struct {
	CreationDate Date
	LatestDate   Date
	Balance      int64
	EntryCount   int
}

// Snapshot returns the account's creation date, balance and history size under one lock.
func (a *Account) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	return Snapshot{
		CreationDate: a.ledger.CreationDate(),
		LatestDate:   a.ledger.LatestDate(),
		Balance:      a.ledger.Balance(),
		EntryCount:   a.ledger.Len(),
	}
}

// Reconcile checks the ledger's history under the account lock.
func (a *Account) Reconcile() Reconciliation {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.ledger.Reconcile()
}
