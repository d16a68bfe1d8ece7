package domain

import "fmt"

// Entry is one balance-affecting event of the ledger. Amounts and balances are
// in minor currency units. Entries are values: two entries with the same
// amount, balance and date are equal, and == may be used to compare them.
type Entry struct {
	amount  int64
	balance int64
	date    Date
}

// NewEntry builds an entry effective on date.
func NewEntry(amount, balance int64, date Date) Entry {
	return Entry{amount: amount, balance: balance, date: date}
}

// NewEntryToday builds an entry effective on the clock's current day.
func NewEntryToday(amount, balance int64, clock Clock) Entry {
	return NewEntry(amount, balance, clock.Today())
}

// Amount returns the signed amount of the entry; zero for opening balances.
func (e Entry) Amount() int64 { return e.amount }

// Balance returns the account balance right after the entry.
func (e Entry) Balance() int64 { return e.balance }

// Date returns the day the entry is effective.
func (e Entry) Date() Date { return e.date }

// IsOpeningBalance reports whether e carries no amount, as the synthetic
// marker closing every statement does.
func (e Entry) IsOpeningBalance() bool { return e.amount == 0 }

// Equal reports whether e and o hold the same values.
func (e Entry) Equal(o Entry) bool { return e == o }

func (e Entry) String() string {
	return fmt.Sprintf("Entry[date=%s,amount=%d,balance=%d]", e.date, e.amount, e.balance)
}

func openingBalance(date Date, balance int64) Entry {
	return NewEntry(0, balance, date)
}
