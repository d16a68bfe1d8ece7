package domain

// Ledger is the append-only history of one account. The first entry is the
// zero-balance creation entry; entries are kept in non-decreasing date order
// and each one carries the running balance. Ledger is not safe for concurrent
// use; Account serializes access to it.
type Ledger struct {
	entries []Entry
}

// NewLedger returns a ledger opened on creationDate with a zero balance.
func NewLedger(creationDate Date) *Ledger {
	return &Ledger{entries: []Entry{openingBalance(creationDate, 0)}}
}

// AddEntry appends amount on date and updates the running balance. It fails
// when date is before the date of the latest entry.
func (l *Ledger) AddEntry(amount int64, date Date) (Entry, error) {
	if date.Before(l.latest().Date()) {
		return Entry{}, ErrEntryOutOfOrder
	}

	entry := NewEntry(amount, l.Balance()+amount, date)
	l.entries = append(l.entries, entry)

	return entry, nil
}

// Balance returns the balance after the latest entry.
func (l *Ledger) Balance() int64 {
	return l.latest().Balance()
}

// CreationDate returns the date of the creation entry.
func (l *Ledger) CreationDate() Date {
	return l.entries[0].Date()
}

// LatestDate returns the date of the most recently appended entry.
func (l *Ledger) LatestDate() Date {
	return l.latest().Date()
}

// Len returns the number of entries, the creation entry included.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// StatementFor returns the entries effective within [start, start+period],
// newest first, followed by an opening-balance entry dated start that holds
// the balance right before start.
//
// A window starting after the latest entry yields only the opening balance
// (the current balance). A window ending before the creation date yields an
// empty statement.
func (l *Ledger) StatementFor(start Date, period Period) []Entry {
	end := period.AddTo(start)

	if start.After(l.latest().Date()) {
		return []Entry{openingBalance(start, l.Balance())}
	}

	if end.Before(l.entries[0].Date()) {
		return []Entry{}
	}

	statement := make([]Entry, 0)

	i := len(l.entries) - 1
	for ; i > 0; i-- {
		entry := l.entries[i]
		if entry.Date().Before(start) {
			break
		}
		if !entry.Date().After(end) {
			statement = append(statement, entry)
		}
	}

	return append(statement, openingBalance(start, l.entries[i].Balance()))
}

func (l *Ledger) latest() Entry {
	return l.entries[len(l.entries)-1]
}
