package domain

import "fmt"

// Reconciliation compares the recorded running balance with the history it
// was derived from.
type Reconciliation struct {
	RecordedBalance   int64
	CalculatedBalance int64
	EntryCount        int
	Problems          []string
}

// Consistent reports whether no problem was found.
func (r Reconciliation) Consistent() bool {
	return len(r.Problems) == 0
}

// Difference returns the recorded minus the calculated balance.
func (r Reconciliation) Difference() int64 {
	return r.RecordedBalance - r.CalculatedBalance
}

// Reconcile replays the history: the creation entry must hold a zero
// balance, each entry's balance must equal the previous balance plus its
// amount, and dates must never decrease.
func (l *Ledger) Reconcile() Reconciliation {
	r := Reconciliation{
		RecordedBalance: l.Balance(),
		EntryCount:      len(l.entries),
	}

	first := l.entries[0]
	if first.Amount() != 0 || first.Balance() != 0 {
		r.Problems = append(r.Problems, fmt.Sprintf("creation entry is not zero: %s", first))
	}

	for i := 1; i < len(l.entries); i++ {
		prev, cur := l.entries[i-1], l.entries[i]
		r.CalculatedBalance += cur.Amount()

		if cur.Balance() != prev.Balance()+cur.Amount() {
			r.Problems = append(r.Problems, fmt.Sprintf("entry %d balance %d, expected %d", i, cur.Balance(), prev.Balance()+cur.Amount()))
		}
		if cur.Date().Before(prev.Date()) {
			r.Problems = append(r.Problems, fmt.Sprintf("entry %d dated %s precedes %s", i, cur.Date(), prev.Date()))
		}
	}

	if r.Difference() != 0 {
		r.Problems = append(r.Problems, fmt.Sprintf("recorded balance %d differs from sum of amounts %d", r.RecordedBalance, r.CalculatedBalance))
	}

	return r
}
