package domain

// StatementSummary aggregates a statement produced by Ledger.StatementFor.
type StatementSummary struct {
	Empty            bool
	OpeningBalance   int64
	ClosingBalance   int64
	TotalDeposits    int64
	TotalWithdrawals int64
	NetChange        int64
	DepositCount     int
	WithdrawalCount  int
}

// Summarize computes the totals of a newest-first statement whose last
// element is the opening-balance marker.
func Summarize(statement []Entry) StatementSummary {
	if len(statement) == 0 {
		return StatementSummary{Empty: true}
	}

	summary := StatementSummary{
		OpeningBalance: statement[len(statement)-1].Balance(),
		ClosingBalance: statement[0].Balance(),
	}

	for _, entry := range statement[:len(statement)-1] {
		switch {
		case entry.Amount() > 0:
			summary.TotalDeposits += entry.Amount()
			summary.DepositCount++
		case entry.Amount() < 0:
			summary.TotalWithdrawals += -entry.Amount()
			summary.WithdrawalCount++
		}
	}
	summary.NetChange = summary.TotalDeposits - summary.TotalWithdrawals

	return summary
}
