package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goaccount/internal/domain"
	"github.com/iho/goaccount/internal/usecase"
)

// minorUnitExp is the exponent converting minor units to major units.
const minorUnitExp = -2

// FormatAmount renders minor units as a major-unit string, e.g. 1050 -> "10.50".
func FormatAmount(minor int64) string {
	return decimal.New(minor, minorUnitExp).StringFixed(-minorUnitExp)
}

// AccountResponse represents the account in API responses.
type AccountResponse struct {
	CreationDate   domain.Date `json:"creation_date"`
	LatestDate     domain.Date `json:"latest_date"`
	Balance        int64       `json:"balance"`
	BalanceDisplay string      `json:"balance_display"`
	EntryCount     int         `json:"entry_count"`
}

// AccountFromDomain converts an account snapshot to response.
func AccountFromDomain(s domain.Snapshot) *AccountResponse {
	return &AccountResponse{
		CreationDate:   s.CreationDate,
		LatestDate:     s.LatestDate,
		Balance:        s.Balance,
		BalanceDisplay: FormatAmount(s.Balance),
		EntryCount:     s.EntryCount,
	}
}

// BalanceResponse represents the current balance.
type BalanceResponse struct {
	Balance        int64  `json:"balance"`
	BalanceDisplay string `json:"balance_display"`
}

// BalanceFromAmount converts a balance to response.
func BalanceFromAmount(balance int64) *BalanceResponse {
	return &BalanceResponse{
		Balance:        balance,
		BalanceDisplay: FormatAmount(balance),
	}
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	Reference      string      `json:"reference,omitempty"`
	Date           domain.Date `json:"date"`
	Amount         int64       `json:"amount"`
	AmountDisplay  string      `json:"amount_display"`
	Balance        int64       `json:"balance"`
	BalanceDisplay string      `json:"balance_display"`
	OpeningBalance bool        `json:"opening_balance,omitempty"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e domain.Entry) *EntryResponse {
	return &EntryResponse{
		Date:           e.Date(),
		Amount:         e.Amount(),
		AmountDisplay:  FormatAmount(e.Amount()),
		Balance:        e.Balance(),
		BalanceDisplay: FormatAmount(e.Balance()),
	}
}

// OperationFromResult converts a recorded deposit or withdrawal to response.
func OperationFromResult(r *usecase.OperationResult) *EntryResponse {
	resp := EntryFromDomain(r.Entry)
	resp.Reference = r.Reference
	return resp
}

// EntriesFromStatement converts a newest-first statement to responses. The
// last element is the opening-balance marker; an in-window entry with a zero
// amount never reaches a statement because deposits and withdrawals are
// strictly positive.
func EntriesFromStatement(entries []domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	if n := len(result); n > 0 {
		result[n-1].OpeningBalance = true
	}
	return result
}

// SummaryResponse represents statement totals.
type SummaryResponse struct {
	OpeningBalance          int64  `json:"opening_balance"`
	OpeningBalanceDisplay   string `json:"opening_balance_display"`
	ClosingBalance          int64  `json:"closing_balance"`
	ClosingBalanceDisplay   string `json:"closing_balance_display"`
	TotalDeposits           int64  `json:"total_deposits"`
	TotalDepositsDisplay    string `json:"total_deposits_display"`
	TotalWithdrawals        int64  `json:"total_withdrawals"`
	TotalWithdrawalsDisplay string `json:"total_withdrawals_display"`
	NetChange               int64  `json:"net_change"`
	NetChangeDisplay        string `json:"net_change_display"`
	DepositCount            int    `json:"deposit_count"`
	WithdrawalCount         int    `json:"withdrawal_count"`
}

// SummaryFromDomain converts statement totals to response. An empty
// statement has no summary.
func SummaryFromDomain(s domain.StatementSummary) *SummaryResponse {
	if s.Empty {
		return nil
	}
	return &SummaryResponse{
		OpeningBalance:          s.OpeningBalance,
		OpeningBalanceDisplay:   FormatAmount(s.OpeningBalance),
		ClosingBalance:          s.ClosingBalance,
		ClosingBalanceDisplay:   FormatAmount(s.ClosingBalance),
		TotalDeposits:           s.TotalDeposits,
		TotalDepositsDisplay:    FormatAmount(s.TotalDeposits),
		TotalWithdrawals:        s.TotalWithdrawals,
		TotalWithdrawalsDisplay: FormatAmount(s.TotalWithdrawals),
		NetChange:               s.NetChange,
		NetChangeDisplay:        FormatAmount(s.NetChange),
		DepositCount:            s.DepositCount,
		WithdrawalCount:         s.WithdrawalCount,
	}
}

// StatementResponse represents a statement in API responses.
type StatementResponse struct {
	Start   domain.Date      `json:"start"`
	End     domain.Date      `json:"end"`
	Period  domain.Period    `json:"period"`
	Entries []*EntryResponse `json:"entries"`
	Summary *SummaryResponse `json:"summary,omitempty"`
	Cached  bool             `json:"cached"`
}

// StatementFromResult converts a statement result to response.
func StatementFromResult(r *usecase.StatementResult) *StatementResponse {
	return &StatementResponse{
		Start:   r.Start,
		End:     r.End,
		Period:  r.Period,
		Entries: EntriesFromStatement(r.Entries),
		Summary: SummaryFromDomain(r.Summary),
		Cached:  r.Cached,
	}
}

// ConsistencyResponse represents a reconciliation result in API responses.
type ConsistencyResponse struct {
	Status            string    `json:"status"`
	Consistent        bool      `json:"consistent"`
	RecordedBalance   int64     `json:"recorded_balance"`
	CalculatedBalance int64     `json:"calculated_balance"`
	Difference        int64     `json:"difference"`
	EntryCount        int       `json:"entry_count"`
	Problems          []string  `json:"problems,omitempty"`
	CheckedAt         time.Time `json:"checked_at"`
}

// ConsistencyFromResult converts a reconciliation result to response.
func ConsistencyFromResult(r *usecase.ReconciliationResult) *ConsistencyResponse {
	status := "consistent"
	if !r.IsReconciled {
		status = "inconsistent"
	}
	return &ConsistencyResponse{
		Status:            status,
		Consistent:        r.IsReconciled,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		EntryCount:        r.EntryCount,
		Problems:          r.Problems,
		CheckedAt:         r.LastChecked,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
