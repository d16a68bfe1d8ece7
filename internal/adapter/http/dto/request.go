package dto

import (
	"fmt"
	"net/url"

	"github.com/iho/goaccount/internal/domain"
)

// DefaultStatementPeriod is used when a statement request has no period.
const DefaultStatementPeriod = "P1M"

// AmountRequest represents a deposit or withdrawal request. Amount is in
// minor currency units.
type AmountRequest struct {
	Amount int64 `json:"amount"`
}

// StatementQuery holds the parsed statement query parameters.
type StatementQuery struct {
	Start  domain.Date
	Period domain.Period
}

// ParseStatementQuery parses start (YYYY-MM-DD, required) and period
// (ISO-8601, defaults to one month). Errors wrap domain.ErrInvalidArgument.
func ParseStatementQuery(values url.Values) (StatementQuery, error) {
	rawStart := values.Get("start")
	if rawStart == "" {
		return StatementQuery{}, fmt.Errorf("%w: start is required", domain.ErrInvalidArgument)
	}

	start, err := domain.ParseDate(rawStart)
	if err != nil {
		return StatementQuery{}, err
	}

	rawPeriod := values.Get("period")
	if rawPeriod == "" {
		rawPeriod = DefaultStatementPeriod
	}

	period, err := domain.ParsePeriod(rawPeriod)
	if err != nil {
		return StatementQuery{}, err
	}

	return StatementQuery{Start: start, Period: period}, nil
}
