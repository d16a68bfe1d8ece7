package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/goaccount/internal/adapter/http/dto"
	"github.com/iho/goaccount/internal/domain"
	"github.com/iho/goaccount/internal/usecase"
)

type accountServiceStub struct {
	depositFn   func(ctx context.Context, amount int64) (*usecase.OperationResult, error)
	withdrawFn  func(ctx context.Context, amount int64) (*usecase.OperationResult, error)
	balance     int64
	snapshot    domain.Snapshot
	statementFn func(ctx context.Context, start domain.Date, period domain.Period) (*usecase.StatementResult, error)
}

func (s *accountServiceStub) Deposit(ctx context.Context, amount int64) (*usecase.OperationResult, error) {
	return s.depositFn(ctx, amount)
}

func (s *accountServiceStub) Withdraw(ctx context.Context, amount int64) (*usecase.OperationResult, error) {
	return s.withdrawFn(ctx, amount)
}

func (s *accountServiceStub) Balance(ctx context.Context) int64 {
	return s.balance
}

func (s *accountServiceStub) Info(ctx context.Context) domain.Snapshot {
	return s.snapshot
}

func (s *accountServiceStub) Statement(ctx context.Context, start domain.Date, period domain.Period) (*usecase.StatementResult, error) {
	return s.statementFn(ctx, start, period)
}

var jan4 = domain.NewDate(2024, time.January, 4)

func TestAccountHandler_Deposit_Success(t *testing.T) {
	var captured int64
	handler := NewAccountHandler(&accountServiceStub{
		depositFn: func(ctx context.Context, amount int64) (*usecase.OperationResult, error) {
			captured = amount
			return &usecase.OperationResult{
				Reference: "ref-1",
				Entry:     domain.NewEntry(amount, 100000+amount, jan4),
			}, nil
		},
	})

	body, _ := json.Marshal(dto.AmountRequest{Amount: 1050})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/deposits", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Deposit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured != 1050 {
		t.Fatalf("expected amount 1050, got %d", captured)
	}

	var resp dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Reference != "ref-1" || resp.AmountDisplay != "10.50" || resp.BalanceDisplay != "1010.50" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !resp.Date.Equal(jan4) {
		t.Fatalf("expected entry dated %s, got %s", jan4, resp.Date)
	}
}

func TestAccountHandler_Deposit_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		depositFn: func(ctx context.Context, amount int64) (*usecase.OperationResult, error) {
			t.Fatal("Deposit should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/deposits", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Deposit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Withdraw_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"non-positive amount", fmt.Errorf("%w: got 0", domain.ErrNonPositiveAmount), http.StatusBadRequest},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(&accountServiceStub{
				withdrawFn: func(ctx context.Context, amount int64) (*usecase.OperationResult, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/account/withdrawals", bytes.NewBufferString(`{"amount":500}`))
			rec := httptest.NewRecorder()

			handler.Withdraw(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}

			var resp dto.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error: %v", err)
			}
			if resp.Error != "failed to record withdrawal" {
				t.Fatalf("unexpected error response %+v", resp)
			}
		})
	}
}

func TestAccountHandler_GetAndBalance(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		balance: 98000,
		snapshot: domain.Snapshot{
			CreationDate: domain.NewDate(2024, time.January, 1),
			LatestDate:   jan4,
			Balance:      98000,
			EntryCount:   3,
		},
	})

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/account", nil))

	var account dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
		t.Fatalf("failed to decode account: %v", err)
	}
	if rec.Code != http.StatusOK || account.EntryCount != 3 || account.BalanceDisplay != "980.00" {
		t.Fatalf("unexpected account response %d %+v", rec.Code, account)
	}

	rec = httptest.NewRecorder()
	handler.Balance(rec, httptest.NewRequest(http.MethodGet, "/api/v1/account/balance", nil))

	var balance dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &balance); err != nil {
		t.Fatalf("failed to decode balance: %v", err)
	}
	if balance.Balance != 98000 || balance.BalanceDisplay != "980.00" {
		t.Fatalf("unexpected balance response %+v", balance)
	}
}

func TestAccountHandler_Statement_Success(t *testing.T) {
	start := domain.NewDate(2024, time.January, 1)
	entries := []domain.Entry{
		domain.NewEntry(-2000, 98000, jan4),
		domain.NewEntry(0, 100000, start),
	}

	var gotStart domain.Date
	var gotPeriod domain.Period
	handler := NewAccountHandler(&accountServiceStub{
		statementFn: func(ctx context.Context, s domain.Date, p domain.Period) (*usecase.StatementResult, error) {
			gotStart, gotPeriod = s, p
			return &usecase.StatementResult{
				Start:   s,
				End:     p.AddTo(s),
				Period:  p,
				Entries: entries,
				Summary: domain.Summarize(entries),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account/statement?start=2024-01-01&period=P10D", nil)
	rec := httptest.NewRecorder()

	handler.Statement(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !gotStart.Equal(start) || gotPeriod != domain.Days(10) {
		t.Fatalf("unexpected query passed to service: %s %s", gotStart, gotPeriod)
	}

	var resp dto.StatementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode statement: %v", err)
	}
	if len(resp.Entries) != 2 || !resp.Entries[1].OpeningBalance || resp.Entries[0].OpeningBalance {
		t.Fatalf("unexpected entries %+v", resp.Entries)
	}
	if resp.Summary == nil || resp.Summary.TotalWithdrawals != 2000 {
		t.Fatalf("unexpected summary %+v", resp.Summary)
	}
	if !resp.End.Equal(domain.NewDate(2024, time.January, 11)) {
		t.Fatalf("unexpected window end %s", resp.End)
	}
}

func TestAccountHandler_Statement_Errors(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		statementFn: func(ctx context.Context, s domain.Date, p domain.Period) (*usecase.StatementResult, error) {
			return nil, domain.ErrStatementInFuture
		},
	})

	for _, target := range []string{
		"/api/v1/account/statement",
		"/api/v1/account/statement?start=2024-13-01",
		"/api/v1/account/statement?start=2024-01-01&period=monthly",
		"/api/v1/account/statement?start=2030-01-01&period=P1M",
	} {
		rec := httptest.NewRecorder()
		handler.Statement(rec, httptest.NewRequest(http.MethodGet, target, nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}
