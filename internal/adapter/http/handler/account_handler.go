package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/goaccount/internal/adapter/http/dto"
	"github.com/iho/goaccount/internal/domain"
	"github.com/iho/goaccount/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	Deposit(ctx context.Context, amount int64) (*usecase.OperationResult, error)
	Withdraw(ctx context.Context, amount int64) (*usecase.OperationResult, error)
	Balance(ctx context.Context) int64
	Info(ctx context.Context) domain.Snapshot
	Statement(ctx context.Context, start domain.Date, period domain.Period) (*usecase.StatementResult, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Get returns the account summary.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.AccountFromDomain(h.accountUC.Info(r.Context())))
}

// Balance returns the current balance.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.BalanceFromAmount(h.accountUC.Balance(r.Context())))
}

// Deposit records a deposit dated today.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, "deposit", h.accountUC.Deposit)
}

// Withdraw records a withdrawal dated today.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, "withdrawal", h.accountUC.Withdraw)
}

func (h *AccountHandler) record(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	op func(ctx context.Context, amount int64) (*usecase.OperationResult, error),
) {
	var req dto.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := op(r.Context(), req.Amount)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record "+name, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.OperationFromResult(result))
}

// Statement returns the entries of a date window, newest first.
func (h *AccountHandler) Statement(w http.ResponseWriter, r *http.Request) {
	query, err := dto.ParseStatementQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid statement query", err.Error())
		return
	}

	result, err := h.accountUC.Statement(r.Context(), query.Start, query.Period)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromResult(result))
}
