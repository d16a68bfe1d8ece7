package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/iho/goaccount/internal/adapter/http/dto"
	"github.com/iho/goaccount/internal/usecase"
)

// ConsistencyChecker defines the behavior needed by ConsistencyHandler.
type ConsistencyChecker interface {
	CheckConsistency(ctx context.Context) (*usecase.ReconciliationResult, error)
}

// ConsistencyHandler reports whether the ledger history reconciles.
type ConsistencyHandler struct {
	checker ConsistencyChecker
}

// NewConsistencyHandler creates a new ConsistencyHandler.
func NewConsistencyHandler(checker ConsistencyChecker) *ConsistencyHandler {
	return &ConsistencyHandler{checker: checker}
}

// CheckConsistency checks if the ledger is consistent.
func (h *ConsistencyHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	result, err := h.checker.CheckConsistency(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrInconsistentLedger) && result != nil {
			writeJSON(w, http.StatusConflict, dto.ConsistencyFromResult(result))
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromResult(result))
}
