package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goaccount/internal/domain"
	"github.com/iho/goaccount/internal/infrastructure/metrics"
)

// ErrInconsistentLedger is returned when the stored history does not add up.
var ErrInconsistentLedger = errors.New("ledger is inconsistent")

// Reconciler is the part of the account a reconciliation needs.
type Reconciler interface {
	Reconcile() domain.Reconciliation
}

// ReconciliationUseCase handles balance reconciliation operations
type ReconciliationUseCase struct {
	account Reconciler
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewReconciliationUseCase creates a new reconciliation use case. metrics may be nil.
func NewReconciliationUseCase(account Reconciler, metrics *metrics.Metrics, logger zerolog.Logger) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		account: account,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	RecordedBalance   int64
	CalculatedBalance int64
	Difference        int64
	EntryCount        int
	IsReconciled      bool
	Problems          []string
	LastChecked       time.Time
}

// Reconcile replays the account history and compares it with the recorded balance.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context) *ReconciliationResult {
	r := uc.account.Reconcile()
	result := &ReconciliationResult{
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference(),
		EntryCount:        r.EntryCount,
		IsReconciled:      r.Consistent(),
		Problems:          r.Problems,
		LastChecked:       uc.now(),
	}

	outcome := "consistent"
	if !result.IsReconciled {
		outcome = "inconsistent"
		uc.logger.Error().
			Int64("recorded_balance", result.RecordedBalance).
			Int64("calculated_balance", result.CalculatedBalance).
			Strs("problems", result.Problems).
			Msg("ledger reconciliation failed")
	}
	if uc.metrics != nil {
		uc.metrics.Reconciliations.WithLabelValues(outcome).Inc()
		uc.metrics.LedgerDifference.Set(float64(result.Difference))
	}

	return result
}

// CheckConsistency returns ErrInconsistentLedger, wrapped with the problems
// found, when the history does not reconcile.
func (uc *ReconciliationUseCase) CheckConsistency(ctx context.Context) (*ReconciliationResult, error) {
	result := uc.Reconcile(ctx)
	if !result.IsReconciled {
		return result, fmt.Errorf("%w: %s", ErrInconsistentLedger, strings.Join(result.Problems, "; "))
	}
	return result, nil
}
