package usecase

import "time"

const (
	// DefaultStatementCacheTTL is how long a closed statement window stays cached.
	DefaultStatementCacheTTL = time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	statementCachePrefix = "statement:"
)

// Operation names used in logs and metrics.
const (
	OperationDeposit   = "deposit"
	OperationWithdraw  = "withdraw"
	OperationStatement = "statement"
)
