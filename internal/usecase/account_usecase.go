package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goaccount/internal/domain"
	"github.com/iho/goaccount/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic around the single hosted account.
type AccountUseCase struct {
	account    *domain.Account
	clock      domain.Clock
	outboxRepo OutboxRepository
	cache      Cache
	idGen      IDGenerator
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	cacheTTL   time.Duration
	instanceID string
}

// NewAccountUseCase creates a new AccountUseCase. cache and metrics may be nil.
// Each use case draws an instance ID from idGen; statement cache keys are
// scoped to it because the ledger does not outlive the process.
func NewAccountUseCase(
	account *domain.Account,
	clock domain.Clock,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *AccountUseCase {
	if clock == nil {
		clock = domain.NewSystemClock(nil)
	}
	return &AccountUseCase{
		account:    account,
		clock:      clock,
		outboxRepo: outboxRepo,
		cache:      cache,
		idGen:      idGen,
		metrics:    metrics,
		logger:     logger,
		cacheTTL:   DefaultStatementCacheTTL,
		instanceID: idGen.Generate(),
	}
}

// InstanceID identifies the ledger instance this use case serves.
func (uc *AccountUseCase) InstanceID() string {
	return uc.instanceID
}

// SetStatementCacheTTL overrides how long closed statements stay cached.
func (uc *AccountUseCase) SetStatementCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		uc.cacheTTL = ttl
	}
}

// OperationResult describes a recorded deposit or withdrawal.
type OperationResult struct {
	Reference string
	Entry     domain.Entry
}

// StatementResult is a statement with its window and totals.
type StatementResult struct {
	Start   domain.Date
	End     domain.Date
	Period  domain.Period
	Entries []domain.Entry
	Summary domain.StatementSummary
	Cached  bool
}

// Open announces the account on the outbox.
func (uc *AccountUseCase) Open(ctx context.Context) error {
	snapshot := uc.account.Snapshot()

	return uc.outboxRepo.Create(ctx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountOpened,
		Payload: map[string]any{
			"creation_date": snapshot.CreationDate.String(),
			"balance":       snapshot.Balance,
		},
		CreatedAt: time.Now().UTC(),
	})
}

// Deposit credits amount, in minor units, to the account.
func (uc *AccountUseCase) Deposit(ctx context.Context, amount int64) (*OperationResult, error) {
	start := time.Now()

	entry, err := uc.account.Deposit(amount)
	if err != nil {
		uc.reject(OperationDeposit, amount, err)
		return nil, err
	}

	result := uc.record(ctx, OperationDeposit, domain.EventTypeAccountDeposited, entry)
	uc.observe(OperationDeposit, amount, entry.Balance(), start)

	return result, nil
}

// Withdraw debits amount, in minor units, from the account.
func (uc *AccountUseCase) Withdraw(ctx context.Context, amount int64) (*OperationResult, error) {
	start := time.Now()

	entry, err := uc.account.Withdraw(amount)
	if err != nil {
		uc.reject(OperationWithdraw, amount, err)
		return nil, err
	}

	result := uc.record(ctx, OperationWithdraw, domain.EventTypeAccountWithdrawn, entry)
	uc.observe(OperationWithdraw, amount, entry.Balance(), start)

	return result, nil
}

// Balance returns the current balance.
func (uc *AccountUseCase) Balance(ctx context.Context) int64 {
	return uc.account.Balance()
}

// Info returns a snapshot of the account.
func (uc *AccountUseCase) Info(ctx context.Context) domain.Snapshot {
	return uc.account.Snapshot()
}

// Statement returns the account history for [start, start+period]. Windows
// that closed before today cannot receive new entries, so they are served
// from the cache when one is configured.
func (uc *AccountUseCase) Statement(ctx context.Context, start domain.Date, period domain.Period) (*StatementResult, error) {
	today := uc.clock.Today()
	end := period.AddTo(start)
	cacheable := uc.cache != nil && end.Before(today)
	key := uc.statementKey(start, period)

	if cacheable {
		if entries, ok := uc.cachedStatement(ctx, key); ok {
			uc.countStatement("cache", len(entries))
			return newStatementResult(start, end, period, entries, true), nil
		}
	}

	entries, err := uc.account.StatementAsOf(today, start, period)
	if err != nil {
		uc.reject(OperationStatement, 0, err)
		return nil, err
	}

	if cacheable {
		uc.storeStatement(ctx, key, entries)
	}

	uc.countStatement("ledger", len(entries))
	return newStatementResult(start, end, period, entries, false), nil
}

func (uc *AccountUseCase) statementKey(start domain.Date, period domain.Period) string {
	return statementCachePrefix + uc.instanceID + ":" + start.String() + ":" + period.String()
}

func newStatementResult(start, end domain.Date, period domain.Period, entries []domain.Entry, cached bool) *StatementResult {
	return &StatementResult{
		Start:   start,
		End:     end,
		Period:  period,
		Entries: entries,
		Summary: domain.Summarize(entries),
		Cached:  cached,
	}
}

// record emits the outbox event of a committed entry. The ledger is already
// updated at this point, so an outbox failure is logged and not returned.
func (uc *AccountUseCase) record(ctx context.Context, operation, eventType string, entry domain.Entry) *OperationResult {
	reference := uc.idGen.Generate()

	payload := domain.EntryRecordedEvent{
		Reference: reference,
		Amount:    entry.Amount(),
		Balance:   entry.Balance(),
		Date:      entry.Date().String(),
	}
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   reference,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     eventType,
		Payload:       payload.Payload(),
		CreatedAt:     time.Now().UTC(),
	}
	if err := uc.outboxRepo.Create(ctx, event); err != nil {
		uc.logger.Error().Err(err).
			Str("operation", operation).
			Str("reference", reference).
			Msg("failed to enqueue outbox event")
	}

	uc.logger.Info().
		Str("operation", operation).
		Str("reference", reference).
		Int64("amount", entry.Amount()).
		Int64("balance", entry.Balance()).
		Stringer("date", entry.Date()).
		Msg("entry recorded")

	return &OperationResult{Reference: reference, Entry: entry}
}

func (uc *AccountUseCase) observe(operation string, amount, balance int64, start time.Time) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.Operations.WithLabelValues(operation).Inc()
	uc.metrics.OperationAmount.WithLabelValues(operation).Observe(float64(amount))
	uc.metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	uc.metrics.AccountBalance.Set(float64(balance))
}

func (uc *AccountUseCase) reject(operation string, amount int64, err error) {
	reason := RejectionReason(err)

	uc.logger.Warn().
		Str("operation", operation).
		Str("reason", reason).
		Int64("amount", amount).
		Msg(err.Error())

	if uc.metrics != nil {
		uc.metrics.Rejections.WithLabelValues(operation, reason).Inc()
	}
}

func (uc *AccountUseCase) countStatement(source string, entries int) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.Statements.WithLabelValues(source).Inc()
	uc.metrics.StatementEntries.Observe(float64(entries))
}

// RejectionReason names the validation rule err violated.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNonPositiveAmount):
		return "non_positive_amount"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrStatementInFuture):
		return "statement_in_future"
	case errors.Is(err, domain.ErrEntryOutOfOrder):
		return "entry_out_of_order"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "unknown"
	}
}

type cachedEntry struct {
	Amount  int64       `json:"amount"`
	Balance int64       `json:"balance"`
	Date    domain.Date `json:"date"`
}

func (uc *AccountUseCase) cachedStatement(ctx context.Context, key string) ([]domain.Entry, bool) {
	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			uc.cacheFailure("get", key, err)
		}
		return nil, false
	}

	var cached []cachedEntry
	if err := json.Unmarshal(data, &cached); err != nil {
		uc.cacheFailure("decode", key, err)
		return nil, false
	}

	entries := make([]domain.Entry, len(cached))
	for i, c := range cached {
		entries[i] = domain.NewEntry(c.Amount, c.Balance, c.Date)
	}
	return entries, true
}

func (uc *AccountUseCase) storeStatement(ctx context.Context, key string, entries []domain.Entry) {
	cached := make([]cachedEntry, len(entries))
	for i, e := range entries {
		cached[i] = cachedEntry{Amount: e.Amount(), Balance: e.Balance(), Date: e.Date()}
	}

	data, err := json.Marshal(cached)
	if err != nil {
		uc.cacheFailure("encode", key, err)
		return
	}

	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		uc.cacheFailure("set", key, err)
	}
}

func (uc *AccountUseCase) cacheFailure(operation, key string, err error) {
	uc.logger.Warn().Err(err).
		Str("cache_operation", operation).
		Str("key", key).
		Msg("statement cache unavailable")

	if uc.metrics != nil {
		uc.metrics.CacheErrors.WithLabelValues(operation).Inc()
	}
}
