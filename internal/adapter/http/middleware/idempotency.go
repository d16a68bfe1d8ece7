package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goaccount/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"
	maxIdempotencyKeyLength = 255
)

// IdempotencyMiddleware handles request idempotency.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A zero ttl
// uses usecase.IdempotencyKeyTTL.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, logger: logger}
}

// Wrap wraps an http.Handler with idempotency checking. Keys are scoped to
// method and path, so one key cannot replay a deposit as a withdrawal.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			writeMiddlewareError(w, http.StatusBadRequest, "idempotency key too long")
			return
		}

		scoped := r.Method + " " + r.URL.Path + " " + key

		stored, err := m.store.Reserve(r.Context(), scoped, m.ttl)
		if errors.Is(err, usecase.ErrIdempotencyInProgress) {
			writeMiddlewareError(w, http.StatusConflict, "request with this idempotency key is in progress")
			return
		}
		if err != nil {
			m.logger.Error().Err(err).Str("key", key).Msg("idempotency check failed")
			writeMiddlewareError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if stored != nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(IdempotencyReplayHeader, "true")
			w.WriteHeader(stored.StatusCode)
			w.Write(stored.Body)
			return
		}

		// Capture response
		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			response := usecase.StoredResponse{StatusCode: recorder.statusCode, Body: recorder.body.Bytes()}
			if err := m.store.Complete(r.Context(), scoped, response, m.ttl); err != nil {
				m.logger.Error().Err(err).Str("key", key).Msg("failed to store idempotent response")
			}
			return
		}

		// Failed requests may be retried with the same key
		if err := m.store.Release(r.Context(), scoped); err != nil {
			m.logger.Error().Err(err).Str("key", key).Msg("failed to release idempotency key")
		}
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func writeMiddlewareError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
