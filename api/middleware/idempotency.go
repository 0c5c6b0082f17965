package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meradukaan/meradukaan-backend/api/responses"
	"github.com/meradukaan/meradukaan-backend/api/validators"
	pkgerrors "github.com/meradukaan/meradukaan-backend/pkg/errors"
	"github.com/meradukaan/meradukaan-backend/pkg/logger"
	pkgredis "github.com/meradukaan/meradukaan-backend/pkg/redis"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	idempotencyHeader     = "Idempotency-Key"
	replayHeader          = "Idempotent-Replayed"
	maxIdempotencyKeyLen  = 255
)

type idempotencyRecord struct {
	Status      int       `json:"status"`
	Body        []byte    `json:"body"`
	ContentType string    `json:"content_type,omitempty"`
	RequestHash string    `json:"request_hash"`
	StoredAt    time.Time `json:"stored_at"`
}

type idempotencyGuard struct {
	store pkgredis.IdempotencyStore
	ttl   time.Duration
	logg  *logger.Logger
}

// Idempotency replays the stored response when an inventory mutation is
// retried with the same Idempotency-Key. Keys are scoped to vendor, method and
// path. Requests without the header pass through, and only 2xx responses are
// remembered.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	guard := &idempotencyGuard{store: store, ttl: ttl, logg: logg}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || !idempotentMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			idempotencyKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(idempotencyKey) > maxIdempotencyKeyLen {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("%s must be at most %d characters", idempotencyHeader, maxIdempotencyKeyLen)))
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, validators.MaxBodyBytes+1))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}
			if len(body) > validators.MaxBodyBytes {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "request body too large"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			key := store.IdempotencyKey(buildScope(r), idempotencyKey)

			record, err := guard.lookup(r.Context(), key)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if record != nil {
				if record.RequestHash != requestHash {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				writeStoredResponse(w, record)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			status := defaultStatus(capture.status)
			if status < 200 || status >= 300 {
				return
			}
			guard.remember(r.Context(), key, idempotencyRecord{
				Status:      status,
				Body:        capture.body.Bytes(),
				ContentType: capture.Header().Get("Content-Type"),
				RequestHash: requestHash,
				StoredAt:    time.Now().UTC(),
			})
		})
	}
}

func (g *idempotencyGuard) lookup(ctx context.Context, key string) (*idempotencyRecord, error) {
	stored, err := g.store.Get(ctx, key)
	if errors.Is(err, redis.Nil) || (err == nil && stored == "") {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	}
	var record idempotencyRecord
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	return &record, nil
}

// remember stores the first successful response; a concurrent winner keeps its record.
func (g *idempotencyGuard) remember(ctx context.Context, key string, record idempotencyRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		logError(ctx, g.logg, "marshal idempotency record", err)
		return
	}
	if _, err := g.store.SetNX(ctx, key, string(payload), g.ttl); err != nil {
		logError(ctx, g.logg, "persist idempotency record", err)
	}
}

func buildScope(r *http.Request) string {
	return strings.Join([]string{
		VendorIDFromContext(r.Context()),
		r.Method,
		strings.TrimSuffix(r.URL.Path, "/"),
	}, "|")
}

func writeStoredResponse(w http.ResponseWriter, record *idempotencyRecord) {
	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.Header().Set(replayHeader, "true")
	w.WriteHeader(defaultStatus(record.Status))
	_, _ = w.Write(record.Body)
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func defaultStatus(value int) int {
	if value == 0 {
		return http.StatusOK
	}
	return value
}

func idempotentMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
