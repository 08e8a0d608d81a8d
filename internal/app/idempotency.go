package app

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/selimacar/cinema-reservation-engine/internal/repository"
)

const idempotencyLockTTL = 60 * time.Second

// bufferedResponseWriter tees the response so it can be stored for replay.
type bufferedResponseWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *bufferedResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *bufferedResponseWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// idempotency makes a POST endpoint safe to retry: the first request with a
// given Idempotency-Key executes and its response is stored; subsequent
// requests replay the stored response verbatim. A concurrent duplicate gets
// a Conflict while the first is still running. Requests without the header
// pass through untouched.
func (app *Application) idempotency(operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			customerId := app.contextGetCustomerId(r)
			storageKey := repository.IdempotencyKey(operation, customerId.String(), key)

			if app.replayStoredResponse(w, r, storageKey, key) {
				return
			}

			locked, err := app.idempotencyStore.AcquireLock(r.Context(), storageKey, idempotencyLockTTL)
			if err != nil {
				app.serverErrorResponse(w, r, err)
				return
			}

			if !locked {
				if app.replayStoredResponse(w, r, storageKey, key) {
					return
				}

				w.Header().Set("Retry-After", "1")
				app.errorResponse(w, r, http.StatusConflict, "A request with this idempotency key is still in progress")
				return
			}

			bw := &bufferedResponseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(bw, r)

			// Server-side failures stay retryable; everything else is the
			// operation's outcome and gets pinned to the key.
			if bw.status >= http.StatusInternalServerError {
				if err := app.idempotencyStore.Release(r.Context(), storageKey); err != nil {
					app.logError(r, err)
				}
				return
			}

			if err := app.idempotencyStore.SaveResult(r.Context(), storageKey, bw.status, bw.buf.Bytes()); err != nil {
				app.logError(r, err)
			}
		})
	}
}

func (app *Application) replayStoredResponse(w http.ResponseWriter, r *http.Request, storageKey, clientKey string) bool {
	stored, ok, err := app.idempotencyStore.GetResult(r.Context(), storageKey)
	if err != nil {
		app.logError(r, err)
		return false
	}
	if !ok {
		return false
	}

	w.Header().Set("Idempotency-Key", clientKey)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(stored.Status)
	w.Write(stored.Body)

	return true
}
