package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// loggerContext stores a request-scoped logger carrying the request id, so
// handlers and their goroutines log correlatable records.
func (app *Application) loggerContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := app.logger.With("request_id", middleware.GetReqID(r.Context()))

		ctx := context.WithValue(r.Context(), loggerKey, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ensureCustomerSession provisions a guest identity on first contact: a
// generated customer id bound to the scs session. Every downstream handler
// can rely on the id being present in the request context.
func (app *Application) ensureCustomerSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customerId := app.sessionManager.GetString(r.Context(), SessionKeyCustomerId.String())

		if customerId == "" {
			customerId = uuid.New().String()
			app.sessionManager.Put(r.Context(), SessionKeyCustomerId.String(), customerId)
		}

		id, err := uuid.Parse(customerId)
		if err != nil {
			app.serverErrorResponse(w, r, fmt.Errorf("malformed customer id in session: %w", err))
			return
		}

		ctx := context.WithValue(r.Context(), SessionKeyCustomerId, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(loggerKey).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}
