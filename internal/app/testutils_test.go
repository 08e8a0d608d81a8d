package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/selimacar/cinema-reservation-engine/api"
	"github.com/selimacar/cinema-reservation-engine/internal/event"
	"github.com/selimacar/cinema-reservation-engine/internal/mailer"
	"github.com/selimacar/cinema-reservation-engine/internal/payment"
	"github.com/selimacar/cinema-reservation-engine/internal/validator"
)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config: Config{
			Hold: HoldConfig{
				DefaultTTL: 5 * time.Minute,
				MinTTL:     time.Minute,
				MaxTTL:     30 * time.Minute,
			},
		},
		validator:       validator.NewValidator(),
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		mailer:          mailer.NewMockMailer(),
		paymentProvider: payment.NewMockPaymentProvider(),
		eventPublisher:  event.NewMockPublisher(),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// setupTestCustomer stamps a customer identity onto the request, standing in
// for the session middleware.
func setupTestCustomer(r *http.Request, customerId uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), SessionKeyCustomerId, customerId)

	return r.WithContext(ctx)
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(method, url, bytes.NewReader(jsonData))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	switch wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, issue := range validationResp.Errors {
			errorSet[issue] = true
		}

		if !errorSet[wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if wantErrMessage != "" && errorResp.Message != wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
