package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimacar/cinema-reservation-engine/api"
	"github.com/stretchr/testify/require"
)

// Generated identifiers and timestamps differ on every run, so response
// comparison skips them wherever they appear.
var keysToIgnore = map[string]struct{}{
	"requestId":     {},
	"timestamp":     {},
	"holdId":        {},
	"bookingId":     {},
	"bookingNumber": {},
	"expiresAt":     {},
	"createdAt":     {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookies []http.Cookie) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for _, cookie := range cookies {
		req.AddCookie(&cookie)
	}

	return req, nil
}

func performRequest(
	t testing.TB,
	app *TestApp,
	method, url string,
	body io.Reader,
	cookies []http.Cookie,
	headers map[string]string) *http.Response {

	t.Helper()

	req, err := prepareRequest(method, url, body, headers, cookies)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.App.Routes().ServeHTTP(rec, req)

	return rec.Result()
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	t.Helper()

	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func decodeResponse(t testing.TB, res *http.Response, dst any) {
	t.Helper()

	require.NoError(t, json.NewDecoder(res.Body).Decode(dst))
}

func executeSQLFile(t testing.TB, db *pgxpool.Pool, path string) {
	t.Helper()

	script, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read SQL file %s", path)

	_, err = db.Exec(context.Background(), string(script))
	require.NoError(t, err, "failed to execute SQL file %s", path)
}

// resetReservationState returns the seat ledger to its seeded shape and
// clears the recording fakes. Sessions survive a reset.
func resetReservationState(t testing.TB, app *TestApp) {
	t.Helper()

	executeSQLFile(t, app.DB, "testdata/reset.sql")

	app.Payment.Reset()
	app.Events.Reset()
	app.Mailer.Reset()
}

// customerSessionCookies provisions a fresh guest session by hitting the
// healthcheck and returns its cookies. Each call is a distinct customer.
func (app *TestApp) customerSessionCookies(t testing.TB) []http.Cookie {
	t.Helper()

	res := performRequest(t, app, http.MethodGet, "/healthcheck", nil, nil, nil)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	raw := res.Cookies()
	require.NotEmpty(t, raw, "expected a session cookie to be issued")

	cookies := make([]http.Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, *c)
	}

	return cookies
}

func createTestHold(t testing.TB, app *TestApp, cookies []http.Cookie, body string) api.HoldResponse {
	t.Helper()

	res := performRequest(t, app, http.MethodPost, "/holds", strings.NewReader(body), cookies, nil)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode, "expected hold creation to succeed")

	var hold api.HoldResponse
	decodeResponse(t, res, &hold)

	return hold
}

func confirmTestHold(t testing.TB, app *TestApp, cookies []http.Cookie, holdID uuid.UUID, body string) api.BookingResponse {
	t.Helper()

	url := fmt.Sprintf("/holds/%s/confirmation", holdID)
	res := performRequest(t, app, http.MethodPost, url, strings.NewReader(body), cookies, nil)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode, "expected hold confirmation to succeed")

	var booking api.BookingResponse
	decodeResponse(t, res, &booking)

	return booking
}
