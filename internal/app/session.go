package app

import (
	"net/http"

	"github.com/google/uuid"
)

type sessionKey string

const (
	SessionKeyCustomerId = sessionKey("customerID")
)

type contextKey string

const loggerKey = contextKey("logger")

func (s sessionKey) String() string {
	return string(s)
}

func (app *Application) contextGetCustomerId(r *http.Request) uuid.UUID {
	customerId, ok := r.Context().Value(SessionKeyCustomerId).(uuid.UUID)
	if !ok {
		panic("missing customer id from context")
	}

	return customerId
}
