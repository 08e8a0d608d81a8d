package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrEditConflict      = errors.New("edit conflict")
	ErrSeatsUnavailable  = errors.New("seat(s) are no longer available")
	ErrHoldNotPending    = errors.New("hold is not pending")
	ErrHoldExpired       = errors.New("hold has expired")
	ErrPaymentDeclined   = errors.New("payment was declined")
	ErrUnknownTicketType = errors.New("unknown ticket type")
)

// UnavailableSeatsError names the seats that could not be claimed. It unwraps
// to ErrSeatsUnavailable so callers can match on the sentinel.
type UnavailableSeatsError struct {
	Labels []string
}

func (e *UnavailableSeatsError) Error() string {
	return fmt.Sprintf("seat(s) are no longer available: %s", strings.Join(e.Labels, ", "))
}

func (e *UnavailableSeatsError) Unwrap() error {
	return ErrSeatsUnavailable
}
