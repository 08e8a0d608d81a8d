package domain

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRefunded  BookingStatus = "refunded"
)

// Booking is the permanent record created when a hold is confirmed and paid.
type Booking struct {
	ID          uuid.UUID
	Number      string
	CustomerID  uuid.UUID
	ShowtimeID  int
	HoldID      uuid.UUID
	Seats       []SeatLineItem
	TotalAmount decimal.Decimal
	PaymentRef  string
	Status      BookingStatus
	CreatedAt   time.Time
}

type BookingSummary struct {
	ID          uuid.UUID
	Number      string
	ShowtimeID  int
	SeatCount   int
	TotalAmount decimal.Decimal
	Status      BookingStatus
	CreatedAt   time.Time
}

func NewBooking(hold *Hold, paymentRef string) *Booking {
	return &Booking{
		ID:          uuid.New(),
		Number:      NewBookingNumber(),
		CustomerID:  hold.CustomerID,
		ShowtimeID:  hold.ShowtimeID,
		HoldID:      hold.ID,
		Seats:       hold.Seats,
		TotalAmount: hold.TotalAmount,
		PaymentRef:  paymentRef,
		Status:      BookingStatusConfirmed,
		CreatedAt:   time.Now().UTC(),
	}
}

// bookingNumberAlphabet omits characters that are easy to misread on a
// printed ticket (I, L, O, U).
const bookingNumberAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const bookingNumberLength = 8

// NewBookingNumber returns a human-readable reference like "BK-7GK4QZ2M".
// Global uniqueness is enforced by the database; callers regenerate on
// collision.
func NewBookingNumber() string {
	b := make([]byte, bookingNumberLength)
	rand.Read(b)

	for i := range b {
		b[i] = bookingNumberAlphabet[int(b[i])%len(bookingNumberAlphabet)]
	}

	return "BK-" + string(b)
}

type BookingRepository interface {
	// Confirm promotes the hold's seats from held to booked, marks the hold
	// confirmed, and inserts the booking, all within one transaction. It
	// fails with ErrHoldNotPending when the hold was already terminated or
	// its deadline passed at write time.
	Confirm(ctx context.Context, hold *Hold, paymentRef string) (*Booking, error)

	GetByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	GetSummariesByCustomer(ctx context.Context, customerID uuid.UUID, pagination Pagination) ([]BookingSummary, *Metadata, error)
}
