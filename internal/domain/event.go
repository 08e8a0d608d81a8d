package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingConfirmedEvent is published after a booking commits. It carries
// enough for downstream consumers (notifications, analytics) to act without
// querying the ledger.
type BookingConfirmedEvent struct {
	BookingID     uuid.UUID       `json:"bookingId"`
	BookingNumber string          `json:"bookingNumber"`
	CustomerID    uuid.UUID       `json:"customerId"`
	ShowtimeID    int             `json:"showtimeId"`
	SeatLabels    []string        `json:"seatLabels"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	ConfirmedAt   time.Time       `json:"confirmedAt"`
}

type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error
}
