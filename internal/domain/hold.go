package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HoldStatus string

const (
	HoldStatusPending   HoldStatus = "pending"
	HoldStatusExpired   HoldStatus = "expired"
	HoldStatusConfirmed HoldStatus = "confirmed"
	HoldStatusCancelled HoldStatus = "cancelled"
)

// SeatLineItem is one priced seat of a hold or booking. UnitPrice is the seat
// base price multiplied by the ticket type modifier.
type SeatLineItem struct {
	SeatLabel    string
	TicketTypeID int
	UnitPrice    decimal.Decimal
}

// Hold is a time-boxed claim on a set of seats for one showtime. Seats keeps
// the order of the original request.
type Hold struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	ShowtimeID  int
	Seats       []SeatLineItem
	TotalAmount decimal.Decimal
	Status      HoldStatus
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

func NewHold(customerID uuid.UUID, showtimeID int, seats []SeatLineItem, ttl time.Duration) *Hold {
	now := time.Now().UTC()

	total := decimal.Zero
	for _, s := range seats {
		total = total.Add(s.UnitPrice)
	}

	return &Hold{
		ID:          uuid.New(),
		CustomerID:  customerID,
		ShowtimeID:  showtimeID,
		Seats:       seats,
		TotalAmount: total,
		Status:      HoldStatusPending,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}
}

func (h *Hold) SeatLabels() []string {
	labels := make([]string, 0, len(h.Seats))
	for _, s := range h.Seats {
		labels = append(labels, s.SeatLabel)
	}

	return labels
}

// IsExpired reports whether the hold's deadline has passed. The deadline is
// authoritative on its own: callers must not rely on Status alone, since the
// sweeper may not have run yet.
func (h *Hold) IsExpired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}

type HoldRepository interface {
	// Create persists the hold and transitions its seats from available to
	// held within one transaction. It fails with ErrSeatsUnavailable when any
	// requested seat cannot be claimed.
	Create(ctx context.Context, hold *Hold) error

	GetByID(ctx context.Context, holdID uuid.UUID) (*Hold, error)

	// Cancel marks a still-pending hold cancelled and releases its seats.
	Cancel(ctx context.Context, holdID uuid.UUID) error

	// ListExpiredIDs returns ids of pending holds whose deadline has passed,
	// oldest first, capped at limit.
	ListExpiredIDs(ctx context.Context, limit int) ([]uuid.UUID, error)

	// Expire marks a still-pending hold expired and releases its seats,
	// returning the number of seats released. Expiring a hold that is no
	// longer pending is a no-op reported as ErrHoldNotPending.
	Expire(ctx context.Context, holdID uuid.UUID) (int64, error)
}
