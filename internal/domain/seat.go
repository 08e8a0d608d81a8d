package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusHeld      SeatStatus = "held"
	SeatStatusBooked    SeatStatus = "booked"
	SeatStatusBlocked   SeatStatus = "blocked"
)

// Seat is one physical seat for one showtime. Version increases on every
// status transition and is the compare-and-swap token of the hold protocol.
type Seat struct {
	ShowtimeID    int
	Label         string
	Type          string
	Price         decimal.Decimal
	Status        SeatStatus
	HoldID        *uuid.UUID
	HoldExpiresAt *time.Time
	Version       int64
}

type SeatRepository interface {
	GetSeatsByShowtime(ctx context.Context, showtimeID int) ([]Seat, error)
	GetSeatsByShowtimeAndLabels(ctx context.Context, showtimeID int, labels []string) ([]Seat, error)
}
