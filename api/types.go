// Package api defines the JSON contract of the reservation engine. The types
// are hand-maintained; field names follow the wire format (camelCase).
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationErrorResponse struct {
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors"`
	RequestId string            `json:"requestId"`
	Timestamp time.Time         `json:"timestamp"`
}

type SystemInfo struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

type SweeperInfo struct {
	Running       bool       `json:"running"`
	LastSweepAt   *time.Time `json:"lastSweepAt,omitempty"`
	SweptHolds    int64      `json:"sweptHolds"`
	ReleasedSeats int64      `json:"releasedSeats"`
}

type HealthcheckResponse struct {
	Status     string      `json:"status"`
	SystemInfo SystemInfo  `json:"systemInfo"`
	Sweeper    SweeperInfo `json:"sweeper"`
}

// AvailableSeat carries the purchasable details of a seat that is still free.
type AvailableSeat struct {
	SeatLabel string          `json:"seatLabel"`
	SeatType  string          `json:"seatType"`
	Price     decimal.Decimal `json:"price"`
}

type AvailabilityResponse struct {
	ShowtimeId int             `json:"showtimeId"`
	Available  []AvailableSeat `json:"available"`
	Held       []string        `json:"held"`
	Booked     []string        `json:"booked"`
	TotalSeats int             `json:"totalSeats"`
}

type SeatSelection struct {
	SeatLabel    string `json:"seatLabel" validate:"required,seat_label"`
	TicketTypeId int    `json:"ticketTypeId" validate:"required,gt=0"`
}

type CreateHoldRequest struct {
	ShowtimeId int             `json:"showtimeId" validate:"required,gt=0"`
	Seats      []SeatSelection `json:"seats" validate:"required,min=1,max=10,unique=SeatLabel,dive"`
	TtlSeconds *int            `json:"ttlSeconds,omitempty" validate:"omitempty,gt=0"`
}

type SeatLineItem struct {
	SeatLabel    string          `json:"seatLabel"`
	TicketTypeId int             `json:"ticketTypeId"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}

type HoldResponse struct {
	HoldId      uuid.UUID       `json:"holdId"`
	ShowtimeId  int             `json:"showtimeId"`
	Seats       []SeatLineItem  `json:"seats"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type ConfirmHoldRequest struct {
	PaymentMethodId string `json:"paymentMethodId" validate:"required,max=255"`
	// CustomerEmail, when present, receives the booking confirmation.
	CustomerEmail string `json:"customerEmail,omitempty" validate:"omitempty,email"`
}

type BookingResponse struct {
	BookingId     uuid.UUID       `json:"bookingId"`
	BookingNumber string          `json:"bookingNumber"`
	ShowtimeId    int             `json:"showtimeId"`
	Seats         []SeatLineItem  `json:"seats"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type BookingSummary struct {
	BookingId     uuid.UUID       `json:"bookingId"`
	BookingNumber string          `json:"bookingNumber"`
	ShowtimeId    int             `json:"showtimeId"`
	SeatCount     int             `json:"seatCount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type BookingListResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata Metadata         `json:"metadata"`
}

// ListBookingsParams captures the supported query parameters of the booking
// list endpoint.
type ListBookingsParams struct {
	Page     *int `validate:"omitempty,gt=0"`
	PageSize *int `validate:"omitempty,gt=0,lte=100"`
}
