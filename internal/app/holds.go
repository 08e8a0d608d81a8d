package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/selimacar/cinema-reservation-engine/api"
	"github.com/selimacar/cinema-reservation-engine/internal/domain"
	"github.com/shopspring/decimal"
)

func (app *Application) CreateHoldHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CreateHoldRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	customerId := app.contextGetCustomerId(r)

	labels := make([]string, len(input.Seats))
	for i, selection := range input.Seats {
		labels[i] = selection.SeatLabel
	}

	seats, err := app.seatRepo.GetSeatsByShowtimeAndLabels(r.Context(), input.ShowtimeId, labels)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	lineItems, err := app.priceSelections(r.Context(), input.Seats, seats)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatsUnavailable):
			logger.Warn("hold rejected: requested seats not available", "showtime_id", input.ShowtimeId, "error", err)
			app.editConflictResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrUnknownTicketType):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	ttl := app.resolveHoldTTL(input.TtlSeconds)
	hold := domain.NewHold(customerId, input.ShowtimeId, lineItems, ttl)

	err = app.holdRepo.Create(r.Context(), hold)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatsUnavailable):
			logger.Warn("hold lost the seat race", "showtime_id", input.ShowtimeId, "error", err)
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusCreated, toHoldResponse(hold), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetHoldHandler(w http.ResponseWriter, r *http.Request, holdId uuid.UUID) {
	customerId := app.contextGetCustomerId(r)

	hold, err := app.holdRepo.GetByID(r.Context(), holdId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if hold.CustomerID != customerId {
		app.notPermittedResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toHoldResponse(hold), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelHoldHandler(w http.ResponseWriter, r *http.Request, holdId uuid.UUID) {
	logger := app.contextGetLogger(r)
	customerId := app.contextGetCustomerId(r)

	hold, err := app.holdRepo.GetByID(r.Context(), holdId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if hold.CustomerID != customerId {
		app.notPermittedResponse(w, r)
		return
	}

	if hold.Status != domain.HoldStatusPending {
		app.editConflictResponseWithErr(w, r, fmt.Errorf("hold is already %s", hold.Status))
		return
	}

	err = app.holdRepo.Cancel(r.Context(), holdId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHoldNotPending):
			logger.Warn("cancel lost a terminal-transition race", "hold_id", holdId)
			app.editConflictResponseWithErr(w, r, errors.New("hold is no longer pending"))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// priceSelections resolves the unit price of every selection: seat base
// price times the ticket type's modifier. Selections referencing missing or
// non-available seats fail as a whole with the offending labels.
func (app *Application) priceSelections(
	ctx context.Context,
	selections []api.SeatSelection,
	seats []domain.Seat) ([]domain.SeatLineItem, error) {

	seatsByLabel := make(map[string]domain.Seat, len(seats))
	for _, seat := range seats {
		seatsByLabel[seat.Label] = seat
	}

	var unavailable []string
	for _, selection := range selections {
		seat, ok := seatsByLabel[selection.SeatLabel]
		if !ok || seat.Status != domain.SeatStatusAvailable {
			unavailable = append(unavailable, selection.SeatLabel)
		}
	}

	if len(unavailable) > 0 {
		return nil, &domain.UnavailableSeatsError{Labels: unavailable}
	}

	ticketTypeIds := make([]int, 0, len(selections))
	seen := make(map[int]bool, len(selections))
	for _, selection := range selections {
		if !seen[selection.TicketTypeId] {
			seen[selection.TicketTypeId] = true
			ticketTypeIds = append(ticketTypeIds, selection.TicketTypeId)
		}
	}

	ticketTypes, err := app.ticketTypeRepo.GetByIDs(ctx, ticketTypeIds)
	if err != nil {
		return nil, err
	}

	modifiers := make(map[int]decimal.Decimal, len(ticketTypes))
	for _, ticketType := range ticketTypes {
		modifiers[ticketType.ID] = ticketType.Modifier
	}

	lineItems := make([]domain.SeatLineItem, len(selections))
	for i, selection := range selections {
		modifier, ok := modifiers[selection.TicketTypeId]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", domain.ErrUnknownTicketType, selection.TicketTypeId)
		}

		seat := seatsByLabel[selection.SeatLabel]
		lineItems[i] = domain.SeatLineItem{
			SeatLabel:    selection.SeatLabel,
			TicketTypeID: selection.TicketTypeId,
			UnitPrice:    seat.Price.Mul(modifier).Round(2),
		}
	}

	return lineItems, nil
}

func (app *Application) resolveHoldTTL(requestedSeconds *int) time.Duration {
	cfg := app.config.Hold

	if requestedSeconds == nil {
		return cfg.DefaultTTL
	}

	ttl := time.Duration(*requestedSeconds) * time.Second

	if ttl < cfg.MinTTL {
		return cfg.MinTTL
	}
	if ttl > cfg.MaxTTL {
		return cfg.MaxTTL
	}

	return ttl
}

func toHoldResponse(hold *domain.Hold) api.HoldResponse {
	return api.HoldResponse{
		HoldId:      hold.ID,
		ShowtimeId:  hold.ShowtimeID,
		Seats:       toApiSeatLineItems(hold.Seats),
		TotalAmount: hold.TotalAmount,
		Status:      string(hold.Status),
		ExpiresAt:   hold.ExpiresAt,
		CreatedAt:   hold.CreatedAt,
	}
}

func toApiSeatLineItems(seats []domain.SeatLineItem) []api.SeatLineItem {
	lineItems := make([]api.SeatLineItem, len(seats))

	for i, v := range seats {
		lineItems[i] = api.SeatLineItem{
			SeatLabel:    v.SeatLabel,
			TicketTypeId: v.TicketTypeID,
			UnitPrice:    v.UnitPrice,
		}
	}

	return lineItems
}
