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
)

// bookingCurrency is the only currency the engine charges in. Prices in the
// seat map are already denominated in it.
const bookingCurrency = "USD"

const refundTimeout = 30 * time.Second

func (app *Application) ConfirmHoldHandler(w http.ResponseWriter, r *http.Request, holdId uuid.UUID) {
	logger := app.contextGetLogger(r)

	var input api.ConfirmHoldRequest

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

	if hold.IsExpired(time.Now().UTC()) {
		app.holdExpiredResponse(w, r)
		return
	}

	charge, err := app.paymentProvider.Charge(r.Context(), domain.ChargeRequest{
		Amount:          hold.TotalAmount,
		Currency:        bookingCurrency,
		PaymentMethodID: input.PaymentMethodId,
		Metadata: map[string]string{
			"hold_id":     hold.ID.String(),
			"customer_id": customerId.String(),
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentDeclined):
			logger.Warn("charge declined", "hold_id", hold.ID)
			app.paymentRequiredResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	booking, err := app.bookingRepo.Confirm(r.Context(), hold, charge.TransactionID)
	if err != nil {
		app.refundCharge(r, hold.ID, charge.TransactionID)

		switch {
		case errors.Is(err, domain.ErrHoldNotPending):
			logger.Warn("hold terminated while the charge was in flight", "hold_id", hold.ID)
			app.editConflictResponseWithErr(w, r, errors.New("hold is no longer pending"))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.notifyBookingConfirmed(r, booking, input.CustomerEmail)

	err = app.writeJSON(w, http.StatusCreated, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request, bookingId uuid.UUID) {
	customerId := app.contextGetCustomerId(r)

	booking, err := app.bookingRepo.GetByID(r.Context(), bookingId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if booking.CustomerID != customerId {
		app.notPermittedResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ListBookingsHandler(w http.ResponseWriter, r *http.Request, params api.ListBookingsParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	customerId := app.contextGetCustomerId(r)
	pagination := toPagination(params)

	summaries, metadata, err := app.bookingRepo.GetSummariesByCustomer(r.Context(), customerId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	response := api.BookingListResponse{
		Bookings: toApiBookingSummaries(summaries),
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// refundCharge reverses a charge whose booking never materialized. The
// request context may be cancelled before the refund finishes, so the call
// detaches from it while keeping its values.
func (app *Application) refundCharge(r *http.Request, holdId uuid.UUID, transactionID string) {
	logger := app.contextGetLogger(r)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), refundTimeout)
	defer cancel()

	err := app.paymentProvider.Refund(ctx, transactionID)
	if err != nil {
		logger.Error("failed to refund orphaned charge",
			"hold_id", holdId,
			"transaction_id", transactionID,
			"error", err)
		return
	}

	logger.Info("orphaned charge refunded", "hold_id", holdId, "transaction_id", transactionID)
}

// notifyBookingConfirmed publishes the confirmation event and, when the
// customer left an email address, sends the confirmation mail. Both run off
// the request goroutine; the response does not wait on them.
func (app *Application) notifyBookingConfirmed(r *http.Request, booking *domain.Booking, email string) {
	seatLabels := make([]string, len(booking.Seats))
	for i, seat := range booking.Seats {
		seatLabels[i] = seat.SeatLabel
	}

	go func(ctx context.Context) {
		gLogger := app.contextGetLogger(r.WithContext(ctx))

		defer func() {
			if err := recover(); err != nil {
				gLogger.Error("panic while dispatching booking notifications", "error", err)
			}
		}()

		event := domain.BookingConfirmedEvent{
			BookingID:     booking.ID,
			BookingNumber: booking.Number,
			CustomerID:    booking.CustomerID,
			ShowtimeID:    booking.ShowtimeID,
			SeatLabels:    seatLabels,
			TotalAmount:   booking.TotalAmount,
			ConfirmedAt:   booking.CreatedAt,
		}

		err := app.eventPublisher.PublishBookingConfirmed(ctx, event)
		if err != nil {
			gLogger.Error("failed to publish booking confirmation", "booking_id", booking.ID, "error", err)
		}

		if email == "" {
			return
		}

		data := map[string]any{
			"BookingNumber": booking.Number,
			"ShowtimeId":    booking.ShowtimeID,
			"SeatLabels":    seatLabels,
			"TotalAmount":   booking.TotalAmount,
			"Currency":      bookingCurrency,
		}

		err = app.mailer.Send(email, "booking_confirmation.tmpl", data)
		if err != nil {
			gLogger.Error("failed to send booking confirmation email", "booking_id", booking.ID, "error", err)
		}
	}(context.WithoutCancel(r.Context()))
}

func toPagination(params api.ListBookingsParams) domain.Pagination {
	pagination := domain.Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if params.Page != nil {
		pagination.Page = *params.Page
	}
	if params.PageSize != nil {
		pagination.PageSize = *params.PageSize
	}

	return pagination
}

func toBookingResponse(booking *domain.Booking) api.BookingResponse {
	return api.BookingResponse{
		BookingId:     booking.ID,
		BookingNumber: booking.Number,
		ShowtimeId:    booking.ShowtimeID,
		Seats:         toApiSeatLineItems(booking.Seats),
		TotalAmount:   booking.TotalAmount,
		Status:        string(booking.Status),
		CreatedAt:     booking.CreatedAt,
	}
}

func toApiBookingSummaries(summaries []domain.BookingSummary) []api.BookingSummary {
	apiSummaries := make([]api.BookingSummary, len(summaries))

	for i, v := range summaries {
		apiSummaries[i] = api.BookingSummary{
			BookingId:     v.ID,
			BookingNumber: v.Number,
			ShowtimeId:    v.ShowtimeID,
			SeatCount:     v.SeatCount,
			TotalAmount:   v.TotalAmount,
			Status:        string(v.Status),
			CreatedAt:     v.CreatedAt,
		}
	}

	return apiSummaries
}

func toApiMetadata(metadata *domain.Metadata) api.Metadata {
	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
