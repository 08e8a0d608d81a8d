package app

import (
	"errors"
	"net/http"

	"github.com/selimacar/cinema-reservation-engine/api"
	"github.com/selimacar/cinema-reservation-engine/internal/domain"
)

func (app *Application) GetAvailabilityByShowtime(
	w http.ResponseWriter,
	r *http.Request,
	showtimeID int) {

	logger := app.contextGetLogger(r)

	if showtimeID < 1 {
		app.badRequestResponse(w, r, errors.New("showtime ID must be greater than zero"))
		return
	}

	seats, err := app.seatRepo.GetSeatsByShowtime(r.Context(), showtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(seats) == 0 {
		logger.Warn("availability requested for unknown showtime", "showtime_id", showtimeID)
		app.notFoundResponse(w, r)
		return
	}

	resp := toAvailabilityResponse(showtimeID, seats)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toAvailabilityResponse(showtimeID int, seats []domain.Seat) api.AvailabilityResponse {
	resp := api.AvailabilityResponse{
		ShowtimeId: showtimeID,
		Available:  make([]api.AvailableSeat, 0, len(seats)),
		Held:       make([]string, 0),
		Booked:     make([]string, 0),
		TotalSeats: len(seats),
	}

	for _, seat := range seats {
		switch seat.Status {
		case domain.SeatStatusAvailable:
			resp.Available = append(resp.Available, api.AvailableSeat{
				SeatLabel: seat.Label,
				SeatType:  seat.Type,
				Price:     seat.Price,
			})
		case domain.SeatStatusHeld:
			resp.Held = append(resp.Held, seat.Label)
		case domain.SeatStatusBooked:
			resp.Booked = append(resp.Booked, seat.Label)
		}
		// blocked seats count toward TotalSeats but join no partition
	}

	return resp
}
