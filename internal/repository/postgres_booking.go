package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimacar/cinema-reservation-engine/internal/domain"
)

const maxBookingNumberAttempts = 3

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Confirm promotes a paid-for hold into a booking within one transaction.
// The hold transition is conditional on it still being pending and unexpired
// at write time; a sweeper or cancel that won the race makes this fail with
// ErrHoldNotPending instead of double-applying. Booking numbers are random,
// so a unique violation regenerates and retries.
func (p *PostgresBookingRepository) Confirm(
	ctx context.Context,
	hold *domain.Hold,
	paymentRef string) (*domain.Booking, error) {

	for attempt := 0; attempt < maxBookingNumberAttempts; attempt++ {
		booking := domain.NewBooking(hold, paymentRef)

		err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
			return p.confirmHold(ctx, tx, hold, booking)
		})

		if err != nil {
			if isUniqueViolation(err) {
				continue
			}

			return nil, err
		}

		return booking, nil
	}

	return nil, fmt.Errorf("failed to allocate a unique booking number after %d attempts", maxBookingNumberAttempts)
}

func (p *PostgresBookingRepository) confirmHold(
	ctx context.Context,
	tx pgx.Tx,
	hold *domain.Hold,
	booking *domain.Booking) error {

	query := `
		UPDATE holds
		SET status = 'confirmed'
		WHERE id = $1 AND status = 'pending' AND expires_at > now()
	`

	tag, err := tx.Exec(ctx, query, hold.ID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrHoldNotPending
	}

	query = `
		UPDATE seats
		SET status = 'booked', hold_id = NULL, hold_expires_at = NULL, version = version + 1
		WHERE hold_id = $1 AND status = 'held'
	`

	tag, err = tx.Exec(ctx, query, hold.ID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() != int64(len(hold.Seats)) {
		return fmt.Errorf("hold %s: promoted %d of %d held seats", hold.ID, tag.RowsAffected(), len(hold.Seats))
	}

	query = `
		INSERT INTO bookings (id, booking_number, customer_id, showtime_id, hold_id, total_amount, payment_reference, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.Exec(
		ctx,
		query,
		booking.ID,
		booking.Number,
		booking.CustomerID,
		booking.ShowtimeID,
		booking.HoldID,
		booking.TotalAmount,
		booking.PaymentRef,
		booking.Status,
		booking.CreatedAt,
	)
	if err != nil {
		return err
	}

	rows := make([][]any, 0, len(booking.Seats))
	for i, seat := range booking.Seats {
		rows = append(rows, []any{
			booking.ID,
			seat.SeatLabel,
			seat.TicketTypeID,
			seat.UnitPrice,
			i,
		})
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"booking_seats"},
		[]string{"booking_id", "seat_label", "ticket_type_id", "unit_price", "position"},
		pgx.CopyFromRows(rows),
	)

	return err
}

func (p *PostgresBookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	query := `
		SELECT id, booking_number, customer_id, showtime_id, hold_id, total_amount, payment_reference, status, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, bookingID).Scan(
		&booking.ID,
		&booking.Number,
		&booking.CustomerID,
		&booking.ShowtimeID,
		&booking.HoldID,
		&booking.TotalAmount,
		&booking.PaymentRef,
		&booking.Status,
		&booking.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	seats, err := p.retrieveBookingSeats(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	booking.Seats = seats

	return &booking, nil
}

func (p *PostgresBookingRepository) retrieveBookingSeats(ctx context.Context, bookingID uuid.UUID) ([]domain.SeatLineItem, error) {
	query := `
		SELECT seat_label, ticket_type_id, unit_price
		FROM booking_seats
		WHERE booking_id = $1
		ORDER BY position
	`

	rows, err := p.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.SeatLineItem, 0)

	for rows.Next() {
		var seat domain.SeatLineItem

		err := rows.Scan(&seat.SeatLabel, &seat.TicketTypeID, &seat.UnitPrice)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (p *PostgresBookingRepository) GetSummariesByCustomer(
	ctx context.Context,
	customerID uuid.UUID,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			b.booking_number,
			b.showtime_id,
			(SELECT COUNT(*) FROM booking_seats bs WHERE bs.booking_id = b.id),
			b.total_amount,
			b.status,
			b.created_at
		FROM bookings b
		WHERE b.customer_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, customerID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var summary domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&summary.ID,
			&summary.Number,
			&summary.ShowtimeID,
			&summary.SeatCount,
			&summary.TotalAmount,
			&summary.Status,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return summaries, metadata, nil
}
