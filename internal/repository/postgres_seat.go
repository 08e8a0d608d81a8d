package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimacar/cinema-reservation-engine/internal/domain"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

// GetSeatsByShowtime reads every seat of a showtime in a single statement,
// which gives a consistent snapshot of the ledger.
func (p *PostgresSeatRepository) GetSeatsByShowtime(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	query := `
		SELECT showtime_id, seat_label, seat_type, price, status, hold_id, hold_expires_at, version
		FROM seats
		WHERE showtime_id = $1
		ORDER BY seat_label
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeats(rows)
}

func (p *PostgresSeatRepository) GetSeatsByShowtimeAndLabels(
	ctx context.Context,
	showtimeID int,
	labels []string) ([]domain.Seat, error) {

	query := `
		SELECT showtime_id, seat_label, seat_type, price, status, hold_id, hold_expires_at, version
		FROM seats
		WHERE showtime_id = $1 AND seat_label = ANY($2)
		ORDER BY seat_label
	`

	rows, err := p.db.Query(ctx, query, showtimeID, labels)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeats(rows)
}

func scanSeats(rows pgx.Rows) ([]domain.Seat, error) {
	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err := rows.Scan(
			&seat.ShowtimeID,
			&seat.Label,
			&seat.Type,
			&seat.Price,
			&seat.Status,
			&seat.HoldID,
			&seat.HoldExpiresAt,
			&seat.Version,
		)

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
