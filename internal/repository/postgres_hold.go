package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimacar/cinema-reservation-engine/internal/domain"
)

// releaseSeatsQuery returns every seat still held by the given hold back to
// the available pool. It is shared by cancellation and expiry.
const releaseSeatsQuery = `
	UPDATE seats
	SET status = 'available', hold_id = NULL, hold_expires_at = NULL, version = version + 1
	WHERE hold_id = $1 AND status = 'held'
`

type PostgresHoldRepository struct {
	db *pgxpool.Pool
}

func NewPostgresHoldRepository(db *pgxpool.Pool) *PostgresHoldRepository {
	return &PostgresHoldRepository{
		db: db,
	}
}

// Create claims the hold's seats with a compare-and-swap on each seat's
// version inside one transaction. A lost race re-runs the read-check once;
// a second loss surfaces as a conflict, never as a silent overwrite.
func (p *PostgresHoldRepository) Create(ctx context.Context, hold *domain.Hold) error {
	var err error

	for attempt := 0; attempt < 2; attempt++ {
		err = runInTx(ctx, p.db, func(tx pgx.Tx) error {
			return p.createHold(ctx, tx, hold)
		})

		if !errors.Is(err, domain.ErrEditConflict) {
			return err
		}
	}

	return domain.ErrSeatsUnavailable
}

func (p *PostgresHoldRepository) createHold(ctx context.Context, tx pgx.Tx, hold *domain.Hold) error {
	labels := hold.SeatLabels()

	versions, unavailable, err := readSeatVersions(ctx, tx, hold.ShowtimeID, labels)
	if err != nil {
		return err
	}

	if len(unavailable) > 0 {
		return &domain.UnavailableSeatsError{Labels: unavailable}
	}

	query := `
		INSERT INTO holds (id, customer_id, showtime_id, status, total_amount, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(
		ctx,
		query,
		hold.ID,
		hold.CustomerID,
		hold.ShowtimeID,
		hold.Status,
		hold.TotalAmount,
		hold.ExpiresAt,
		hold.CreatedAt,
	)
	if err != nil {
		return err
	}

	rows := make([][]any, 0, len(hold.Seats))
	for i, seat := range hold.Seats {
		rows = append(rows, []any{
			hold.ID,
			seat.SeatLabel,
			seat.TicketTypeID,
			seat.UnitPrice,
			i,
		})
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"hold_seats"},
		[]string{"hold_id", "seat_label", "ticket_type_id", "unit_price", "position"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return err
	}

	return claimSeats(ctx, tx, hold, versions)
}

// readSeatVersions re-reads the requested seats inside the transaction and
// partitions them into claimable (label -> version) and unavailable. A label
// with no row counts as unavailable.
func readSeatVersions(
	ctx context.Context,
	tx pgx.Tx,
	showtimeID int,
	labels []string) (map[string]int64, []string, error) {

	query := `
		SELECT seat_label, status, version
		FROM seats
		WHERE showtime_id = $1 AND seat_label = ANY($2)
	`

	rows, err := tx.Query(ctx, query, showtimeID, labels)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	versions := make(map[string]int64, len(labels))

	for rows.Next() {
		var (
			label   string
			status  domain.SeatStatus
			version int64
		)

		err := rows.Scan(&label, &status, &version)
		if err != nil {
			return nil, nil, err
		}

		if status != domain.SeatStatusAvailable {
			continue
		}

		versions[label] = version
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var unavailable []string
	for _, label := range labels {
		if _, ok := versions[label]; !ok {
			unavailable = append(unavailable, label)
		}
	}

	sort.Strings(unavailable)

	return versions, unavailable, nil
}

// claimSeats flips each seat to held, guarded by the status and the version
// read moments ago in this same transaction. Any compare-and-swap matching
// zero rows means a concurrent writer won.
func claimSeats(ctx context.Context, tx pgx.Tx, hold *domain.Hold, versions map[string]int64) error {
	query := `
		UPDATE seats
		SET status = 'held', hold_id = $1, hold_expires_at = $2, version = version + 1
		WHERE showtime_id = $3 AND seat_label = $4 AND status = 'available' AND version = $5
	`

	labels := hold.SeatLabels()
	sort.Strings(labels)

	batch := &pgx.Batch{}
	for _, label := range labels {
		batch.Queue(query, hold.ID, hold.ExpiresAt, hold.ShowtimeID, label, versions[label])
	}

	results := tx.SendBatch(ctx, batch)

	for range labels {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return err
		}

		if tag.RowsAffected() != 1 {
			results.Close()
			return domain.ErrEditConflict
		}
	}

	return results.Close()
}

func (p *PostgresHoldRepository) GetByID(ctx context.Context, holdID uuid.UUID) (*domain.Hold, error) {
	query := `
		SELECT id, customer_id, showtime_id, status, total_amount, expires_at, created_at
		FROM holds
		WHERE id = $1
	`

	var hold domain.Hold

	err := p.db.QueryRow(ctx, query, holdID).Scan(
		&hold.ID,
		&hold.CustomerID,
		&hold.ShowtimeID,
		&hold.Status,
		&hold.TotalAmount,
		&hold.ExpiresAt,
		&hold.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	seats, err := p.retrieveHoldSeats(ctx, holdID)
	if err != nil {
		return nil, err
	}

	hold.Seats = seats

	return &hold, nil
}

func (p *PostgresHoldRepository) retrieveHoldSeats(ctx context.Context, holdID uuid.UUID) ([]domain.SeatLineItem, error) {
	query := `
		SELECT seat_label, ticket_type_id, unit_price
		FROM hold_seats
		WHERE hold_id = $1
		ORDER BY position
	`

	rows, err := p.db.Query(ctx, query, holdID)
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

func (p *PostgresHoldRepository) Cancel(ctx context.Context, holdID uuid.UUID) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE holds
			SET status = 'cancelled'
			WHERE id = $1 AND status = 'pending'
		`

		tag, err := tx.Exec(ctx, query, holdID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrHoldNotPending
		}

		_, err = tx.Exec(ctx, releaseSeatsQuery, holdID)

		return err
	})
}

func (p *PostgresHoldRepository) ListExpiredIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id
		FROM holds
		WHERE status = 'pending' AND expires_at <= now()
		ORDER BY expires_at
		LIMIT $1
	`

	rows, err := p.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)

	for rows.Next() {
		var id uuid.UUID

		err := rows.Scan(&id)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// Expire terminates an overdue hold in its own transaction. The transition is
// conditional on the hold still being pending, so a concurrent cancel or
// confirmation cannot both apply.
func (p *PostgresHoldRepository) Expire(ctx context.Context, holdID uuid.UUID) (int64, error) {
	var released int64

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE holds
			SET status = 'expired'
			WHERE id = $1 AND status = 'pending' AND expires_at <= now()
		`

		tag, err := tx.Exec(ctx, query, holdID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrHoldNotPending
		}

		tag, err = tx.Exec(ctx, releaseSeatsQuery, holdID)
		if err != nil {
			return err
		}

		released = tag.RowsAffected()

		return nil
	})

	if err != nil {
		return 0, err
	}

	return released, nil
}
