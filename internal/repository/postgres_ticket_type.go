package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimacar/cinema-reservation-engine/internal/domain"
)

type PostgresTicketTypeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTicketTypeRepository(db *pgxpool.Pool) *PostgresTicketTypeRepository {
	return &PostgresTicketTypeRepository{
		db: db,
	}
}

func (p *PostgresTicketTypeRepository) GetByIDs(ctx context.Context, ids []int) ([]domain.TicketType, error) {
	query := `
		SELECT id, name, price_modifier
		FROM ticket_types
		WHERE id = ANY($1)
		ORDER BY id
	`

	rows, err := p.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ticketTypes := make([]domain.TicketType, 0, len(ids))

	for rows.Next() {
		var ticketType domain.TicketType

		err := rows.Scan(&ticketType.ID, &ticketType.Name, &ticketType.Modifier)
		if err != nil {
			return nil, err
		}

		ticketTypes = append(ticketTypes, ticketType)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ticketTypes, nil
}
