package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// TicketType is catalog-owned pricing data. Modifier scales a seat's base
// price, e.g. 0.75 for a child ticket.
type TicketType struct {
	ID       int
	Name     string
	Modifier decimal.Decimal
}

type TicketTypeRepository interface {
	GetByIDs(ctx context.Context, ids []int) ([]TicketType, error)
}
