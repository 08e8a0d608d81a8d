package mocks

import (
	"context"

	"github.com/selimacar/cinema-reservation-engine/internal/domain"
)

type MockTicketTypeRepo struct {
	GetByIDsFunc func(ctx context.Context, ids []int) ([]domain.TicketType, error)
}

func (m *MockTicketTypeRepo) GetByIDs(ctx context.Context, ids []int) ([]domain.TicketType, error) {
	return m.GetByIDsFunc(ctx, ids)
}
