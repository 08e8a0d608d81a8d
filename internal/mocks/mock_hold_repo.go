package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/selimacar/cinema-reservation-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockHoldRepo struct {
	mock.Mock
	domain.HoldRepository
}

func (m *MockHoldRepo) Create(ctx context.Context, hold *domain.Hold) error {
	args := m.Called(ctx, hold)
	return args.Error(0)
}

func (m *MockHoldRepo) GetByID(ctx context.Context, holdID uuid.UUID) (*domain.Hold, error) {
	args := m.Called(ctx, holdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockHoldRepo) Cancel(ctx context.Context, holdID uuid.UUID) error {
	args := m.Called(ctx, holdID)
	return args.Error(0)
}

func (m *MockHoldRepo) ListExpiredIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockHoldRepo) Expire(ctx context.Context, holdID uuid.UUID) (int64, error) {
	args := m.Called(ctx, holdID)
	return args.Get(0).(int64), args.Error(1)
}
