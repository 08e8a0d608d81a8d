package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/selimacar/cinema-reservation-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct {
	mock.Mock
	domain.BookingRepository
}

func (m *MockBookingRepo) Confirm(ctx context.Context, hold *domain.Hold, paymentRef string) (*domain.Booking, error) {
	args := m.Called(ctx, hold, paymentRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetSummariesByCustomer(
	ctx context.Context,
	customerID uuid.UUID,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	args := m.Called(ctx, customerID, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.BookingSummary), args.Get(1).(*domain.Metadata), args.Error(2)
}
