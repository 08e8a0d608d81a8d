package mocks

import (
	"context"

	"github.com/selimacar/cinema-reservation-engine/internal/domain"
)

type MockSeatRepo struct {
	GetSeatsByShowtimeFunc          func(ctx context.Context, showtimeID int) ([]domain.Seat, error)
	GetSeatsByShowtimeAndLabelsFunc func(ctx context.Context, showtimeID int, labels []string) ([]domain.Seat, error)
}

func (m *MockSeatRepo) GetSeatsByShowtime(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	return m.GetSeatsByShowtimeFunc(ctx, showtimeID)
}

func (m *MockSeatRepo) GetSeatsByShowtimeAndLabels(
	ctx context.Context,
	showtimeID int,
	labels []string) ([]domain.Seat, error) {

	return m.GetSeatsByShowtimeAndLabelsFunc(ctx, showtimeID, labels)
}
