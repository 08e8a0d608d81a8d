package sweeper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/selimacar/cinema-reservation-engine/internal/domain"
	"github.com/selimacar/cinema-reservation-engine/internal/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SweeperTestSuite struct {
	suite.Suite
	holdRepo *mocks.MockHoldRepo
	sweeper  *Sweeper
}

func (s *SweeperTestSuite) SetupTest() {
	s.holdRepo = new(mocks.MockHoldRepo)
	s.sweeper = New(s.holdRepo, slog.New(slog.NewTextHandler(io.Discard, nil)), Config{
		Interval:  10 * time.Millisecond,
		BatchSize: 25,
	})
}

func TestSweeperSuite(t *testing.T) {
	suite.Run(t, new(SweeperTestSuite))
}

func (s *SweeperTestSuite) TestNewAppliesConfigDefaults() {
	sw := New(s.holdRepo, s.sweeper.logger, Config{})

	s.Equal(DefaultConfig().Interval, sw.config.Interval)
	s.Equal(DefaultConfig().BatchSize, sw.config.BatchSize)
}

func (s *SweeperTestSuite) TestSweepReleasesExpiredHolds() {
	defer s.holdRepo.AssertExpectations(s.T())

	first := uuid.New()
	second := uuid.New()

	s.holdRepo.On("ListExpiredIDs", mock.Anything, 25).
		Return([]uuid.UUID{first, second}, nil)
	s.holdRepo.On("Expire", mock.Anything, first).Return(int64(2), nil)
	s.holdRepo.On("Expire", mock.Anything, second).Return(int64(3), nil)

	swept, released := s.sweeper.Sweep(context.Background())

	s.Equal(2, swept)
	s.Equal(5, released)

	stats := s.sweeper.GetStats()
	s.Equal(int64(2), stats.SweptHolds)
	s.Equal(int64(5), stats.ReleasedSeats)
	s.False(stats.LastSweepAt.IsZero())
}

func (s *SweeperTestSuite) TestSweepContinuesPastFailures() {
	defer s.holdRepo.AssertExpectations(s.T())

	confirmedMeanwhile := uuid.New()
	failing := uuid.New()
	expirable := uuid.New()

	s.holdRepo.On("ListExpiredIDs", mock.Anything, 25).
		Return([]uuid.UUID{confirmedMeanwhile, failing, expirable}, nil)
	s.holdRepo.On("Expire", mock.Anything, confirmedMeanwhile).
		Return(int64(0), domain.ErrHoldNotPending)
	s.holdRepo.On("Expire", mock.Anything, failing).
		Return(int64(0), errors.New("connection reset"))
	s.holdRepo.On("Expire", mock.Anything, expirable).Return(int64(2), nil)

	swept, released := s.sweeper.Sweep(context.Background())

	s.Equal(1, swept)
	s.Equal(2, released)
}

func (s *SweeperTestSuite) TestSweepStopsWhenScanFails() {
	defer s.holdRepo.AssertExpectations(s.T())

	s.holdRepo.On("ListExpiredIDs", mock.Anything, 25).
		Return(nil, errors.New("connection reset"))

	swept, released := s.sweeper.Sweep(context.Background())

	s.Equal(0, swept)
	s.Equal(0, released)
	s.True(s.sweeper.GetStats().LastSweepAt.IsZero())
}

func (s *SweeperTestSuite) TestSweepRecordsEmptyBatches() {
	defer s.holdRepo.AssertExpectations(s.T())

	s.holdRepo.On("ListExpiredIDs", mock.Anything, 25).
		Return([]uuid.UUID{}, nil)

	swept, released := s.sweeper.Sweep(context.Background())

	s.Equal(0, swept)
	s.Equal(0, released)

	stats := s.sweeper.GetStats()
	s.Equal(int64(0), stats.SweptHolds)
	s.False(stats.LastSweepAt.IsZero())
}

func (s *SweeperTestSuite) TestRunSweepsUntilCancelled() {
	s.holdRepo.On("ListExpiredIDs", mock.Anything, 25).
		Return([]uuid.UUID{}, nil).
		Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- s.sweeper.Run(ctx)
	}()

	s.Require().Eventually(func() bool {
		stats := s.sweeper.GetStats()
		return stats.Running && !stats.LastSweepAt.IsZero()
	}, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(time.Second):
		s.Fail("sweeper did not stop after context cancellation")
	}

	s.False(s.sweeper.GetStats().Running)
}
