// Package sweeper reclaims seats from holds whose TTL elapsed without a
// confirmation. It is a safety net behind the read-time expiry checks, so
// a delayed sweep affects bookkeeping, not correctness.
package sweeper

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/selimacar/cinema-reservation-engine/internal/domain"
)

type Config struct {
	Interval  time.Duration
	BatchSize int
}

func DefaultConfig() Config {
	return Config{
		Interval:  30 * time.Second,
		BatchSize: 100,
	}
}

// Stats is a point-in-time snapshot of the sweeper's counters.
type Stats struct {
	Running       bool
	LastSweepAt   time.Time
	SweptHolds    int64
	ReleasedSeats int64
}

type Sweeper struct {
	holdRepo domain.HoldRepository
	logger   *slog.Logger
	config   Config

	mu            sync.Mutex
	running       bool
	lastSweepAt   time.Time
	sweptHolds    int64
	releasedSeats int64
}

func New(holdRepo domain.HoldRepository, logger *slog.Logger, config Config) *Sweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}

	return &Sweeper{
		holdRepo: holdRepo,
		logger:   logger,
		config:   config,
	}
}

// Run sweeps on every tick until ctx is cancelled. It always returns nil so
// a coordinated shutdown is not reported as a failure.
func (s *Sweeper) Run(ctx context.Context) error {
	s.setRunning(true)
	defer s.setRunning(false)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep expires one batch of overdue holds. Each hold is expired in its own
// transaction; a hold that was confirmed or cancelled between the scan and
// the write is skipped, and any other failure is logged without stopping
// the batch.
func (s *Sweeper) Sweep(ctx context.Context) (int, int) {
	holdIDs, err := s.holdRepo.ListExpiredIDs(ctx, s.config.BatchSize)
	if err != nil {
		s.logger.Error("failed to list expired holds", "error", err)
		return 0, 0
	}

	swept := 0
	released := 0

	for _, holdID := range holdIDs {
		seats, err := s.holdRepo.Expire(ctx, holdID)
		if err != nil {
			if errors.Is(err, domain.ErrHoldNotPending) {
				continue
			}

			s.logger.Error("failed to expire hold", "hold_id", holdID, "error", err)
			continue
		}

		swept++
		released += int(seats)
	}

	s.recordSweep(swept, released)

	if swept > 0 {
		s.logger.Info("released expired holds", "holds", swept, "seats", released)
	}

	return swept, released
}

func (s *Sweeper) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Running:       s.running,
		LastSweepAt:   s.lastSweepAt,
		SweptHolds:    s.sweptHolds,
		ReleasedSeats: s.releasedSeats,
	}
}

func (s *Sweeper) setRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = running
}

func (s *Sweeper) recordSweep(swept, released int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSweepAt = time.Now()
	s.sweptHolds += int64(swept)
	s.releasedSeats += int64(released)
}
