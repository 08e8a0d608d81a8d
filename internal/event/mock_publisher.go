package event

import (
	"context"
	"sync"

	"github.com/selimacar/cinema-reservation-engine/internal/domain"
)

// MockPublisher records published events in memory for testing.
type MockPublisher struct {
	mu     sync.RWMutex
	events []domain.BookingConfirmedEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		events: make([]domain.BookingConfirmedEvent, 0),
	}
}

func (m *MockPublisher) PublishBookingConfirmed(ctx context.Context, event domain.BookingConfirmedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)

	return nil
}

// GetPublishedEvents returns a copy of all published events.
func (m *MockPublisher) GetPublishedEvents() []domain.BookingConfirmedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]domain.BookingConfirmedEvent, len(m.events))
	copy(events, m.events)
	return events
}

// Reset clears the record of published events.
func (m *MockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = make([]domain.BookingConfirmedEvent, 0)
}
