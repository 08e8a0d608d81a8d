package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/selimacar/cinema-reservation-engine/internal/domain"
)

// MockPaymentProvider records charges and refunds in memory for testing.
type MockPaymentProvider struct {
	mu          sync.RWMutex
	charges     []domain.ChargeRequest
	refunds     []string
	declineNext bool
	failNext    error
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{
		charges: make([]domain.ChargeRequest, 0),
		refunds: make([]string, 0),
	}
}

func (m *MockPaymentProvider) Charge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return nil, err
	}

	if m.declineNext {
		m.declineNext = false
		return nil, domain.ErrPaymentDeclined
	}

	m.charges = append(m.charges, req)

	return &domain.ChargeResult{TransactionID: fmt.Sprintf("txn_%06d", len(m.charges))}, nil
}

func (m *MockPaymentProvider) Refund(ctx context.Context, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refunds = append(m.refunds, transactionID)

	return nil
}

// DeclineNextCharge makes the next Charge call fail with ErrPaymentDeclined.
func (m *MockPaymentProvider) DeclineNextCharge() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.declineNext = true
}

// FailNextCharge makes the next Charge call fail with the given error.
func (m *MockPaymentProvider) FailNextCharge(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failNext = err
}

// GetCharges returns a copy of all successful charges.
func (m *MockPaymentProvider) GetCharges() []domain.ChargeRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	charges := make([]domain.ChargeRequest, len(m.charges))
	copy(charges, m.charges)
	return charges
}

// GetRefunds returns a copy of all refunded transaction ids.
func (m *MockPaymentProvider) GetRefunds() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	refunds := make([]string, len(m.refunds))
	copy(refunds, m.refunds)
	return refunds
}

// Reset clears recorded charges and refunds.
func (m *MockPaymentProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.charges = make([]domain.ChargeRequest, 0)
	m.refunds = make([]string, 0)
	m.declineNext = false
	m.failNext = nil
}
