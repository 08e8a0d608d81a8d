package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type ChargeRequest struct {
	Amount          decimal.Decimal
	Currency        string
	PaymentMethodID string
	Metadata        map[string]string
}

type ChargeResult struct {
	TransactionID string
}

// PaymentProvider is the opaque charge/refund capability the engine consumes.
// A declined charge surfaces as ErrPaymentDeclined; any other error is a
// provider failure.
type PaymentProvider interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, transactionID string) error
}
