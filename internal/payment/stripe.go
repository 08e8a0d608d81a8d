package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/selimacar/cinema-reservation-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/refund"
)

type StripePaymentProvider struct {
}

func NewStripePaymentProvider() *StripePaymentProvider {
	return &StripePaymentProvider{}
}

// Charge creates and confirms a PaymentIntent in one call. Redirect-based
// payment methods are disabled because the engine has no return URL to
// come back to.
func (s *StripePaymentProvider) Charge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	amountCents := req.Amount.Mul(decimal.NewFromInt(100)).IntPart()

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
		Metadata: req.Metadata,
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return nil, domain.ErrPaymentDeclined
		}

		return nil, err
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, domain.ErrPaymentDeclined
	}

	return &domain.ChargeResult{TransactionID: intent.ID}, nil
}

func (s *StripePaymentProvider) Refund(ctx context.Context, transactionID string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(transactionID),
	}
	params.Context = ctx

	_, err := refund.New(params)

	return err
}
