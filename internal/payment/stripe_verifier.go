package payment

import (
	"context"
	"errors"
	"fmt"

	"instapic-ticketing/internal/logger"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

const (
	MetadataPackageID = "package_id"
	MetadataEventCode = "event_code"
)

var ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")

type paymentIntentGetter interface {
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeVerifier treats the order id as a Stripe PaymentIntent id. The
// checkout flow stores package_id (and optionally event_code) in metadata.
type StripeVerifier struct {
	intents paymentIntentGetter
	log     *logger.Logger
}

func NewStripeVerifier(secretKey string, log *logger.Logger) (*StripeVerifier, error) {
	if secretKey == "" {
		log.Error("STRIPE", "STRIPE_SECRET_KEY environment variable not set")
		return nil, ErrStripeClientInitFailed
	}

	sc := client.New(secretKey, nil)
	if sc == nil {
		log.Error("STRIPE", "Failed to initialize Stripe client")
		return nil, ErrStripeClientInitFailed
	}

	log.Info("STRIPE", "Stripe client initialized successfully")
	return newStripeVerifier(sc.PaymentIntents, log), nil
}

func newStripeVerifier(intents paymentIntentGetter, log *logger.Logger) *StripeVerifier {
	return &StripeVerifier{intents: intents, log: log}
}

// Verify returns nil when the intent has not succeeded or carries no
// package id, so an unpaid order never becomes a ticket.
func (v *StripeVerifier) Verify(ctx context.Context, orderID string) (*Verification, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := v.intents.Get(orderID, params)
	if err != nil {
		v.log.Error("STRIPE", fmt.Sprintf("Failed to retrieve payment intent %s: %v", orderID, err))
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		v.log.Warn("STRIPE", fmt.Sprintf("Payment intent %s has status %s", orderID, intent.Status))
		return nil, nil
	}

	packageID := intent.Metadata[MetadataPackageID]
	if packageID == "" {
		v.log.Warn("STRIPE", fmt.Sprintf("Payment intent %s has no package_id metadata", orderID))
		return nil, nil
	}

	return &Verification{
		PackageID:   packageID,
		AmountCents: intent.AmountReceived,
		EventCode:   intent.Metadata[MetadataEventCode],
	}, nil
}
