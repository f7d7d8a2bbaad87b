package port

import (
	"context"

	"github.com/clayshop/storefront/internal/core/domain"
)

// PaymentGateway opens and reports on payment sessions with the external
// payment processor.
type PaymentGateway interface {
	// CreateIntent opens a session for the amount in minor units and returns
	// it with the client secret the browser binds its payment form to.
	CreateIntent(ctx context.Context, amountCents int64, currency string) (domain.PaymentIntent, error)

	// RetrieveIntent looks a session up by its client secret.
	RetrieveIntent(ctx context.Context, clientSecret string) (domain.PaymentIntent, error)
}
