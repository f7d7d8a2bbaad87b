package port

import (
	"context"

	"github.com/clayshop/storefront/internal/core/domain"
)

// CheckoutRepository persists the checkout journal.
type CheckoutRepository interface {
	// CreateCheckout inserts a new record for an opened payment session.
	CreateCheckout(ctx context.Context, rec domain.CheckoutRecord) error

	// MarkStatus records a status reported by the gateway. Returns false when
	// no row changed, either because the record is unknown or because it
	// already reached a settled status.
	MarkStatus(ctx context.Context, intentID string, status domain.PaymentStatus) (bool, error)
}
