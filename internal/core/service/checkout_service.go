package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clayshop/storefront/internal/core/domain"
	"github.com/clayshop/storefront/internal/port"
	"github.com/clayshop/storefront/pkg/money"
)

const (
	// Flat shipping surcharge added to every order, in minor units.
	ShippingCents int64 = 500

	checkoutCurrency = "usd"
)

var ErrEmptyCheckout = errors.New("no items in cart")

// UpstreamError marks a failure of the catalog store or payment gateway.
// The wrapped error carries the upstream detail for logging; callers
// surface a generic message.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// CheckoutService derives the charge amount for a cart and opens payment
// sessions. Prices always come fresh from the catalog store; the cart's
// snapshot prices are never charged.
type CheckoutService struct {
	catalog port.CatalogClient
	gateway port.PaymentGateway
	carts   *CartService
	logger  *zap.Logger
	journal chan domain.CheckoutRecord
}

func NewCheckoutService(catalog port.CatalogClient, gateway port.PaymentGateway,
	carts *CartService, logger *zap.Logger, queueSize int) *CheckoutService {
	return &CheckoutService{
		catalog: catalog,
		gateway: gateway,
		carts:   carts,
		logger:  logger,
		journal: make(chan domain.CheckoutRecord, queueSize),
	}
}

// CreatePaymentIntent computes the order total from authoritative catalog
// prices and opens a gateway session for it, returning the session's client
// secret. Items referencing products no longer in the catalog contribute
// nothing; a product may well have been deleted between cart-add and
// checkout.
func (s *CheckoutService) CreatePaymentIntent(ctx context.Context, sessionID string, items []domain.LineItem) (string, error) {
	if len(items) == 0 {
		return "", ErrEmptyCheckout
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return "", &UpstreamError{Op: "fetch catalog", Err: err}
	}

	total := s.orderTotal(products, items)

	intent, err := s.gateway.CreateIntent(ctx, total.TotalCents, checkoutCurrency)
	if err != nil {
		return "", &UpstreamError{Op: "create payment intent", Err: err}
	}

	s.logger.Info("opened payment session",
		zap.String("session", sessionID),
		zap.String("intent", intent.ID),
		zap.Int64("subtotal_cents", total.SubtotalCents),
		zap.Int64("total_cents", total.TotalCents),
	)

	now := time.Now()
	s.journal <- domain.CheckoutRecord{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		IntentID:    intent.ID,
		AmountCents: total.TotalCents,
		Currency:    checkoutCurrency,
		Status:      domain.PaymentStatusAwaiting,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return intent.ClientSecret, nil
}

// PaymentStatus asks the gateway for the session's current status. A
// succeeded payment empties the session's cart; every other status leaves
// it intact so the user can resubmit.
func (s *CheckoutService) PaymentStatus(ctx context.Context, sessionID, clientSecret string) (domain.PaymentStatus, error) {
	intent, err := s.gateway.RetrieveIntent(ctx, clientSecret)
	if err != nil {
		return "", &UpstreamError{Op: "retrieve payment intent", Err: err}
	}

	if intent.Status == domain.PaymentStatusSucceeded {
		s.carts.Clear(ctx, sessionID)
	}

	s.journal <- domain.CheckoutRecord{
		SessionID: sessionID,
		IntentID:  intent.ID,
		Status:    intent.Status,
		UpdatedAt: time.Now(),
	}

	return intent.Status, nil
}

// orderTotal sums round(price*100) * quantity per line, then adds the flat
// shipping surcharge. Unknown product IDs are skipped.
func (s *CheckoutService) orderTotal(products []domain.Product, items []domain.LineItem) domain.OrderTotal {
	var subtotal int64
	for _, item := range items {
		for _, p := range products {
			if p.ID == item.ID {
				subtotal += money.MinorUnits(p.Price) * int64(item.Quantity)
				break
			}
		}
	}

	return domain.OrderTotal{
		SubtotalCents: subtotal,
		ShippingCents: ShippingCents,
		TotalCents:    subtotal + ShippingCents,
	}
}

// Journal exposes the stream of checkout records for the persistence
// workers. Records with status awaiting_payment are inserts; anything else
// is a status transition for an existing record.
func (s *CheckoutService) Journal() <-chan domain.CheckoutRecord {
	return s.journal
}

func (s *CheckoutService) Close() {
	close(s.journal)
}
