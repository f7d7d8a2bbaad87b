package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/clayshop/storefront/internal/core/domain"
)

// Mock CatalogClient
type mockCatalog struct {
	products []domain.Product
	err      error
	calls    int
}

func (m *mockCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

// Mock PaymentGateway
type mockGateway struct {
	intent      domain.PaymentIntent
	createErr   error
	retrieveErr error

	createCalls  int
	createdCents int64
	currency     string
}

func (m *mockGateway) CreateIntent(ctx context.Context, amountCents int64, currency string) (domain.PaymentIntent, error) {
	m.createCalls++
	m.createdCents = amountCents
	m.currency = currency
	if m.createErr != nil {
		return domain.PaymentIntent{}, m.createErr
	}
	return m.intent, nil
}

func (m *mockGateway) RetrieveIntent(ctx context.Context, clientSecret string) (domain.PaymentIntent, error) {
	if m.retrieveErr != nil {
		return domain.PaymentIntent{}, m.retrieveErr
	}
	return m.intent, nil
}

func newCheckoutFixture(catalog *mockCatalog, gateway *mockGateway) (*CheckoutService, *CartService) {
	carts := NewCartService(newMockKVStore(), zap.NewNop())
	svc := NewCheckoutService(catalog, gateway, carts, zap.NewNop(), 16)
	return svc, carts
}

func TestCreatePaymentIntent_EmptyItems(t *testing.T) {
	gateway := &mockGateway{}
	svc, _ := newCheckoutFixture(&mockCatalog{}, gateway)
	defer svc.Close()

	_, err := svc.CreatePaymentIntent(context.Background(), "sess-1", nil)
	if !errors.Is(err, ErrEmptyCheckout) {
		t.Fatalf("expected ErrEmptyCheckout, got %v", err)
	}
	if gateway.createCalls != 0 {
		t.Error("expected no gateway call for empty checkout")
	}
}

func TestCreatePaymentIntent_TotalFromAuthoritativePrices(t *testing.T) {
	catalog := &mockCatalog{products: []domain.Product{
		{ID: 1, Title: "A", Price: 10.00},
		{ID: 2, Title: "B", Price: 5.005},
	}}
	gateway := &mockGateway{intent: domain.PaymentIntent{
		ID:           "pi_1",
		ClientSecret: "pi_1_secret_abc",
	}}
	svc, _ := newCheckoutFixture(catalog, gateway)
	defer svc.Close()

	secret, err := svc.CreatePaymentIntent(context.Background(), "sess-1", []domain.LineItem{
		{ID: 1, Quantity: 2},
		{ID: 2, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "pi_1_secret_abc" {
		t.Errorf("expected client secret passthrough, got %q", secret)
	}

	// 2*round(10.00*100) + round(5.005*100) = 2000 + 501, plus 500 shipping
	if gateway.createdCents != 3001 {
		t.Errorf("expected charge of 3001 cents, got %d", gateway.createdCents)
	}
	if gateway.currency != "usd" {
		t.Errorf("expected usd, got %s", gateway.currency)
	}

	rec := <-svc.Journal()
	if rec.IntentID != "pi_1" || rec.AmountCents != 3001 || rec.Status != domain.PaymentStatusAwaiting {
		t.Errorf("unexpected journal record: %+v", rec)
	}
	if rec.ID == "" {
		t.Error("expected journal record to carry an ID")
	}
}

func TestCreatePaymentIntent_UnknownProductContributesZero(t *testing.T) {
	catalog := &mockCatalog{products: []domain.Product{
		{ID: 1, Title: "A", Price: 10.00},
	}}
	gateway := &mockGateway{intent: domain.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret_abc"}}
	svc, _ := newCheckoutFixture(catalog, gateway)
	defer svc.Close()

	_, err := svc.CreatePaymentIntent(context.Background(), "sess-1", []domain.LineItem{
		{ID: 1, Quantity: 2},
		{ID: 99, Quantity: 5}, // deleted from the catalog since cart-add
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gateway.createdCents != 2500 {
		t.Errorf("expected 2000 + 500 shipping = 2500, got %d", gateway.createdCents)
	}
	<-svc.Journal()
}

func TestCreatePaymentIntent_CatalogFailure(t *testing.T) {
	catalog := &mockCatalog{err: errors.New("connection refused")}
	gateway := &mockGateway{}
	svc, _ := newCheckoutFixture(catalog, gateway)
	defer svc.Close()

	_, err := svc.CreatePaymentIntent(context.Background(), "sess-1", []domain.LineItem{{ID: 1, Quantity: 1}})

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if gateway.createCalls != 0 {
		t.Error("expected no gateway call after catalog failure")
	}
}

func TestCreatePaymentIntent_GatewayFailureLeavesCartUntouched(t *testing.T) {
	ctx := context.Background()
	catalog := &mockCatalog{products: []domain.Product{{ID: 1, Title: "A", Price: 10.00}}}
	gateway := &mockGateway{createErr: errors.New("gateway timeout")}
	svc, carts := newCheckoutFixture(catalog, gateway)
	defer svc.Close()

	carts.Add(ctx, "sess-1", domain.Product{ID: 1, Title: "A", Price: 10.00})

	_, err := svc.CreatePaymentIntent(ctx, "sess-1", []domain.LineItem{{ID: 1, Quantity: 1}})

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if lines := carts.Lines(ctx, "sess-1"); len(lines) != 1 {
		t.Errorf("expected cart untouched after gateway failure, got %d lines", len(lines))
	}
}

func TestPaymentStatus_SucceededClearsCart(t *testing.T) {
	ctx := context.Background()
	gateway := &mockGateway{intent: domain.PaymentIntent{
		ID:     "pi_1",
		Status: domain.PaymentStatusSucceeded,
	}}
	svc, carts := newCheckoutFixture(&mockCatalog{}, gateway)
	defer svc.Close()

	carts.Add(ctx, "sess-1", domain.Product{ID: 1, Price: 10})

	status, err := svc.PaymentStatus(ctx, "sess-1", "pi_1_secret_abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != domain.PaymentStatusSucceeded {
		t.Errorf("expected succeeded, got %s", status)
	}
	if lines := carts.Lines(ctx, "sess-1"); len(lines) != 0 {
		t.Errorf("expected cart cleared on success, got %d lines", len(lines))
	}

	rec := <-svc.Journal()
	if rec.IntentID != "pi_1" || rec.Status != domain.PaymentStatusSucceeded {
		t.Errorf("unexpected journal record: %+v", rec)
	}
}

func TestPaymentStatus_NonTerminalKeepsCart(t *testing.T) {
	for _, status := range []domain.PaymentStatus{
		domain.PaymentStatusProcessing,
		domain.PaymentStatusRequiresPaymentMethod,
		domain.PaymentStatusRequiresAction,
	} {
		ctx := context.Background()
		gateway := &mockGateway{intent: domain.PaymentIntent{ID: "pi_1", Status: status}}
		svc, carts := newCheckoutFixture(&mockCatalog{}, gateway)

		carts.Add(ctx, "sess-1", domain.Product{ID: 1, Price: 10})

		got, err := svc.PaymentStatus(ctx, "sess-1", "pi_1_secret_abc")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", status, err)
		}
		if got != status {
			t.Errorf("expected %s, got %s", status, got)
		}
		if lines := carts.Lines(ctx, "sess-1"); len(lines) != 1 {
			t.Errorf("%s: expected cart kept, got %d lines", status, len(lines))
		}

		svc.Close()
	}
}

func TestPaymentStatus_GatewayFailure(t *testing.T) {
	ctx := context.Background()
	gateway := &mockGateway{retrieveErr: errors.New("gateway down")}
	svc, carts := newCheckoutFixture(&mockCatalog{}, gateway)
	defer svc.Close()

	carts.Add(ctx, "sess-1", domain.Product{ID: 1, Price: 10})

	_, err := svc.PaymentStatus(ctx, "sess-1", "pi_1_secret_abc")

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if lines := carts.Lines(ctx, "sess-1"); len(lines) != 1 {
		t.Errorf("expected cart untouched, got %d lines", len(lines))
	}
}
