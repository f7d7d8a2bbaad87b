package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clayshop/storefront/internal/core/domain"
)

func TestCreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
			t.Errorf("expected secret key auth, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Errorf("expected form encoding, got %q", got)
		}

		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("amount"); got != "3001" {
			t.Errorf("expected amount 3001, got %q", got)
		}
		if got := r.PostForm.Get("currency"); got != "usd" {
			t.Errorf("expected currency usd, got %q", got)
		}
		if got := r.PostForm.Get("automatic_payment_methods[enabled]"); got != "true" {
			t.Errorf("expected automatic payment methods enabled, got %q", got)
		}

		w.Write([]byte(`{
			"id": "pi_123",
			"client_secret": "pi_123_secret_456",
			"status": "requires_payment_method",
			"amount": 3001,
			"currency": "usd"
		}`))
	}))
	defer srv.Close()

	gw := NewStripeGateway(srv.URL, "sk_test_123")
	intent, err := gw.CreateIntent(context.Background(), 3001, "usd")
	if err != nil {
		t.Fatalf("CreateIntent failed: %v", err)
	}

	if intent.ID != "pi_123" || intent.ClientSecret != "pi_123_secret_456" {
		t.Errorf("unexpected intent: %+v", intent)
	}
	if intent.Status != domain.PaymentStatusRequiresPaymentMethod {
		t.Errorf("unexpected status %s", intent.Status)
	}
	if intent.AmountCents != 3001 {
		t.Errorf("expected amount 3001, got %d", intent.AmountCents)
	}
}

func TestCreateIntent_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"type": "card_error", "message": "Your card was declined."}}`))
	}))
	defer srv.Close()

	gw := NewStripeGateway(srv.URL, "sk_test_123")
	_, err := gw.CreateIntent(context.Background(), 1000, "usd")
	if err == nil {
		t.Fatal("expected error")
	}
	// The upstream detail is preserved for logging
	if got := err.Error(); got != "gateway card_error: Your card was declined." {
		t.Errorf("unexpected error message: %q", got)
	}
}

func TestRetrieveIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents/pi_123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("client_secret"); got != "pi_123_secret_456" {
			t.Errorf("expected client secret in query, got %q", got)
		}
		w.Write([]byte(`{"id": "pi_123", "client_secret": "pi_123_secret_456", "status": "succeeded"}`))
	}))
	defer srv.Close()

	gw := NewStripeGateway(srv.URL, "sk_test_123")
	intent, err := gw.RetrieveIntent(context.Background(), "pi_123_secret_456")
	if err != nil {
		t.Fatalf("RetrieveIntent failed: %v", err)
	}
	if intent.Status != domain.PaymentStatusSucceeded {
		t.Errorf("expected succeeded, got %s", intent.Status)
	}
}

func TestRetrieveIntent_MalformedSecret(t *testing.T) {
	gw := NewStripeGateway("http://localhost", "sk_test_123")

	for _, secret := range []string{"", "garbage", "_secret_456"} {
		_, err := gw.RetrieveIntent(context.Background(), secret)
		if !errors.Is(err, ErrMalformedClientSecret) {
			t.Errorf("secret %q: expected ErrMalformedClientSecret, got %v", secret, err)
		}
	}
}

func TestIntentID(t *testing.T) {
	id, err := intentID("pi_3ABC_secret_XYZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "pi_3ABC" {
		t.Errorf("expected pi_3ABC, got %s", id)
	}
}
