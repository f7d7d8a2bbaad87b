package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/clayshop/storefront/internal/core/domain"
)

var ErrMalformedClientSecret = errors.New("malformed client secret")

// StripeGateway speaks the payment processor's form-encoded REST API.
type StripeGateway struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewStripeGateway(baseURL, secretKey string) *StripeGateway {
	return &StripeGateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

type intentPayload struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type errorPayload struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent opens a payment session for the amount in minor units, with
// automatic payment methods enabled so the hosted form picks what to offer.
func (g *StripeGateway) CreateIntent(ctx context.Context, amountCents int64, currency string) (domain.PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return domain.PaymentIntent{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return g.do(req)
}

// RetrieveIntent fetches the session the client secret belongs to. The
// intent ID is the secret's prefix, and the secret itself authorizes the
// read.
func (g *StripeGateway) RetrieveIntent(ctx context.Context, clientSecret string) (domain.PaymentIntent, error) {
	id, err := intentID(clientSecret)
	if err != nil {
		return domain.PaymentIntent{}, err
	}

	u := fmt.Sprintf("%s/v1/payment_intents/%s?client_secret=%s",
		g.baseURL, url.PathEscape(id), url.QueryEscape(clientSecret))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.PaymentIntent{}, err
	}

	return g.do(req)
}

func (g *StripeGateway) do(req *http.Request) (domain.PaymentIntent, error) {
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.http.Do(req)
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var ep errorPayload
		if json.Unmarshal(body, &ep) == nil && ep.Error.Message != "" {
			return domain.PaymentIntent{}, fmt.Errorf("gateway %s: %s", ep.Error.Type, ep.Error.Message)
		}
		return domain.PaymentIntent{}, fmt.Errorf("gateway status %d", resp.StatusCode)
	}

	var p intentPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("decode gateway response: %w", err)
	}

	return domain.PaymentIntent{
		ID:           p.ID,
		ClientSecret: p.ClientSecret,
		Status:       domain.PaymentStatus(p.Status),
		AmountCents:  p.Amount,
		Currency:     p.Currency,
	}, nil
}

// Client secrets look like pi_123_secret_456; everything before "_secret"
// is the intent ID.
func intentID(clientSecret string) (string, error) {
	i := strings.Index(clientSecret, "_secret")
	if i <= 0 {
		return "", ErrMalformedClientSecret
	}
	return clientSecret[:i], nil
}
