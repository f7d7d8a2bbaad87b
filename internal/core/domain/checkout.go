package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusAwaiting              PaymentStatus = "awaiting_payment"
	PaymentStatusSucceeded             PaymentStatus = "succeeded"
	PaymentStatusProcessing            PaymentStatus = "processing"
	PaymentStatusRequiresPaymentMethod PaymentStatus = "requires_payment_method"
	PaymentStatusRequiresAction        PaymentStatus = "requires_action"
)

// LineItem is what the client submits at checkout: product identity plus
// quantity, never a price.
type LineItem struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// OrderTotal is the charge derivation for one checkout attempt, in minor
// currency units. It is never persisted; prices are re-fetched every time.
type OrderTotal struct {
	SubtotalCents int64
	ShippingCents int64
	TotalCents    int64
}

// PaymentIntent is the gateway's view of a payment session. ClientSecret is
// the opaque handle handed to the browser.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       PaymentStatus
	AmountCents  int64
	Currency     string
}

// CheckoutRecord journals an opened payment session for reconciliation.
type CheckoutRecord struct {
	ID          string
	SessionID   string
	IntentID    string
	AmountCents int64
	Currency    string
	Status      PaymentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
