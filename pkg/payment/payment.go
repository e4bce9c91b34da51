package payment

import (
	"context"
	"math"
)

// OrderRequest asks the gateway for a merchant order.
type OrderRequest struct {
	AmountMinor int64 // paise for INR
	Currency    string
	Receipt     string
	Notes       map[string]interface{}
}

// Order is the gateway's answer. Raw holds the payload as received and is
// stored on the payment row.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Status   string
	Raw      map[string]interface{}
}

type Provider interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
}

// ProviderFactory builds a provider bound to one merchant's credentials.
// Every owner brings their own keys, so providers are built per request.
type ProviderFactory func(keyID, keySecret string) Provider

// ToMinor converts a major currency amount to minor units, rounding to the
// nearest unit.
func ToMinor(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
