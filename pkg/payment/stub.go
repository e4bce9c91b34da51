package payment

import (
	"context"
	"fmt"
	"sync/atomic"
)

// StubProvider creates orders locally. Used in development and tests.
// Setting Err makes every call fail with it.
type StubProvider struct {
	Err   error
	calls atomic.Int64
}

func (s *StubProvider) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	n := s.calls.Add(1)
	id := fmt.Sprintf("order_stub_%d", n)
	return &Order{
		ID:       id,
		Amount:   req.AmountMinor,
		Currency: req.Currency,
		Status:   "created",
		Raw: map[string]interface{}{
			"id":       id,
			"entity":   "order",
			"amount":   req.AmountMinor,
			"currency": req.Currency,
			"receipt":  req.Receipt,
			"status":   "created",
		},
	}, nil
}

// Calls returns how many orders were requested.
func (s *StubProvider) Calls() int64 { return s.calls.Load() }

// Factory returns a ProviderFactory that hands out s regardless of keys.
func (s *StubProvider) Factory() ProviderFactory {
	return func(string, string) Provider { return s }
}
