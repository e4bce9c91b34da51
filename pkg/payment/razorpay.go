package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

type RazorpayProvider struct {
	client *razorpay.Client
}

func NewRazorpayProvider(keyID, keySecret string) *RazorpayProvider {
	return &RazorpayProvider{client: razorpay.NewClient(keyID, keySecret)}
}

// RazorpayFactory is the production ProviderFactory.
func RazorpayFactory(keyID, keySecret string) Provider {
	return NewRazorpayProvider(keyID, keySecret)
}

type orderResult struct {
	body map[string]interface{}
	err  error
}

// CreateOrder calls the Orders API. The SDK does not take a context, so the
// call runs in a goroutine and ctx bounds how long we wait for it.
func (p *RazorpayProvider) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	data := map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		data["notes"] = req.Notes
	}

	done := make(chan orderResult, 1)
	go func() {
		body, err := p.client.Order.Create(data, nil)
		done <- orderResult{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("razorpay create order: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("razorpay create order: %w", res.err)
		}
		return orderFromBody(res.body)
	}
}

func orderFromBody(body map[string]interface{}) (*Order, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay create order: response has no order id")
	}
	o := &Order{ID: id, Raw: body}
	o.Currency, _ = body["currency"].(string)
	o.Status, _ = body["status"].(string)
	switch v := body["amount"].(type) {
	case float64:
		o.Amount = int64(v)
	case int64:
		o.Amount = v
	case int:
		o.Amount = int64(v)
	}
	return o, nil
}
