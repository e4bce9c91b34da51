// Package events carries booking-domain events to realtime subscribers and
// the durable event log.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	TypePropertyUpdated  = "property.updated"
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
	TypeBookingConfirmed = "booking.confirmed"
	TypePaymentSettled   = "payment.settled"
	TypeCommissionPaid   = "commission.paid"
)

// Event is addressed to the topic of one property.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	PropertyID uint                   `json:"propertyId"`
	Timestamp  time.Time              `json:"timestamp"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

func New(eventType string, propertyID uint, data map[string]interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		PropertyID: propertyID,
		Timestamp:  time.Now().UTC(),
		Data:       data,
	}
}

type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
