package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisherKeysByProperty(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "ecr-booking-events" {
			return errors.New("wrong topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "property_7" {
			return errors.New("wrong key " + string(key))
		}
		raw, _ := msg.Value.Encode()
		var e Event
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		if e.Type != TypeBookingCreated || e.PropertyID != 7 {
			return errors.New("unexpected payload")
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "ecr-booking-events")
	err := pub.Publish(context.Background(), New(TypeBookingCreated, 7, map[string]interface{}{"bookingId": 1}))
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisherSendFailure(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "ecr-booking-events")
	err := pub.Publish(context.Background(), New(TypePropertyUpdated, 1, nil))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

type failingSink struct{ err error }

type recordingSink struct{ types []string }

func (r *recordingSink) Publish(_ context.Context, e Event) error {
	r.types = append(r.types, e.Type)
	return nil
}

func (f failingSink) Publish(context.Context, Event) error { return f.err }

func TestMultiPublishesToAllSinks(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	boom := errors.New("boom")
	m := Multi{a, failingSink{boom}, nil, b}

	err := m.Publish(context.Background(), New(TypeBookingCancelled, 3, nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{TypeBookingCancelled}, a.types)
	assert.Equal(t, []string{TypeBookingCancelled}, b.types)
}

func TestNewFillsMetadata(t *testing.T) {
	e := New(TypePaymentSettled, 9, nil)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, uint(9), e.PropertyID)
}
