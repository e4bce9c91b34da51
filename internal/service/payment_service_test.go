package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecr/internal/apperr"
	"ecr/internal/domain"
	"ecr/internal/events"
	"ecr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleWithBrokerCreatesCommission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, domain.RoleOwner)
	broker := f.user(t, domain.RoleBroker)
	customer := f.user(t, domain.RoleCustomer)
	f.gateway(t, owner)
	brokerGW := f.gateway(t, broker)
	p := f.property(t, owner, broker, 500)
	b := f.booking(t, customer, p, 5000)

	init, err := f.payments.Initiate(ctx, customer.ID, b.ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, init.Payment.Status)
	assert.NotEmpty(t, init.Payment.OrderID)
	assert.Equal(t, init.Payment.OrderID, init.Order["id"])
	assert.EqualValues(t, 500000, init.Order["amount"])

	res, err := f.payments.Settle(ctx, SettleInput{OrderID: init.Payment.OrderID, Status: "captured", ExternalPaymentID: "pay_1"})
	require.NoError(t, err)
	assert.True(t, res.Settled)
	assert.Equal(t, domain.PaymentSuccess, res.Payment.Status)
	assert.Equal(t, "pay_1", res.Payment.ExternalPaymentID)
	assert.Equal(t, domain.BookingConfirmed, res.Booking.Status)
	require.NotNil(t, res.Commission)
	assert.Equal(t, 500.0, res.Commission.Amount)
	assert.Equal(t, 10.0, res.Commission.Rate)
	assert.Equal(t, broker.ID, res.Commission.BrokerID)
	assert.Equal(t, owner.ID, res.Commission.OwnerID)
	assert.Equal(t, domain.CommissionPending, res.Commission.Status)
	require.NotNil(t, res.Commission.PaymentGatewayID)
	assert.Equal(t, brokerGW.ID, *res.Commission.PaymentGatewayID)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), res.Commission.DueDate, time.Minute)

	var stored models.Booking
	require.NoError(t, f.db.First(&stored, b.ID).Error)
	assert.Equal(t, domain.BookingConfirmed, stored.Status)

	assert.Contains(t, f.sink.Types(), events.TypePaymentSettled)
	assert.Contains(t, f.sink.Types(), events.TypeBookingConfirmed)

	inbox, err := f.notifications.List(ctx, broker.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotifyCommissionDue, inbox[0].Type)

	var audits int64
	require.NoError(t, f.db.Model(&models.AuditLog{}).Where("action = ?", "payment.settle").Count(&audits).Error)
	assert.Equal(t, int64(1), audits)
}

func TestSettleIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, domain.RoleOwner)
	broker := f.user(t, domain.RoleBroker)
	customer := f.user(t, domain.RoleCustomer)
	f.gateway(t, owner)
	p := f.property(t, owner, broker, 250)
	b := f.booking(t, customer, p, 1000)

	init, err := f.payments.Initiate(ctx, customer.ID, b.ID, 1000)
	require.NoError(t, err)
	first, err := f.payments.Settle(ctx, SettleInput{OrderID: init.Payment.OrderID, Status: "captured"})
	require.NoError(t, err)
	published := len(f.sink.Events)

	second, err := f.payments.Settle(ctx, SettleInput{OrderID: init.Payment.OrderID, Status: "failed"})
	require.NoError(t, err)
	assert.False(t, second.Settled)
	assert.Equal(t, domain.PaymentSuccess, second.Payment.Status)
	require.NotNil(t, second.Commission)
	assert.Equal(t, first.Commission.ID, second.Commission.ID)
	assert.Len(t, f.sink.Events, published)

	var count int64
	require.NoError(t, f.db.Model(&models.Commission{}).Where("booking_id = ?", b.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettleWithoutBroker(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, domain.RoleOwner)
	customer := f.user(t, domain.RoleCustomer)
	f.gateway(t, owner)
	p := f.property(t, owner, nil, 0)
	b := f.booking(t, customer, p, 1000)

	init, err := f.payments.Initiate(ctx, customer.ID, b.ID, 1000)
	require.NoError(t, err)
	res, err := f.payments.Settle(ctx, SettleInput{OrderID: init.Payment.OrderID, Status: "captured"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSuccess, res.Payment.Status)
	assert.Nil(t, res.Commission)

	var count int64
	require.NoError(t, f.db.Model(&models.Commission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSettleFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, domain.RoleOwner)
	broker := f.user(t, domain.RoleBroker)
	customer := f.user(t, domain.RoleCustomer)
	f.gateway(t, owner)
	p := f.property(t, owner, broker, 100)
	b := f.booking(t, customer, p, 1000)

	init, err := f.payments.Initiate(ctx, customer.ID, b.ID, 1000)
	require.NoError(t, err)
	res, err := f.payments.Settle(ctx, SettleInput{OrderID: init.Payment.OrderID, Status: "failed", Error: "card declined"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, res.Payment.Status)
	assert.Equal(t, "card declined", res.Payment.ErrorMessage)
	assert.Equal(t, domain.BookingPending, res.Booking.Status)
	assert.Nil(t, res.Commission)

	inbox, err := f.notifications.List(ctx, customer.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotifyPaymentFailed, inbox[0].Type)

	// the booking is still pending, so the customer can try again
	_, err = f.payments.Initiate(ctx, customer.ID, b.ID, 1000)
	require.NoError(t, err)
}

func TestSettleRejects(t *testing.T) {
	f := newFixture(t)
	_, err := f.payments.Settle(context.Background(), SettleInput{Status: "captured"})
	assert.ErrorIs(t, err, ErrSettleFieldsRequired)

	_, err = f.payments.Settle(context.Background(), SettleInput{OrderID: "order_missing", Status: "captured"})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestInitiateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, domain.RoleOwner)
	customer := f.user(t, domain.RoleCustomer)
	stranger := f.user(t, domain.RoleCustomer)
	p := f.property(t, owner, nil, 0)
	b := f.booking(t, customer, p, 1000)

	_, err := f.payments.Initiate(ctx, customer.ID, b.ID, 0)
	assert.ErrorIs(t, err, ErrPaymentFieldsRequired)
	_, err = f.payments.Initiate(ctx, customer.ID, 999, 10)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	_, err = f.payments.Initiate(ctx, stranger.ID, b.ID, 1000)
	assert.ErrorIs(t, err, ErrNotBookingCustomer)
	_, err = f.payments.Initiate(ctx, customer.ID, b.ID, 1)
	assert.ErrorIs(t, err, ErrPaymentAmountMismatch)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.payments.Initiate(ctx, customer.ID, b.ID, 1000)
	assert.ErrorIs(t, err, ErrOwnerGatewayMissing)
	assert.Equal(t, "Owner has not set up a payment gateway", apperr.PublicMessage(err))
	assert.Zero(t, f.provider.Calls())

	f.gateway(t, owner)
	f.provider.Err = errors.New("gateway down")
	_, err = f.payments.Initiate(ctx, customer.ID, b.ID, 1000)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))

	var count int64
	require.NoError(t, f.db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)

	f.provider.Err = nil
	_, err = f.bookings.Cancel(ctx, customer.ID, b.ID)
	require.NoError(t, err)
	_, err = f.payments.Initiate(ctx, customer.ID, b.ID, 1000)
	assert.ErrorIs(t, err, ErrBookingNotPending)
}

func TestInitiateChargesBookingAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, domain.RoleOwner)
	customer := f.user(t, domain.RoleCustomer)
	f.gateway(t, owner)
	p := f.property(t, owner, nil, 0)
	b := f.booking(t, customer, p, 5000)

	_, err := f.payments.Initiate(ctx, customer.ID, b.ID, 4999.99)
	assert.ErrorIs(t, err, ErrPaymentAmountMismatch)
	assert.Zero(t, f.provider.Calls())

	got, err := f.bookings.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, got.Status)

	init, err := f.payments.Initiate(ctx, customer.ID, b.ID, 5000.001)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, init.Payment.Amount)
	assert.EqualValues(t, 500000, init.Order["amount"])
}

func TestListPaymentsForBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, domain.RoleOwner)
	customer := f.user(t, domain.RoleCustomer)
	stranger := f.user(t, domain.RoleCustomer)
	f.gateway(t, owner)
	p := f.property(t, owner, nil, 0)
	b := f.booking(t, customer, p, 1000)
	_, err := f.payments.Initiate(ctx, customer.ID, b.ID, 1000)
	require.NoError(t, err)

	list, err := f.payments.ListForBooking(ctx, customer.ID, b.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.payments.ListForBooking(ctx, stranger.ID, b.ID)
	assert.ErrorIs(t, err, ErrNotBookingCustomer)
	_, err = f.payments.ListForBooking(ctx, customer.ID, 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	all, total, err := f.payments.ListAll(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, all, 1)
}
