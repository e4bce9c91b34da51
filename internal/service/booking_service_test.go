package service

import (
	"context"
	"testing"

	"ecr/internal/apperr"
	"ecr/internal/domain"
	"ecr/internal/events"
	"ecr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, domain.RoleOwner)
	broker := f.user(t, domain.RoleBroker)
	customer := f.user(t, domain.RoleCustomer)
	p := f.property(t, owner, broker, 500)

	b := f.booking(t, customer, p, 5000)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, customer.ID, b.CustomerID)
	require.NotNil(t, b.BrokerID)
	assert.Equal(t, broker.ID, *b.BrokerID)
	assert.Equal(t, []string{events.TypeBookingCreated}, f.sink.Types())

	inbox, err := f.notifications.List(ctx, owner.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotifyNewBooking, inbox[0].Type)
}

func TestCreateBookingRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, domain.RoleOwner)
	customer := f.user(t, domain.RoleCustomer)
	p := f.property(t, owner, nil, 0)

	_, err := f.bookings.Create(ctx, customer.ID, BookingInput{Amount: 10, Date: "2025-01-01"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = f.bookings.Create(ctx, customer.ID, BookingInput{PropertyID: p.ID, Date: "2025-01-01"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = f.bookings.Create(ctx, customer.ID, BookingInput{PropertyID: p.ID, Amount: 10, Date: "01/01/2025"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = f.bookings.Create(ctx, customer.ID, BookingInput{PropertyID: p.ID, Amount: 10, Date: "2025-01-05", EndDate: "2025-01-01"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = f.bookings.Create(ctx, customer.ID, BookingInput{PropertyID: 999, Amount: 10, Date: "2025-01-01"})
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	_, err = f.properties.Update(ctx, actor(owner), p.ID, PropertyInput{Available: boolp(false)})
	require.NoError(t, err)
	_, err = f.bookings.Create(ctx, customer.ID, BookingInput{PropertyID: p.ID, Amount: 10, Date: "2025-01-01"})
	assert.ErrorIs(t, err, ErrPropertyUnavailable)
}

func TestBookingListsAreScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerA := f.user(t, domain.RoleOwner)
	ownerB := f.user(t, domain.RoleOwner)
	ownerC := f.user(t, domain.RoleOwner)
	c1 := f.user(t, domain.RoleCustomer)
	c2 := f.user(t, domain.RoleCustomer)
	pA := f.property(t, ownerA, nil, 0)
	pB := f.property(t, ownerB, nil, 0)

	b1 := f.booking(t, c1, pA, 100)
	f.booking(t, c2, pB, 200)

	list, err := f.bookings.ListForOwner(ctx, ownerA.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b1.ID, list[0].ID)

	list, err = f.bookings.ListForOwner(ctx, ownerC.ID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	list, err = f.bookings.ListForCustomer(ctx, c1.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c1.ID, list[0].CustomerID)

	all, total, err := f.bookings.ListAll(ctx, "pending", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}

func TestBookingTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, domain.RoleOwner)
	other := f.user(t, domain.RoleOwner)
	admin := f.user(t, domain.RoleAdmin)
	customer := f.user(t, domain.RoleCustomer)
	p := f.property(t, owner, nil, 0)
	b := f.booking(t, customer, p, 100)

	_, err := f.bookings.SetStatus(ctx, actor(other), b.ID, "confirmed")
	assert.ErrorIs(t, err, ErrNotPropertyOwner)

	_, err = f.bookings.SetStatus(ctx, actor(owner), b.ID, "archived")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	got, err := f.bookings.SetStatus(ctx, actor(owner), b.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)

	_, err = f.bookings.SetStatus(ctx, actor(owner), b.ID, "pending")
	assert.Equal(t, apperr.KindDomain, apperr.KindOf(err))

	got, err = f.bookings.SetStatus(ctx, actor(admin), b.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)

	_, err = f.bookings.SetStatus(ctx, actor(admin), b.ID, "confirmed")
	assert.Equal(t, apperr.KindDomain, apperr.KindOf(err))

	var stored models.Booking
	require.NoError(t, f.db.First(&stored, b.ID).Error)
	assert.Equal(t, domain.BookingCancelled, stored.Status)
}

func TestCustomerCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, domain.RoleOwner)
	customer := f.user(t, domain.RoleCustomer)
	stranger := f.user(t, domain.RoleCustomer)
	p := f.property(t, owner, nil, 0)
	b := f.booking(t, customer, p, 100)

	_, err := f.bookings.Cancel(ctx, stranger.ID, b.ID)
	assert.ErrorIs(t, err, ErrNotBookingCustomer)
	_, err = f.bookings.Cancel(ctx, customer.ID, 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	got, err := f.bookings.Cancel(ctx, customer.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)
	assert.Contains(t, f.sink.Types(), events.TypeBookingCancelled)

	_, err = f.bookings.Cancel(ctx, customer.ID, b.ID)
	assert.Equal(t, apperr.KindDomain, apperr.KindOf(err))
}
