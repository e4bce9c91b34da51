package service

import (
	"context"
	"testing"

	"ecr/internal/domain"
	"ecr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settledCommission(t *testing.T, f *fixture) (owner, broker *models.User, c *models.Commission) {
	t.Helper()
	ctx := context.Background()
	owner = f.user(t, domain.RoleOwner)
	broker = f.user(t, domain.RoleBroker)
	customer := f.user(t, domain.RoleCustomer)
	f.gateway(t, owner)
	p := f.property(t, owner, broker, 500)
	b := f.booking(t, customer, p, 5000)
	init, err := f.payments.Initiate(ctx, customer.ID, b.ID, 5000)
	require.NoError(t, err)
	res, err := f.payments.Settle(ctx, SettleInput{OrderID: init.Payment.OrderID, Status: "captured"})
	require.NoError(t, err)
	require.NotNil(t, res.Commission)
	return owner, broker, res.Commission
}

func TestMarkCommissionPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, broker, c := settledCommission(t, f)
	other := f.user(t, domain.RoleOwner)

	_, err := f.commissions.MarkPaid(ctx, other.ID, c.ID, MarkPaidInput{})
	assert.ErrorIs(t, err, ErrNotCommissionOwner)
	_, err = f.commissions.MarkPaid(ctx, owner.ID, 999, MarkPaidInput{})
	assert.ErrorIs(t, err, ErrCommissionNotFound)

	paid, err := f.commissions.MarkPaid(ctx, owner.ID, c.ID, MarkPaidInput{PaymentDetails: "UPI ref 123", Notes: "Jan"})
	require.NoError(t, err)
	assert.Equal(t, domain.CommissionPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, "UPI ref 123", paid.PaymentDetails)

	_, err = f.commissions.MarkPaid(ctx, owner.ID, c.ID, MarkPaidInput{})
	assert.ErrorIs(t, err, ErrCommissionPaid)

	var stored models.Commission
	require.NoError(t, f.db.First(&stored, c.ID).Error)
	assert.Equal(t, domain.CommissionPaid, stored.Status)
	assert.Equal(t, "UPI ref 123", stored.PaymentDetails)

	inbox, err := f.notifications.List(ctx, broker.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, domain.NotifyCommissionPaid, inbox[0].Type)
}

func TestCommissionListsAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, broker, c := settledCommission(t, f)

	list, err := f.commissions.ListForOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Broker)
	assert.Equal(t, broker.ID, list[0].Broker.ID)
	assert.Equal(t, broker.Email, list[0].Broker.Email)
	assert.Equal(t, broker.Name, list[0].Broker.Name)

	mine, err := f.commissions.ListForBroker(ctx, broker.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := f.commissions.ListForOwner(ctx, broker.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, total, err := f.commissions.ListAll(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, all, 1)

	require.NoError(t, f.commissions.Delete(ctx, c.ID))
	assert.ErrorIs(t, f.commissions.Delete(ctx, c.ID), ErrCommissionNotFound)
	var count int64
	require.NoError(t, f.db.Unscoped().Model(&models.Commission{}).Count(&count).Error)
	assert.Zero(t, count)
}
