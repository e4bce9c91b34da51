package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecr/config"
	"ecr/internal/apperr"
	"ecr/internal/domain"
	"ecr/internal/events"
	"ecr/internal/models"
	"ecr/internal/repository"
	"ecr/pkg/logger"
	"ecr/pkg/payment"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPaymentFieldsRequired = apperr.Validation("bookingId and amount are required")
	ErrSettleFieldsRequired  = apperr.Validation("razorpayOrderId and status are required")
	ErrPaymentNotFound       = apperr.NotFound("Payment not found")
	ErrBookingNotPending     = apperr.Domain("Booking is not awaiting payment")
	ErrPaymentAmountMismatch = apperr.Validation("Payment amount does not match booking amount")
)

type InitiateResult struct {
	Order   map[string]interface{} `json:"order"`
	Payment *models.Payment        `json:"payment"`
}

// SettleInput is the gateway's report on an order.
type SettleInput struct {
	OrderID           string
	Status            string
	ExternalPaymentID string
	Error             string
}

type SettleResult struct {
	Payment    *models.Payment
	Booking    *models.Booking
	Commission *models.Commission
	// Settled is false when the payment was already terminal and nothing changed.
	Settled bool
}

type PaymentDeps struct {
	DB          *gorm.DB
	Payment     config.PaymentConfig
	Commission  config.CommissionConfig
	Bookings    *repository.BookingRepository
	Properties  *repository.PropertyRepository
	Payments    *repository.PaymentRepository
	Commissions *repository.CommissionRepository
	Gateways    *repository.GatewayRepository
	GatewaySvc  *GatewayService
	Providers   payment.ProviderFactory
	Notifier    *NotificationService
	Audit       *AuditService
	Sink        events.Sink
}

type PaymentService struct {
	PaymentDeps
	now func() time.Time
}

func NewPaymentService(deps PaymentDeps) *PaymentService {
	return &PaymentService{PaymentDeps: deps, now: time.Now}
}

// Initiate creates a merchant order on the property owner's gateway and
// records a pending payment for it.
func (s *PaymentService) Initiate(ctx context.Context, customerID, bookingID uint, amount float64) (*InitiateResult, error) {
	if bookingID == 0 || amount <= 0 {
		return nil, ErrPaymentFieldsRequired
	}
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrNotBookingCustomer
	}
	if b.Status != domain.BookingPending {
		return nil, ErrBookingNotPending
	}
	// compared in minor units; the order is always cut for the booking amount
	if payment.ToMinor(amount) != payment.ToMinor(b.Amount) {
		return nil, ErrPaymentAmountMismatch
	}
	p, err := s.Properties.GetByIDUnscoped(ctx, b.PropertyID)
	if err != nil {
		return nil, notFound(err, "Property not found")
	}
	gw, err := s.GatewaySvc.ResolveForOwner(ctx, p.OwnerID)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.Payment.GatewayTimeout)
	defer cancel()
	order, err := s.Providers(gw.KeyID, gw.KeySecret).CreateOrder(callCtx, payment.OrderRequest{
		AmountMinor: payment.ToMinor(b.Amount),
		Currency:    s.Payment.Currency,
		Receipt:     receipt(b.ID),
		Notes:       map[string]interface{}{"bookingId": b.ID, "propertyId": b.PropertyID},
	})
	if err != nil {
		logger.Error(ctx).Err(err).Uint("booking_id", b.ID).Msg("gateway order creation failed")
		return nil, apperr.Upstream("Failed to create payment order", err)
	}

	raw, err := json.Marshal(order.Raw)
	if err != nil {
		return nil, err
	}
	gatewayID := gw.ID
	pay := &models.Payment{
		BookingID:   b.ID,
		CustomerID:  customerID,
		GatewayID:   &gatewayID,
		Amount:      b.Amount,
		Currency:    s.Payment.Currency,
		Status:      domain.PaymentPending,
		GatewayType: gw.Provider,
		OrderID:     order.ID,
		RawResponse: datatypes.JSON(raw),
	}
	if err := s.Payments.Create(ctx, pay); err != nil {
		return nil, err
	}
	logger.Info(ctx).Uint("payment_id", pay.ID).Str("order_id", order.ID).Msg("payment initiated")
	return &InitiateResult{Order: order.Raw, Payment: pay}, nil
}

// receipt fits the gateway's 40 character limit.
func receipt(bookingID uint) string {
	return fmt.Sprintf("booking_%d_%s", bookingID, strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// Settle applies the gateway's verdict for an order. Payment, booking and
// commission change in one transaction with the payment row locked, and a
// payment that is already success or failed is returned untouched, so
// repeated callbacks are harmless.
func (s *PaymentService) Settle(ctx context.Context, in SettleInput) (*SettleResult, error) {
	if strings.TrimSpace(in.OrderID) == "" || strings.TrimSpace(in.Status) == "" {
		return nil, ErrSettleFieldsRequired
	}
	res := &SettleResult{}
	var bookingConfirmed, commissionCreated bool

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := s.Payments.WithTx(tx)
		bookings := s.Bookings.WithTx(tx)
		commissions := s.Commissions.WithTx(tx)

		pay, err := payments.GetByOrderIDForUpdate(ctx, in.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		res.Payment = pay

		if pay.Status.Terminal() {
			b, err := bookings.GetByID(ctx, pay.BookingID)
			if err != nil {
				return notFound(err, "Booking not found")
			}
			res.Booking = b
			c, err := commissions.GetByBookingID(ctx, pay.BookingID)
			if err == nil {
				res.Commission = c
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return nil
		}

		now := s.now()
		pay.Status = domain.PaymentStatusFromGateway(in.Status)
		pay.ExternalPaymentID = in.ExternalPaymentID
		pay.SettledAt = &now
		if pay.Status == domain.PaymentFailed {
			pay.ErrorMessage = in.Error
			if pay.ErrorMessage == "" {
				pay.ErrorMessage = "gateway reported status " + in.Status
			}
		}
		if err := payments.Update(ctx, pay); err != nil {
			return err
		}
		res.Settled = true

		b, err := bookings.GetForUpdate(ctx, pay.BookingID)
		if err != nil {
			return notFound(err, "Booking not found")
		}
		res.Booking = b
		if pay.Status != domain.PaymentSuccess {
			return nil
		}

		if b.Status == domain.BookingPending {
			if err := bookings.UpdateStatus(ctx, b, domain.BookingConfirmed); err != nil {
				return err
			}
			bookingConfirmed = true
		}

		p, err := s.Properties.WithTx(tx).GetByIDUnscoped(ctx, b.PropertyID)
		if err != nil {
			return notFound(err, "Property not found")
		}
		if !p.HasBroker() {
			return nil
		}
		c := &models.Commission{
			BookingID:  b.ID,
			PropertyID: p.ID,
			PaymentID:  pay.ID,
			BrokerID:   *p.BrokerID,
			OwnerID:    p.OwnerID,
			Amount:     p.Commission,
			Status:     domain.CommissionPending,
			DueDate:    now.Add(s.Commission.DueAfter),
		}
		if pay.Amount > 0 {
			c.Rate = round2(p.Commission / pay.Amount * 100)
		}
		if bg, err := s.Gateways.WithTx(tx).GetByPrincipal(ctx, c.BrokerID, domain.RoleBroker); err == nil {
			id := bg.ID
			c.PaymentGatewayID = &id
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		created, err := commissions.CreateIfAbsent(ctx, c)
		if err != nil {
			return err
		}
		commissionCreated = created
		res.Commission = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Settled {
		s.afterSettle(ctx, res, bookingConfirmed, commissionCreated)
	}
	return res, nil
}

func (s *PaymentService) afterSettle(ctx context.Context, res *SettleResult, bookingConfirmed, commissionCreated bool) {
	pay, b := res.Payment, res.Booking
	logger.Info(ctx).
		Uint("payment_id", pay.ID).
		Str("order_id", pay.OrderID).
		Str("status", string(pay.Status)).
		Bool("commission_created", commissionCreated).
		Msg("payment settled")

	publish(ctx, s.Sink, events.New(events.TypePaymentSettled, b.PropertyID, map[string]interface{}{
		"bookingId": b.ID,
		"paymentId": pay.ID,
		"status":    pay.Status,
	}))
	if bookingConfirmed {
		publish(ctx, s.Sink, bookingEvent(events.TypeBookingConfirmed, b))
		s.Notifier.NotifyBookingStatus(ctx, b.CustomerID, b)
	}
	s.Notifier.NotifyPaymentSettled(ctx, pay)
	if commissionCreated {
		s.Notifier.NotifyCommissionDue(ctx, res.Commission)
	}
	s.Audit.Record(ctx, AuditEntry{
		UserID:     pay.CustomerID,
		Action:     "payment.settle",
		Resource:   "payment",
		ResourceID: pay.ID,
		Metadata: map[string]interface{}{
			"orderId":           pay.OrderID,
			"status":            pay.Status,
			"commissionCreated": commissionCreated,
		},
	})
}

// ListForBooking is restricted to the booking's customer.
func (s *PaymentService) ListForBooking(ctx context.Context, customerID, bookingID uint) ([]models.Payment, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrNotBookingCustomer
	}
	return s.Payments.ListByBooking(ctx, bookingID)
}

func (s *PaymentService) ListAll(ctx context.Context, page, limit int) ([]models.Payment, int64, error) {
	return s.Payments.ListAll(ctx, page, limit)
}
