package domain

import (
	"fmt"
	"strings"
)

// Role is the fixed role a principal acts in for the lifetime of a token.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOwner    Role = "owner"
	RoleCustomer Role = "customer"
	RoleBroker   Role = "broker"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleOwner, RoleCustomer, RoleBroker}

// ParseRole accepts a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleCustomer, RoleBroker:
		return true
	}
	return false
}

// SelfRegistrable reports whether the role may be chosen at sign-up.
// Admins are seeded from configuration.
func (r Role) SelfRegistrable() bool {
	switch r {
	case RoleOwner, RoleCustomer, RoleBroker:
		return true
	case RoleAdmin:
		return false
	}
	return false
}

// CanHoldGateway reports whether the role may bind merchant credentials.
func (r Role) CanHoldGateway() bool {
	switch r {
	case RoleOwner, RoleBroker:
		return true
	case RoleAdmin, RoleCustomer:
		return false
	}
	return false
}

func (r Role) String() string { return string(r) }

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// CanTransition reports whether a booking may move from s to next.
// Nothing returns to pending and cancelled is terminal.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCancelled
	case BookingCancelled:
		return false
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Terminal() bool {
	return s == PaymentSuccess || s == PaymentFailed
}

// GatewayCaptured is the only external status that settles a payment as success.
const GatewayCaptured = "captured"

// PaymentStatusFromGateway maps the gateway vocabulary onto payment states.
func PaymentStatusFromGateway(external string) PaymentStatus {
	if strings.EqualFold(strings.TrimSpace(external), GatewayCaptured) {
		return PaymentSuccess
	}
	return PaymentFailed
}

type CommissionStatus string

const (
	CommissionPending CommissionStatus = "pending"
	CommissionPaid    CommissionStatus = "paid"
)

const (
	GatewayRazorpay = "razorpay"
)

const (
	NotifyNewBooking       = "NEW_BOOKING"
	NotifyBookingCancelled = "BOOKING_CANCELLED"
	NotifyBookingConfirmed = "BOOKING_CONFIRMED"
	NotifyPaymentConfirmed = "PAYMENT_CONFIRMED"
	NotifyPaymentFailed    = "PAYMENT_FAILED"
	NotifyCommissionDue    = "COMMISSION_DUE"
	NotifyCommissionPaid   = "COMMISSION_PAID"
)
