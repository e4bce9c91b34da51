package models

import (
	"time"

	"ecr/internal/domain"

	"gorm.io/datatypes"
)

type Payment struct {
	ID                uint                 `gorm:"primaryKey" json:"id"`
	BookingID         uint                 `gorm:"not null;index" json:"bookingId"`
	CustomerID        uint                 `gorm:"not null;index" json:"customerId"`
	GatewayID         *uint                `gorm:"index" json:"gatewayId"`
	Amount            float64              `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency          string               `gorm:"size:3;default:'INR'" json:"currency"`
	Status            domain.PaymentStatus `gorm:"size:20;not null;index" json:"status"`
	GatewayType       string               `gorm:"size:30;not null" json:"gatewayType"`
	OrderID           string               `gorm:"size:255;uniqueIndex" json:"razorpayOrderId"`
	ExternalPaymentID string               `gorm:"size:255" json:"razorpayPaymentId,omitempty"`
	RawResponse       datatypes.JSON       `json:"rawResponse,omitempty"`
	ErrorMessage      string               `gorm:"type:text" json:"errorMessage,omitempty"`
	SettledAt         *time.Time           `json:"settledAt"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`

	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
