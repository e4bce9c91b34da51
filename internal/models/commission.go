package models

import (
	"time"

	"ecr/internal/domain"
)

// Commission is the payable owed to a broker for a booking they brought.
// BookingID is unique so settlement retries cannot derive a second row.
type Commission struct {
	ID               uint                    `gorm:"primaryKey" json:"id"`
	BookingID        uint                    `gorm:"not null;uniqueIndex" json:"bookingId"`
	PropertyID       uint                    `gorm:"not null;index" json:"propertyId"`
	PaymentID        uint                    `gorm:"not null;index" json:"paymentId"`
	BrokerID         uint                    `gorm:"not null;index" json:"brokerId"`
	OwnerID          uint                    `gorm:"not null;index" json:"ownerId"`
	Amount           float64                 `gorm:"type:decimal(12,2);not null" json:"amount"`
	Rate             float64                 `gorm:"type:decimal(6,2);not null;default:0" json:"rate"`
	Status           domain.CommissionStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	DueDate          time.Time               `json:"dueDate"`
	PaymentGatewayID *uint                   `json:"paymentGatewayId"`
	PaymentDetails   string                  `gorm:"type:text" json:"paymentDetails,omitempty"`
	Notes            string                  `gorm:"type:text" json:"notes,omitempty"`
	PaidAt           *time.Time              `json:"paidAt"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`

	Broker *UserSummary `gorm:"foreignKey:BrokerID" json:"broker,omitempty"`
}

func (Commission) TableName() string {
	return "commissions"
}
