package models

import (
	"time"

	"ecr/internal/domain"
)

type Booking struct {
	ID         uint                 `gorm:"primaryKey" json:"id"`
	PropertyID uint                 `gorm:"not null;index" json:"propertyId"`
	CustomerID uint                 `gorm:"not null;index" json:"customerId"`
	BrokerID   *uint                `gorm:"index" json:"brokerId"`
	StartDate  time.Time            `gorm:"type:date;not null" json:"startDate"`
	EndDate    time.Time            `gorm:"type:date;not null" json:"endDate"`
	Amount     float64              `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status     domain.BookingStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`

	Property Property `gorm:"foreignKey:PropertyID" json:"-"`
	Customer User     `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Booking) TableName() string {
	return "bookings"
}
