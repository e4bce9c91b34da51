package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Property struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Location    string         `gorm:"size:255;not null;index" json:"location"`
	Address     string         `gorm:"size:512" json:"address"`
	Price       float64        `gorm:"type:decimal(12,2);not null" json:"price"`
	OwnerID     uint           `gorm:"not null;index" json:"ownerId"`
	BrokerID    *uint          `gorm:"index" json:"brokerId"`
	Commission  float64        `gorm:"type:decimal(12,2);not null;default:0" json:"commission"` // flat amount per settled booking
	Available   bool           `gorm:"not null" json:"available"`
	Amenities   datatypes.JSON `json:"amenities,omitempty"`
	MediaURLs   datatypes.JSON `gorm:"column:media_urls" json:"mediaUrls,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Property) TableName() string {
	return "properties"
}

func (p *Property) HasBroker() bool { return p.BrokerID != nil && *p.BrokerID != 0 }
