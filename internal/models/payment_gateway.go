package models

import (
	"time"

	"ecr/internal/domain"
)

// PaymentGateway is the merchant credential set of one owner or broker.
type PaymentGateway struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"not null;uniqueIndex:idx_gateway_principal" json:"userId"`
	Role      domain.Role `gorm:"size:20;not null;uniqueIndex:idx_gateway_principal" json:"role"`
	Provider  string      `gorm:"size:30;not null;default:'razorpay'" json:"provider"`
	KeyID     string      `gorm:"size:255;not null" json:"-"`
	KeySecret string      `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PaymentGateway) TableName() string {
	return "payment_gateways"
}

// GatewayView is what leaves the API: the key id masked, no secret.
type GatewayView struct {
	ID          uint        `json:"id"`
	Role        domain.Role `json:"role"`
	Provider    string      `json:"provider"`
	KeyIDMasked string      `json:"keyIdMasked"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (g *PaymentGateway) View() GatewayView {
	return GatewayView{
		ID:          g.ID,
		Role:        g.Role,
		Provider:    g.Provider,
		KeyIDMasked: MaskKey(g.KeyID),
		UpdatedAt:   g.UpdatedAt,
	}
}

// MaskKey keeps the last four characters.
func MaskKey(key string) string {
	const visible = 4
	if len(key) <= visible {
		return "****"
	}
	masked := make([]byte, len(key))
	for i := range masked {
		if i < len(key)-visible {
			masked[i] = '*'
		} else {
			masked[i] = key[i]
		}
	}
	return string(masked)
}
