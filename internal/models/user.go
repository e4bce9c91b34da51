package models

import (
	"time"

	"ecr/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:128;not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         domain.Role    `gorm:"size:20;not null;index" json:"role"`
	Verified     bool           `gorm:"default:false" json:"verified"`
	Profile      datatypes.JSON `json:"profile,omitempty"`
	Documents    datatypes.JSON `json:"documents,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) Is(r domain.Role) bool { return u.Role == r }

// UserSummary is the identity slice shown next to ledger rows.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (UserSummary) TableName() string {
	return "users"
}
