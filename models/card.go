package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Card stores payment card metadata only. The PAN is never persisted, just the
// masked last four digits.
type Card struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	HolderName  string `gorm:"not null"`
	LastFour    string `gorm:"type:varchar(4);not null"`
	Brand       string `gorm:"type:varchar(20)"` // visa, mastercard, amex
	ExpiryMonth int    `gorm:"not null"`
	ExpiryYear  int    `gorm:"not null"`
	IsActive    bool   `gorm:"default:true"`

	Company Company `gorm:"foreignKey:CompanyID"`

	gorm.Model
}

func (c *Card) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
