package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyService is a billed, renewable service (hosting, license, subscription)
// tracked against its expiry date.
type CompanyService struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name          string    `gorm:"not null"`
	InvoiceNumber string    `gorm:"index"`
	Amount        float64   `gorm:"type:decimal(10,2);default:0.0"`
	StartDate     *time.Time
	ExpiryDate    time.Time `gorm:"index;not null"`
	Status        string    `gorm:"type:varchar(20);default:'active'"` // active, expired, cancelled
	Notes         string

	Company Company `gorm:"foreignKey:CompanyID"`

	gorm.Model
}

func (s *CompanyService) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
