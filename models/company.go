package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name               string `gorm:"not null"`
	RegistrationNumber string `gorm:"uniqueIndex"`
	Email              string
	SecondaryEmail     string
	Phone              string
	Address            string
	LicenseExpiry      *time.Time
	Notes              string
	IsActive           bool `gorm:"default:true"`

	Services  []CompanyService  `gorm:"foreignKey:CompanyID"`
	Documents []CompanyDocument `gorm:"foreignKey:CompanyID"`
	Employees []Employee        `gorm:"foreignKey:CompanyID"`
	Dues      []Due             `gorm:"foreignKey:CompanyID"`
	Invoices  []Invoice         `gorm:"foreignKey:CompanyID"`
	Cards     []Card            `gorm:"foreignKey:CompanyID"`

	gorm.Model
}

func (c *Company) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
