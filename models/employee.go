package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name           string `gorm:"not null"`
	Email          string
	SecondaryEmail string
	Phone          string
	Position       string
	IsActive       bool `gorm:"default:true"`

	Documents []EmployeeDocument `gorm:"foreignKey:EmployeeID"`

	gorm.Model
}

func (e *Employee) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
