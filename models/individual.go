package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Individual struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name           string `gorm:"not null"`
	Email          string
	SecondaryEmail string
	Phone          string
	Nationality    string
	Notes          string
	IsActive       bool `gorm:"default:true"`

	Documents []IndividualDocument `gorm:"foreignKey:IndividualID"`

	gorm.Model
}

func (i *Individual) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
