package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Due is an outstanding monetary due against a company, reminded ahead of its
// due date while any balance remains.
type Due struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	Description string    `gorm:"not null"`
	Amount      float64   `gorm:"type:decimal(10,2);not null"`
	PaidAmount  float64   `gorm:"type:decimal(10,2);default:0.0"`
	DueDate     time.Time `gorm:"index;not null"`
	Status      string    `gorm:"type:varchar(20);default:'pending'"` // pending, partial, paid
	Notes       string

	Company Company `gorm:"foreignKey:CompanyID"`

	gorm.Model
}

func (d *Due) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

// Balance is the amount still owed.
func (d *Due) Balance() float64 {
	return d.Amount - d.PaidAmount
}

// RecomputeStatus derives the status from the paid amount.
func (d *Due) RecomputeStatus() {
	switch {
	case d.PaidAmount <= 0:
		d.Status = "pending"
	case d.PaidAmount < d.Amount:
		d.Status = "partial"
	default:
		d.Status = "paid"
	}
}
