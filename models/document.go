package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Documents with an expiry date exist for companies, individuals and employees.
// They share the same shape but live in separate tables so each can be queried
// and reminded independently.

type CompanyDocument struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	Title      string    `gorm:"not null"`
	DocType    string    `gorm:"type:varchar(50)"` // trade_license, lease, insurance, ...
	DocNumber  string
	IssueDate  *time.Time
	ExpiryDate time.Time `gorm:"index;not null"`
	Status     string    `gorm:"type:varchar(20);default:'active'"` // active, expired, archived
	Notes      string

	Company Company `gorm:"foreignKey:CompanyID"`

	gorm.Model
}

func (d *CompanyDocument) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

type IndividualDocument struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	IndividualID uuid.UUID `gorm:"type:uuid;index;not null"`

	Title      string    `gorm:"not null"`
	DocType    string    `gorm:"type:varchar(50)"` // passport, visa, id_card, ...
	DocNumber  string
	IssueDate  *time.Time
	ExpiryDate time.Time `gorm:"index;not null"`
	Status     string    `gorm:"type:varchar(20);default:'active'"`
	Notes      string

	Individual Individual `gorm:"foreignKey:IndividualID"`

	gorm.Model
}

func (d *IndividualDocument) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

type EmployeeDocument struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;index;not null"`

	Title      string    `gorm:"not null"`
	DocType    string    `gorm:"type:varchar(50)"` // work_permit, visa, contract, ...
	DocNumber  string
	IssueDate  *time.Time
	ExpiryDate time.Time `gorm:"index;not null"`
	Status     string    `gorm:"type:varchar(20);default:'active'"`
	Notes      string

	Employee Employee `gorm:"foreignKey:EmployeeID"`

	gorm.Model
}

func (d *EmployeeDocument) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
