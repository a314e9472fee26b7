package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderLog is the append-only record of every send attempt. A row for
// (item, offset) with sent_at on today's date means the reminder was already
// attempted today, whatever the outcome.
type ReminderLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	ItemID         string    `gorm:"type:varchar(64);index:idx_item_offset;not null"`
	Category       string    `gorm:"type:varchar(30);not null"` // service, company_document, ...
	OffsetDays     int       `gorm:"index:idx_item_offset;not null"`
	ExpiryDate     time.Time `gorm:"not null"`
	RecipientEmail string
	Status         string    `gorm:"type:varchar(20);not null"` // sent, failed
	ErrorMessage   string    `gorm:"type:text"`
	SentAt         time.Time `gorm:"index;not null"`
	gorm.Model
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
