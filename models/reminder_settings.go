package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ReminderTypeServiceExpiry = "service_expiry"

// OffsetDays is the ordered set of day-offsets at which a reminder fires
// before an expiry date, stored as a JSON array.
type OffsetDays []int

func (o OffsetDays) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *OffsetDays) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, o)
}

// Normalized returns the offsets de-duplicated, positives only, sorted
// descending (largest offset checked first).
func (o OffsetDays) Normalized() OffsetDays {
	seen := make(map[int]bool, len(o))
	out := make(OffsetDays, 0, len(o))
	for _, d := range o {
		if d <= 0 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// ReminderSettings is the single configuration row per reminder type.
type ReminderSettings struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	ReminderType string     `gorm:"type:varchar(50);uniqueIndex;not null"` // e.g. service_expiry
	Enabled      bool       `gorm:"default:false"`
	OffsetDays   OffsetDays `gorm:"type:jsonb;default:'[30,15,7,3,1]'"`
	Subject      string     `gorm:"type:text"`
	Body         string     `gorm:"type:text"`
	gorm.Model
}

func (r *ReminderSettings) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// BeforeSave enforces the settings invariants: offsets are unique positive
// integers, and a non-empty set is required while reminders are enabled.
func (r *ReminderSettings) BeforeSave(tx *gorm.DB) (err error) {
	r.OffsetDays = r.OffsetDays.Normalized()
	if r.Enabled && len(r.OffsetDays) == 0 {
		return errors.New("reminder settings: at least one offset is required when enabled")
	}
	return
}
