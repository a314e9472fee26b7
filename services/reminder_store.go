// services/reminder_store.go
package services

import (
	"errors"
	"time"

	"bizops-backend/models"

	"gorm.io/gorm"
)

// SettingsStore reads the reminder configuration. Read once per pass so
// operator changes take effect on the next tick.
type SettingsStore interface {
	// Get returns the settings row for a reminder type, or nil when none
	// has been configured yet.
	Get(reminderType string) (*models.ReminderSettings, error)
}

// ReminderLogStore is the append-only dedup log.
type ReminderLogStore interface {
	// AlreadySent reports whether a send was already attempted for this
	// (item, offset) pair with sent_at inside [from, to).
	AlreadySent(itemID string, offsetDays int, from, to time.Time) (bool, error)
	Append(entry *models.ReminderLog) error
}

type GormSettingsStore struct {
	db *gorm.DB
}

func NewGormSettingsStore(db *gorm.DB) *GormSettingsStore {
	return &GormSettingsStore{db: db}
}

func (s *GormSettingsStore) Get(reminderType string) (*models.ReminderSettings, error) {
	var settings models.ReminderSettings
	err := s.db.Where("reminder_type = ?", reminderType).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

type GormReminderLogStore struct {
	db *gorm.DB
}

func NewGormReminderLogStore(db *gorm.DB) *GormReminderLogStore {
	return &GormReminderLogStore{db: db}
}

func (s *GormReminderLogStore) AlreadySent(itemID string, offsetDays int, from, to time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&models.ReminderLog{}).
		Where("item_id = ? AND offset_days = ? AND sent_at >= ? AND sent_at < ?", itemID, offsetDays, from, to).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormReminderLogStore) Append(entry *models.ReminderLog) error {
	return s.db.Create(entry).Error
}
