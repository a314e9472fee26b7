// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"bizops-backend/models"
	"bizops-backend/utils"

	"go.uber.org/zap"
)

// CheckResult is the aggregate outcome of one reminder pass.
type CheckResult struct {
	Success       bool   `json:"success"`
	TotalChecked  int    `json:"totalChecked"`
	RemindersSent int    `json:"remindersSent"`
	Errors        int    `json:"errors"`
	Message       string `json:"message"`
}

// ReminderService runs one end-to-end reminder pass: load settings, resolve
// expiring items per offset, dedup against the log, dispatch, record. It owns
// no timer; the scheduler (or a manual trigger) calls it.
type ReminderService struct {
	settings SettingsStore
	sources  []ExpirySource
	log      ReminderLogStore
	notifier Notifier
	clock    Clock
	logger   *zap.Logger

	// courtesy pause between dispatches so the provider is not hammered
	dispatchDelay time.Duration
}

func NewReminderService(settings SettingsStore, sources []ExpirySource, log ReminderLogStore, notifier Notifier, clock Clock, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		settings:      settings,
		sources:       sources,
		log:           log,
		notifier:      notifier,
		clock:         clock,
		logger:        logger,
		dispatchDelay: 500 * time.Millisecond,
	}
}

// SetDispatchDelay overrides the inter-dispatch pause.
func (s *ReminderService) SetDispatchDelay(d time.Duration) {
	s.dispatchDelay = d
}

// CheckAndSendReminders executes exactly one pass. Success is false only when
// loading the settings themselves failed; per-item and per-category failures
// are counted in Errors and the pass continues.
func (s *ReminderService) CheckAndSendReminders(ctx context.Context) CheckResult {
	settings, err := s.settings.Get(models.ReminderTypeServiceExpiry)
	if err != nil {
		s.logger.Error("failed to load reminder settings", zap.Error(err))
		return CheckResult{
			Success: false,
			Errors:  1,
			Message: "failed to load reminder settings: " + err.Error(),
		}
	}
	if settings == nil || !settings.Enabled {
		return CheckResult{
			Success: true,
			Message: "reminders are disabled, nothing to do",
		}
	}

	result := CheckResult{Success: true}
	today := utils.BeginningOfDay(s.clock.Now())

	for _, offset := range settings.OffsetDays.Normalized() {
		targetDate := today.AddDate(0, 0, offset)

		for _, source := range s.sources {
			items, err := source.ResolveExpiringOn(targetDate)
			if err != nil {
				s.logger.Error("expiry query failed",
					zap.String("category", string(source.Category())),
					zap.Int("offsetDays", offset),
					zap.Error(err),
				)
				result.Errors++
				continue
			}

			result.TotalChecked += len(items)

			for _, item := range items {
				s.processItem(ctx, settings, item, offset, today, &result)
			}
		}
	}

	result.Message = fmt.Sprintf("checked %d items, sent %d reminders, %d errors",
		result.TotalChecked, result.RemindersSent, result.Errors)
	s.logger.Info("reminder pass finished",
		zap.Int("totalChecked", result.TotalChecked),
		zap.Int("remindersSent", result.RemindersSent),
		zap.Int("errors", result.Errors),
	)
	return result
}

func (s *ReminderService) processItem(ctx context.Context, settings *models.ReminderSettings, item ExpiringItem, offset int, today time.Time, result *CheckResult) {
	tomorrow := today.AddDate(0, 0, 1)

	sent, err := s.log.AlreadySent(item.ID, offset, today, tomorrow)
	if err != nil {
		// Skipping on a failed dedup read is the safe side: a duplicate
		// send is worse than a missed one within the same day.
		s.logger.Error("dedup lookup failed",
			zap.String("itemId", item.ID),
			zap.Int("offsetDays", offset),
			zap.Error(err),
		)
		result.Errors++
		return
	}
	if sent {
		s.logger.Debug("reminder already sent today, skipping",
			zap.String("itemId", item.ID),
			zap.Int("offsetDays", offset),
		)
		return
	}

	entry := &models.ReminderLog{
		ItemID:         item.ID,
		Category:       string(item.Category),
		OffsetDays:     offset,
		ExpiryDate:     item.ExpiryDate,
		RecipientEmail: item.RecipientEmail,
		SentAt:         s.clock.Now(),
	}

	if item.RecipientEmail == "" {
		entry.Status = "failed"
		entry.ErrorMessage = "no resolvable recipient email"
		s.appendLog(entry)
		s.logger.Warn("expiring item has no recipient email",
			zap.String("itemId", item.ID),
			zap.String("category", string(item.Category)),
		)
		result.Errors++
		return
	}

	// Primary address is the recipient key; a distinct secondary rides
	// along as part of the same logical attempt.
	emails := []string{item.RecipientEmail}
	if item.SecondaryEmail != "" && item.SecondaryEmail != item.RecipientEmail {
		emails = append(emails, item.SecondaryEmail)
	}

	err = s.notifier.Send(ctx, Notification{
		ToEmails:      emails,
		ToPhone:       item.RecipientPhone,
		RecipientName: item.RecipientName,
		Subject:       settings.Subject,
		Body:          settings.Body,
		Fields:        item.DisplayFields,
	})
	if err != nil {
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
		s.appendLog(entry)
		s.logger.Error("reminder dispatch failed",
			zap.String("itemId", item.ID),
			zap.String("recipient", item.RecipientEmail),
			zap.Error(err),
		)
		result.Errors++
	} else {
		entry.Status = "sent"
		s.appendLog(entry)
		result.RemindersSent++
	}

	if s.dispatchDelay > 0 {
		time.Sleep(s.dispatchDelay)
	}
}

// appendLog records an attempt; a log write failure never aborts the pass.
func (s *ReminderService) appendLog(entry *models.ReminderLog) {
	if err := s.log.Append(entry); err != nil {
		s.logger.Error("failed to append reminder log entry",
			zap.String("itemId", entry.ItemID),
			zap.Int("offsetDays", entry.OffsetDays),
			zap.Error(err),
		)
	}
}
