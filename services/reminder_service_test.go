package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizops-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ==========================
// Fakes
// ==========================

type fakeSettingsStore struct {
	settings *models.ReminderSettings
	err      error
}

func (f *fakeSettingsStore) Get(reminderType string) (*models.ReminderSettings, error) {
	return f.settings, f.err
}

type fakeSource struct {
	category Category
	items    map[string][]ExpiringItem // keyed by target date YYYY-MM-DD
	err      error
}

func (f *fakeSource) Category() Category { return f.category }

func (f *fakeSource) ResolveExpiringOn(date time.Time) ([]ExpiringItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[date.Format("2006-01-02")], nil
}

type memoryLogStore struct {
	entries   []*models.ReminderLog
	appendErr error
	existsErr error
}

func (m *memoryLogStore) AlreadySent(itemID string, offsetDays int, from, to time.Time) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, e := range m.entries {
		if e.ItemID == itemID && e.OffsetDays == offsetDays &&
			!e.SentAt.Before(from) && e.SentAt.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryLogStore) Append(entry *models.ReminderLog) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

type fakeNotifier struct {
	sent []Notification
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, n Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time { return f.t }

// ==========================
// Helpers
// ==========================

var testToday = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func enabledSettings(offsets ...int) *models.ReminderSettings {
	return &models.ReminderSettings{
		ReminderType: models.ReminderTypeServiceExpiry,
		Enabled:      true,
		OffsetDays:   models.OffsetDays(offsets),
		Subject:      "Expiry reminder",
		Body:         "Dear [RecipientName], a record of yours expires soon.",
	}
}

func serviceItem(id, email string, expiry time.Time) ExpiringItem {
	return ExpiringItem{
		ID:             id,
		Category:       CategoryService,
		ExpiryDate:     expiry,
		RecipientEmail: email,
		RecipientName:  "Acme Trading LLC",
		DisplayFields:  map[string]string{"serviceName": "Web hosting"},
	}
}

func newTestService(settings SettingsStore, sources []ExpirySource, log ReminderLogStore, notifier Notifier) *ReminderService {
	svc := NewReminderService(settings, sources, log, notifier, fixedClock{t: testToday}, zap.NewNop())
	svc.SetDispatchDelay(0)
	return svc
}

// ==========================
// Tests
// ==========================

func TestCheckDisabledShortCircuit(t *testing.T) {
	settings := enabledSettings(7)
	settings.Enabled = false

	source := &fakeSource{
		category: CategoryService,
		items: map[string][]ExpiringItem{
			"2024-06-08": {serviceItem("svc-1", "ops@acme.example", testToday.AddDate(0, 0, 7))},
		},
	}
	log := &memoryLogStore{}
	notifier := &fakeNotifier{}

	svc := newTestService(&fakeSettingsStore{settings: settings}, []ExpirySource{source}, log, notifier)
	result := svc.CheckAndSendReminders(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.TotalChecked)
	assert.Equal(t, 0, result.RemindersSent)
	assert.Equal(t, 0, result.Errors)
	assert.Empty(t, notifier.sent)
	assert.Empty(t, log.entries)
}

func TestCheckNoSettingsRow(t *testing.T) {
	svc := newTestService(&fakeSettingsStore{}, nil, &memoryLogStore{}, &fakeNotifier{})
	result := svc.CheckAndSendReminders(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.TotalChecked)
}

func TestSettingsLoadFailure(t *testing.T) {
	store := &fakeSettingsStore{err: errors.New("connection refused")}
	svc := newTestService(store, nil, &memoryLogStore{}, &fakeNotifier{})
	result := svc.CheckAndSendReminders(context.Background())

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Errors)
	assert.Contains(t, result.Message, "connection refused")
}

func TestZeroOffsetsIsNoop(t *testing.T) {
	settings := enabledSettings() // enforced elsewhere; the runner must not choke
	source := &fakeSource{category: CategoryService}

	svc := newTestService(&fakeSettingsStore{settings: settings}, []ExpirySource{source}, &memoryLogStore{}, &fakeNotifier{})
	result := svc.CheckAndSendReminders(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.TotalChecked)
	assert.Equal(t, 0, result.Errors)
}

func TestScenarioA_SendsAndLogs(t *testing.T) {
	expiry := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	source := &fakeSource{
		category: CategoryService,
		items: map[string][]ExpiringItem{
			"2024-06-08": {serviceItem("svc-1", "ops@acme.example", expiry)},
		},
	}
	log := &memoryLogStore{}
	notifier := &fakeNotifier{}

	svc := newTestService(&fakeSettingsStore{settings: enabledSettings(7, 3, 1)}, []ExpirySource{source}, log, notifier)
	result := svc.CheckAndSendReminders(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.TotalChecked)
	assert.Equal(t, 1, result.RemindersSent)
	assert.Equal(t, 0, result.Errors)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, []string{"ops@acme.example"}, notifier.sent[0].ToEmails)

	require.Len(t, log.entries, 1)
	entry := log.entries[0]
	assert.Equal(t, "svc-1", entry.ItemID)
	assert.Equal(t, 7, entry.OffsetDays)
	assert.Equal(t, "sent", entry.Status)
	assert.Equal(t, string(CategoryService), entry.Category)
}

func TestScenarioB_IdempotentWithinSameDay(t *testing.T) {
	expiry := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	source := &fakeSource{
		category: CategoryService,
		items: map[string][]ExpiringItem{
			"2024-06-08": {serviceItem("svc-1", "ops@acme.example", expiry)},
		},
	}
	log := &memoryLogStore{}
	notifier := &fakeNotifier{}

	svc := newTestService(&fakeSettingsStore{settings: enabledSettings(7, 3, 1)}, []ExpirySource{source}, log, notifier)

	first := svc.CheckAndSendReminders(context.Background())
	assert.Equal(t, 1, first.RemindersSent)

	second := svc.CheckAndSendReminders(context.Background())
	assert.Equal(t, 0, second.RemindersSent)
	assert.Equal(t, 1, second.TotalChecked) // still counted as checked
	assert.Equal(t, 0, second.Errors)
	assert.Len(t, notifier.sent, 1)
	assert.Len(t, log.entries, 1)
}

func TestScenarioC_MissingRecipient(t *testing.T) {
	expiry := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	source := &fakeSource{
		category: CategoryService,
		items: map[string][]ExpiringItem{
			"2024-06-08": {serviceItem("svc-1", "", expiry)},
		},
	}
	log := &memoryLogStore{}
	notifier := &fakeNotifier{}

	svc := newTestService(&fakeSettingsStore{settings: enabledSettings(7)}, []ExpirySource{source}, log, notifier)
	result := svc.CheckAndSendReminders(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 0, result.RemindersSent)
	assert.Empty(t, notifier.sent)

	require.Len(t, log.entries, 1)
	assert.Equal(t, "failed", log.entries[0].Status)
	assert.Contains(t, log.entries[0].ErrorMessage, "no resolvable recipient")
}

func TestOffsetIndependence(t *testing.T) {
	expiry := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	source := &fakeSource{
		category: CategoryService,
		items: map[string][]ExpiringItem{
			"2024-06-08": {serviceItem("svc-1", "ops@acme.example", expiry)},
		},
	}

	// 7 is not in the set; the item 7 days out must not be a candidate
	log := &memoryLogStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(&fakeSettingsStore{settings: enabledSettings(3, 1)}, []ExpirySource{source}, log, notifier)
	result := svc.CheckAndSendReminders(context.Background())

	assert.Equal(t, 0, result.TotalChecked)
	assert.Empty(t, notifier.sent)

	// adding 7 back makes it a candidate without touching the others
	notifier2 := &fakeNotifier{}
	svc2 := newTestService(&fakeSettingsStore{settings: enabledSettings(7, 3, 1)}, []ExpirySource{source}, &memoryLogStore{}, notifier2)
	result2 := svc2.CheckAndSendReminders(context.Background())

	assert.Equal(t, 1, result2.TotalChecked)
	assert.Len(t, notifier2.sent, 1)
}

func TestCategoryQueryFailureDegrades(t *testing.T) {
	expiry := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	broken := &fakeSource{category: CategoryCompanyDocument, err: errors.New("relation missing")}
	healthy := &fakeSource{
		category: CategoryService,
		items: map[string][]ExpiringItem{
			"2024-06-08": {serviceItem("svc-1", "ops@acme.example", expiry)},
		},
	}
	notifier := &fakeNotifier{}

	svc := newTestService(&fakeSettingsStore{settings: enabledSettings(7)}, []ExpirySource{broken, healthy}, &memoryLogStore{}, notifier)
	result := svc.CheckAndSendReminders(context.Background())

	// the broken category contributes an error, the healthy one still sends
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 1, result.RemindersSent)
	assert.Len(t, notifier.sent, 1)
}

func TestCrossCategoryItemsAreIndependent(t *testing.T) {
	expiry := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	svcSource := &fakeSource{
		category: CategoryService,
		items: map[string][]ExpiringItem{
			"2024-06-08": {serviceItem("rec-1", "ops@acme.example", expiry)},
		},
	}
	docItem := serviceItem("rec-2", "ops@acme.example", expiry)
	docItem.Category = CategoryCompanyDocument
	docSource := &fakeSource{
		category: CategoryCompanyDocument,
		items: map[string][]ExpiringItem{
			"2024-06-08": {docItem},
		},
	}
	log := &memoryLogStore{}
	notifier := &fakeNotifier{}

	svc := newTestService(&fakeSettingsStore{settings: enabledSettings(7)}, []ExpirySource{svcSource, docSource}, log, notifier)
	result := svc.CheckAndSendReminders(context.Background())

	assert.Equal(t, 2, result.TotalChecked)
	assert.Equal(t, 2, result.RemindersSent)
	assert.Len(t, log.entries, 2)
}

func TestSecondaryEmailRidesAlong(t *testing.T) {
	expiry := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	item := serviceItem("svc-1", "ops@acme.example", expiry)
	item.SecondaryEmail = "finance@acme.example"
	source := &fakeSource{
		category: CategoryService,
		items:    map[string][]ExpiringItem{"2024-06-08": {item}},
	}
	log := &memoryLogStore{}
	notifier := &fakeNotifier{}

	svc := newTestService(&fakeSettingsStore{settings: enabledSettings(7)}, []ExpirySource{source}, log, notifier)
	result := svc.CheckAndSendReminders(context.Background())

	assert.Equal(t, 1, result.RemindersSent)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, []string{"ops@acme.example", "finance@acme.example"}, notifier.sent[0].ToEmails)

	// one logical attempt, one log entry keyed on the primary address
	require.Len(t, log.entries, 1)
	assert.Equal(t, "ops@acme.example", log.entries[0].RecipientEmail)
}

func TestSecondaryEmailDuplicateOfPrimaryIsDropped(t *testing.T) {
	expiry := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	item := serviceItem("svc-1", "ops@acme.example", expiry)
	item.SecondaryEmail = "ops@acme.example"
	source := &fakeSource{
		category: CategoryService,
		items:    map[string][]ExpiringItem{"2024-06-08": {item}},
	}
	notifier := &fakeNotifier{}

	svc := newTestService(&fakeSettingsStore{settings: enabledSettings(7)}, []ExpirySource{source}, &memoryLogStore{}, notifier)
	svc.CheckAndSendReminders(context.Background())

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, []string{"ops@acme.example"}, notifier.sent[0].ToEmails)
}

func TestDispatchFailureIsLoggedAndCounted(t *testing.T) {
	expiry := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	source := &fakeSource{
		category: CategoryService,
		items: map[string][]ExpiringItem{
			"2024-06-08": {serviceItem("svc-1", "ops@acme.example", expiry)},
		},
	}
	log := &memoryLogStore{}
	notifier := &fakeNotifier{err: errors.New("provider rejected message")}

	svc := newTestService(&fakeSettingsStore{settings: enabledSettings(7)}, []ExpirySource{source}, log, notifier)
	result := svc.CheckAndSendReminders(context.Background())

	assert.True(t, result.Success) // item failures never flip the pass result
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 0, result.RemindersSent)

	require.Len(t, log.entries, 1)
	assert.Equal(t, "failed", log.entries[0].Status)
	assert.Contains(t, log.entries[0].ErrorMessage, "provider rejected")
}

func TestLogAppendFailureDoesNotAbortPass(t *testing.T) {
	expiry := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	source := &fakeSource{
		category: CategoryService,
		items: map[string][]ExpiringItem{
			"2024-06-08": {
				serviceItem("svc-1", "ops@acme.example", expiry),
				serviceItem("svc-2", "billing@globex.example", expiry),
			},
		},
	}
	log := &memoryLogStore{appendErr: errors.New("disk full")}
	notifier := &fakeNotifier{}

	svc := newTestService(&fakeSettingsStore{settings: enabledSettings(7)}, []ExpirySource{source}, log, notifier)
	result := svc.CheckAndSendReminders(context.Background())

	// both dispatches still happen even though nothing could be recorded
	assert.Equal(t, 2, result.RemindersSent)
	assert.Len(t, notifier.sent, 2)
}

func TestDedupLookupFailureSkipsItem(t *testing.T) {
	expiry := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	source := &fakeSource{
		category: CategoryService,
		items: map[string][]ExpiringItem{
			"2024-06-08": {serviceItem("svc-1", "ops@acme.example", expiry)},
		},
	}
	log := &memoryLogStore{existsErr: errors.New("timeout")}
	notifier := &fakeNotifier{}

	svc := newTestService(&fakeSettingsStore{settings: enabledSettings(7)}, []ExpirySource{source}, log, notifier)
	result := svc.CheckAndSendReminders(context.Background())

	// no dispatch when we cannot prove the reminder was not already sent
	assert.Equal(t, 0, result.RemindersSent)
	assert.Equal(t, 1, result.Errors)
	assert.Empty(t, notifier.sent)
}

func TestOffsetsAreNormalizedPerPass(t *testing.T) {
	expiry := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	source := &fakeSource{
		category: CategoryService,
		items: map[string][]ExpiringItem{
			"2024-06-08": {serviceItem("svc-1", "ops@acme.example", expiry)},
		},
	}
	notifier := &fakeNotifier{}

	// duplicate and non-positive offsets must not cause duplicate checks
	svc := newTestService(&fakeSettingsStore{settings: enabledSettings(7, 7, -2, 0)}, []ExpirySource{source}, &memoryLogStore{}, notifier)
	result := svc.CheckAndSendReminders(context.Background())

	assert.Equal(t, 1, result.TotalChecked)
	assert.Len(t, notifier.sent, 1)
}
