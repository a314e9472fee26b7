package services

import (
	"errors"
	"testing"
	"time"

	"bizops-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormSettingsStoreGet(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormSettingsStore(db)

	rows := sqlmock.NewRows([]string{"id", "reminder_type", "enabled", "offset_days", "subject", "body"}).
		AddRow(uuid.New(), models.ReminderTypeServiceExpiry, true, []byte(`[30,15,7,3,1]`), "Expiry reminder", "Dear [RecipientName]")
	mock.ExpectQuery(`SELECT \* FROM "reminder_settings" WHERE reminder_type = \$1`).
		WillReturnRows(rows)

	settings, err := store.Get(models.ReminderTypeServiceExpiry)
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.True(t, settings.Enabled)
	assert.Equal(t, models.OffsetDays{30, 15, 7, 3, 1}, settings.OffsetDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSettingsStoreGetNotConfigured(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormSettingsStore(db)

	mock.ExpectQuery(`SELECT \* FROM "reminder_settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	settings, err := store.Get(models.ReminderTypeServiceExpiry)
	require.NoError(t, err) // not-configured is not an error
	assert.Nil(t, settings)
}

func TestGormSettingsStoreGetFailure(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormSettingsStore(db)

	mock.ExpectQuery(`SELECT \* FROM "reminder_settings"`).
		WillReturnError(errors.New("connection reset"))

	_, err := store.Get(models.ReminderTypeServiceExpiry)
	assert.Error(t, err)
}

func TestGormReminderLogStoreAlreadySent(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormReminderLogStore(db)

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "reminder_logs"`).
		WithArgs("svc-1", 7, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	sent, err := store.AlreadySent("svc-1", 7, from, to)
	require.NoError(t, err)
	assert.True(t, sent)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "reminder_logs"`).
		WithArgs("svc-1", 3, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	sent, err = store.AlreadySent("svc-1", 3, from, to)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReminderLogStoreAlreadySentFailure(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormReminderLogStore(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "reminder_logs"`).
		WillReturnError(errors.New("timeout"))

	sent, err := store.AlreadySent("svc-1", 7, time.Now(), time.Now())
	assert.Error(t, err)
	assert.False(t, sent)
}

func TestGormReminderLogStoreAppend(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormReminderLogStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "reminder_logs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entry := &models.ReminderLog{
		ItemID:     "svc-1",
		Category:   string(CategoryService),
		OffsetDays: 7,
		ExpiryDate: time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC),
		Status:     "sent",
		SentAt:     time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Append(entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceExpirySourceNormalizesItems(t *testing.T) {
	db, mock := newMockDB(t)
	source := &serviceExpirySource{db: db}

	svcID := uuid.New()
	companyID := uuid.New()
	expiry := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)

	serviceRows := sqlmock.NewRows([]string{"id", "company_id", "name", "invoice_number", "amount", "expiry_date", "status"}).
		AddRow(svcID, companyID, "Web hosting", "INV-2024-00042", 1200.50, expiry, "active")
	mock.ExpectQuery(`SELECT \* FROM "company_services"`).
		WillReturnRows(serviceRows)

	companyRows := sqlmock.NewRows([]string{"id", "name", "email", "secondary_email", "phone"}).
		AddRow(companyID, "Acme Trading LLC", "ops@acme.example", "finance@acme.example", "+15550100")
	mock.ExpectQuery(`SELECT \* FROM "companies"`).
		WillReturnRows(companyRows)

	items, err := source.ResolveExpiringOn(expiry)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, svcID.String(), item.ID)
	assert.Equal(t, CategoryService, item.Category)
	assert.Equal(t, "ops@acme.example", item.RecipientEmail)
	assert.Equal(t, "finance@acme.example", item.SecondaryEmail)
	assert.Equal(t, "Acme Trading LLC", item.RecipientName)
	assert.Equal(t, "Web hosting", item.DisplayFields["serviceName"])
	assert.Equal(t, "1200.50", item.DisplayFields["amount"])
	assert.Equal(t, "2024-06-08", item.DisplayFields["expiryDate"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonetaryDueSourceReportsBalance(t *testing.T) {
	db, mock := newMockDB(t)
	source := &monetaryDueSource{db: db}

	dueID := uuid.New()
	companyID := uuid.New()
	dueDate := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)

	dueRows := sqlmock.NewRows([]string{"id", "company_id", "description", "amount", "paid_amount", "due_date", "status"}).
		AddRow(dueID, companyID, "Q2 retainer", 5000.0, 1500.0, dueDate, "partial")
	mock.ExpectQuery(`SELECT \* FROM "dues"`).
		WillReturnRows(dueRows)

	companyRows := sqlmock.NewRows([]string{"id", "name", "email"}).
		AddRow(companyID, "Globex LLC", "billing@globex.example")
	mock.ExpectQuery(`SELECT \* FROM "companies"`).
		WillReturnRows(companyRows)

	items, err := source.ResolveExpiringOn(dueDate)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, CategoryMonetaryDue, items[0].Category)
	assert.Equal(t, "3500.00", items[0].DisplayFields["amountDue"])
}

func TestExpirySourceQueryFailure(t *testing.T) {
	db, mock := newMockDB(t)
	source := &companyDocumentSource{db: db}

	mock.ExpectQuery(`SELECT \* FROM "company_documents"`).
		WillReturnError(errors.New("relation does not exist"))

	_, err := source.ResolveExpiringOn(time.Now())
	assert.Error(t, err)
}

func TestNewExpirySourcesCoversAllCategories(t *testing.T) {
	db, _ := newMockDB(t)

	sources := NewExpirySources(db)
	got := make(map[Category]bool, len(sources))
	for _, s := range sources {
		got[s.Category()] = true
	}

	for _, want := range []Category{
		CategoryService,
		CategoryCompanyDocument,
		CategoryIndividualDocument,
		CategoryEmployeeDocument,
		CategoryMonetaryDue,
	} {
		assert.True(t, got[want], "missing source for %s", want)
	}
}
