package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/billing"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection to :memory: gets its own database, so pin
	// the pool to one connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedPatient(t *testing.T, db *gorm.DB, name, mrn string) *models.Patient {
	t.Helper()
	p := &models.Patient{Name: name, MRN: mrn, Phone: "0400 000 000"}
	require.NoError(t, db.Create(p).Error)
	return p
}

var serviceNow = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

func TestEnsureAccountForPatient(t *testing.T) {
	db := testDB(t)
	svc := NewAccountService(db)
	patient := seedPatient(t, db, "Ada Moore", "MRN-001")

	account, err := svc.EnsureAccountForPatient(patient)
	require.NoError(t, err)
	assert.True(t, account.TotalOwed.IsZero())
	assert.Equal(t, billing.StatusCurrent, account.Status)
	assert.Equal(t, "Ada Moore", account.PatientName)

	// A second call returns the same account rather than creating another.
	again, err := svc.EnsureAccountForPatient(patient)
	require.NoError(t, err)
	assert.Equal(t, account.ID, again.ID)

	var count int64
	db.Model(&models.Account{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecordPaymentUpdatesAccountAtomically(t *testing.T) {
	db := testDB(t)
	svc := NewAccountService(db)
	patient := seedPatient(t, db, "Ben Cho", "MRN-002")
	account, err := svc.EnsureAccountForPatient(patient)
	require.NoError(t, err)

	_, err = svc.AddCharge(account.ID, decimal.NewFromInt(150), serviceNow)
	require.NoError(t, err)

	payDate := serviceNow.AddDate(0, 0, -1)
	payment, err := svc.RecordPayment(account.ID, decimal.NewFromInt(50), payDate, models.PaymentMethodCash, "counter", serviceNow)
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(50)))

	var got models.Account
	require.NoError(t, db.First(&got, account.ID).Error)
	assert.True(t, got.TotalOwed.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, got.LastPaymentDate)
	assert.Equal(t, billing.DateOnly(payDate), billing.DateOnly(*got.LastPaymentDate))
	require.NotNil(t, got.LastPaymentAmount)
	assert.True(t, got.LastPaymentAmount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, billing.StatusCurrent, got.Status)
}

func TestRecordPaymentFloorsBalanceAndMarksPaid(t *testing.T) {
	db := testDB(t)
	svc := NewAccountService(db)
	patient := seedPatient(t, db, "Cara Diaz", "MRN-003")
	account, err := svc.EnsureAccountForPatient(patient)
	require.NoError(t, err)
	_, err = svc.AddCharge(account.ID, decimal.NewFromInt(40), serviceNow)
	require.NoError(t, err)

	// Overpayment floors the balance at zero.
	_, err = svc.RecordPayment(account.ID, decimal.NewFromInt(60), serviceNow, models.PaymentMethodCard, "", serviceNow)
	require.NoError(t, err)

	var got models.Account
	require.NoError(t, db.First(&got, account.ID).Error)
	assert.True(t, got.TotalOwed.IsZero())
	assert.Equal(t, billing.StatusPaid, got.Status)
}

func TestRecordPaymentValidation(t *testing.T) {
	db := testDB(t)
	svc := NewAccountService(db)
	patient := seedPatient(t, db, "Dev Iyer", "MRN-004")
	account, err := svc.EnsureAccountForPatient(patient)
	require.NoError(t, err)

	_, err = svc.RecordPayment(account.ID, decimal.Zero, serviceNow, models.PaymentMethodCash, "", serviceNow)
	assert.Error(t, err)

	_, err = svc.RecordPayment(account.ID, decimal.NewFromInt(10), serviceNow, "cheque", "", serviceNow)
	assert.Error(t, err)

	// Nothing was written.
	var count int64
	db.Model(&models.Payment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdateDueDateRecomputesStatus(t *testing.T) {
	db := testDB(t)
	svc := NewAccountService(db)
	patient := seedPatient(t, db, "Eve Finn", "MRN-005")
	account, err := svc.EnsureAccountForPatient(patient)
	require.NoError(t, err)
	_, err = svc.AddCharge(account.ID, decimal.NewFromInt(80), serviceNow)
	require.NoError(t, err)

	past := serviceNow.AddDate(0, 0, -10)
	updated, err := svc.UpdateDueDate(account.ID, &past, serviceNow)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusOverdue, updated.Status)

	future := serviceNow.AddDate(0, 0, 10)
	updated, err = svc.UpdateDueDate(account.ID, &future, serviceNow)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusCurrent, updated.Status)
}

func TestRefreshStatuses(t *testing.T) {
	db := testDB(t)
	svc := NewAccountService(db)
	patient := seedPatient(t, db, "Gus Hale", "MRN-006")
	account, err := svc.EnsureAccountForPatient(patient)
	require.NoError(t, err)
	_, err = svc.AddCharge(account.ID, decimal.NewFromInt(120), serviceNow)
	require.NoError(t, err)
	due := serviceNow.AddDate(0, 0, 2)
	_, err = svc.UpdateDueDate(account.ID, &due, serviceNow)
	require.NoError(t, err)

	// Nothing to do while the due date is in the future.
	changed, err := svc.RefreshStatuses(serviceNow)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)

	// A week later the account has tipped into overdue.
	changed, err = svc.RefreshStatuses(serviceNow.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	var got models.Account
	require.NoError(t, db.First(&got, account.ID).Error)
	assert.Equal(t, billing.StatusOverdue, got.Status)
}

func TestHistoryFetcherPreservesOrder(t *testing.T) {
	db := testDB(t)
	svc := NewAccountService(db)
	fetcher := NewHistoryFetcher(db)

	var accounts []models.Account
	for i, name := range []string{"P One", "P Two", "P Three"} {
		patient := seedPatient(t, db, name, "MRN-H"+name)
		account, err := svc.EnsureAccountForPatient(patient)
		require.NoError(t, err)
		_, err = svc.AddCharge(account.ID, decimal.NewFromInt(int64(100*(i+1))), serviceNow)
		require.NoError(t, err)
		_, err = svc.RecordPayment(account.ID, decimal.NewFromInt(10), serviceNow, models.PaymentMethodCash, "", serviceNow)
		require.NoError(t, err)
		_, err = svc.AddCallLog(account.ID, serviceNow, "left voicemail", "reception")
		require.NoError(t, err)

		require.NoError(t, db.First(&account, account.ID).Error)
		accounts = append(accounts, *account)
	}

	records, err := fetcher.FetchRecords(context.Background(), accounts)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, accounts[i].ID, rec.ID)
		assert.Len(t, rec.Payments, 1)
		assert.Len(t, rec.Calls, 1)
	}
}
