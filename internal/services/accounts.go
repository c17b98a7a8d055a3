package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/billing"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
)

// AccountService owns every mutation of an account's financial fields.
// Each mutation recomputes and persists status and due date atomically
// with the triggering change, so the stored status never drifts from the
// stored balance.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// EnsureAccountForPatient returns the patient's account, creating it at a
// zero balance when the patient has none yet. Called when a discharge
// plan is first submitted.
func (s *AccountService) EnsureAccountForPatient(patient *models.Patient) (*models.Account, error) {
	var account models.Account
	err := s.db.Where("patient_id = ?", patient.ID).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	account = models.Account{
		PatientID:   patient.ID,
		PatientName: patient.Name,
		MRN:         patient.MRN,
		Phone:       patient.Phone,
		TotalOwed:   decimal.Zero,
		Status:      billing.StatusCurrent,
	}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account for patient %d: %w", patient.ID, err)
	}
	return &account, nil
}

// AddCharge increases the account balance, typically when a discharge
// plan's medications are dispensed on credit.
func (s *AccountService) AddCharge(accountID uint, amount decimal.Decimal, now time.Time) (*models.Account, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("charge amount must be positive, got %s", amount)
	}

	var account models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, accountID).Error; err != nil {
			return err
		}
		account.TotalOwed = account.TotalOwed.Add(amount)
		applyStatus(&account, now)
		return tx.Save(&account).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// RecordPayment inserts a payment and updates the owning account in one
// transaction: the balance drops (floored at zero), the last payment
// fields move forward, and the status is rederived.
func (s *AccountService) RecordPayment(accountID uint, amount decimal.Decimal, paymentDate time.Time, method models.PaymentMethod, notes string, now time.Time) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive, got %s", amount)
	}
	if !method.Valid() {
		return nil, fmt.Errorf("unknown payment method %q", method)
	}

	var payment models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, accountID).Error; err != nil {
			return err
		}

		payment = models.Payment{
			AccountID:   account.ID,
			Amount:      amount,
			PaymentDate: paymentDate,
			Method:      method,
			Notes:       notes,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		account.TotalOwed = account.TotalOwed.Sub(amount)
		if account.TotalOwed.IsNegative() {
			account.TotalOwed = decimal.Zero
		}
		account.LastPaymentDate = &payment.PaymentDate
		account.LastPaymentAmount = &payment.Amount
		applyStatus(&account, now)
		return tx.Save(&account).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdateDueDate sets or clears the account's explicit due date and
// rederives the status in the same transaction.
func (s *AccountService) UpdateDueDate(accountID uint, dueDate *time.Time, now time.Time) (*models.Account, error) {
	var account models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, accountID).Error; err != nil {
			return err
		}
		account.DueDate = dueDate
		applyStatus(&account, now)
		// Save writes every column, so a nil due date clears the field.
		return tx.Save(&account).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// AddCallLog appends a phone-contact record to the account.
func (s *AccountService) AddCallLog(accountID uint, callDate time.Time, comments, createdBy string) (*models.CallLog, error) {
	if comments == "" {
		return nil, fmt.Errorf("call log comments are required")
	}
	var account models.Account
	if err := s.db.First(&account, accountID).Error; err != nil {
		return nil, err
	}
	entry := models.CallLog{
		AccountID: account.ID,
		CallDate:  callDate,
		Comments:  comments,
		CreatedBy: createdBy,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// RefreshStatuses rederives and persists the status of every account
// whose stored status no longer matches the derivation, and returns how
// many rows changed. Run nightly by the worker to catch accounts that
// tipped into overdue with no triggering mutation.
func (s *AccountService) RefreshStatuses(now time.Time) (int, error) {
	var accounts []models.Account
	if err := s.db.Find(&accounts).Error; err != nil {
		return 0, err
	}

	changed := 0
	for i := range accounts {
		account := &accounts[i]
		res := billing.DeriveStatus(account.StatusInput(), now)
		if account.Status == res.Status {
			continue
		}
		account.Status = res.Status
		if err := s.db.Model(account).Update("status", res.Status).Error; err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// applyStatus writes the derived status back onto the account struct
// before it is saved.
func applyStatus(account *models.Account, now time.Time) {
	res := billing.DeriveStatus(account.StatusInput(), now)
	account.Status = res.Status
}
