package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/billing"
)

// Account represents a patient's running balance. One account per
// patient; opened when their first discharge plan is submitted, never
// hard-deleted.
type Account struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	PatientID uint `gorm:"uniqueIndex" json:"patient_id"`

	// Denormalized from Patient so account listings and reports don't
	// need a join.
	PatientName string `gorm:"type:varchar(255)" json:"patient_name"`
	MRN         string `gorm:"type:varchar(50);index" json:"mrn"`
	Phone       string `gorm:"type:varchar(50)" json:"phone"`

	TotalOwed         decimal.Decimal  `gorm:"type:decimal(12,2)" json:"total_owed"`
	LastPaymentDate   *time.Time       `json:"last_payment_date"`
	LastPaymentAmount *decimal.Decimal `gorm:"type:decimal(12,2)" json:"last_payment_amount"`
	DueDate           *time.Time       `json:"due_date"`

	// Derived via billing.DeriveStatus; persisted so listings can filter
	// on it, and recomputed atomically with every balance mutation.
	Status billing.AccountStatus `gorm:"type:varchar(20);index" json:"status"`

	// Relationships
	Patient  Patient   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Payments []Payment `gorm:"foreignKey:AccountID" json:"payments,omitempty"`
	CallLogs []CallLog `gorm:"foreignKey:AccountID" json:"call_logs,omitempty"`
}

// StatusInput maps the account's raw fields into the status engine input.
func (a Account) StatusInput() billing.StatusInput {
	return billing.StatusInput{
		TotalOwed:       a.TotalOwed,
		LastPaymentDate: a.LastPaymentDate,
		DueDate:         a.DueDate,
		CreatedAt:       a.CreatedAt,
	}
}

// ToRecord maps the account and its loaded history into the aggregator's
// in-memory shape.
func (a Account) ToRecord() billing.AccountRecord {
	rec := billing.AccountRecord{
		ID:                a.ID,
		PatientName:       a.PatientName,
		MRN:               a.MRN,
		Phone:             a.Phone,
		TotalOwed:         a.TotalOwed,
		LastPaymentDate:   a.LastPaymentDate,
		LastPaymentAmount: a.LastPaymentAmount,
		DueDate:           a.DueDate,
		CreatedAt:         a.CreatedAt,
	}
	for _, p := range a.Payments {
		rec.Payments = append(rec.Payments, billing.PaymentRecord{
			ID:          p.ID,
			Amount:      p.Amount,
			PaymentDate: p.PaymentDate,
			Method:      string(p.Method),
			Notes:       p.Notes,
		})
	}
	for _, cl := range a.CallLogs {
		rec.Calls = append(rec.Calls, billing.CallRecord{
			ID:        cl.ID,
			CallDate:  cl.CallDate,
			Comments:  cl.Comments,
			CreatedBy: cl.CreatedBy,
		})
	}
	return rec
}
