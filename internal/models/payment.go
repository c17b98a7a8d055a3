package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentMethod is how a payment was taken at the counter
type PaymentMethod string

const (
	PaymentMethodCash      PaymentMethod = "cash"
	PaymentMethodCard      PaymentMethod = "card"
	PaymentMethodInsurance PaymentMethod = "insurance"
	PaymentMethodOther     PaymentMethod = "other"
)

// Valid reports whether the method is one of the recognized values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodInsurance, PaymentMethodOther:
		return true
	}
	return false
}

// Payment records one payment event against an Account. Immutable once
// created; display order is always payment date descending.
type Payment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	AccountID   uint            `gorm:"index" json:"account_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Method      PaymentMethod   `gorm:"type:varchar(20)" json:"method"`
	Notes       string          `gorm:"type:text" json:"notes"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
