package models

import (
	"time"

	"gorm.io/gorm"
)

// CallLog records one phone contact made about an account. Immutable.
type CallLog struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	AccountID uint      `gorm:"index" json:"account_id"`
	CallDate  time.Time `json:"call_date"`
	Comments  string    `gorm:"type:text" json:"comments"`
	CreatedBy string    `gorm:"type:varchar(255)" json:"created_by"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
