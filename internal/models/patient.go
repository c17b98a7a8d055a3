package models

import (
	"time"

	"gorm.io/gorm"
)

// Patient represents one patient on file
type Patient struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name        string     `gorm:"type:varchar(255)" json:"name"`
	MRN         string     `gorm:"type:varchar(50);uniqueIndex" json:"mrn"` // medical record number
	Phone       string     `gorm:"type:varchar(50)" json:"phone"`
	Address     string     `gorm:"type:varchar(255)" json:"address"`
	DateOfBirth *time.Time `json:"date_of_birth"`

	// Relationships
	DischargePlans []DischargePlan `gorm:"foreignKey:PatientID" json:"discharge_plans,omitempty"`
	Account        *Account        `gorm:"foreignKey:PatientID" json:"account,omitempty"`
}
