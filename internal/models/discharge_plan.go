package models

import (
	"time"

	"gorm.io/gorm"
)

// DischargePlanStatus represents the lifecycle state of a medication plan
type DischargePlanStatus string

const (
	DischargePlanStatusDraft    DischargePlanStatus = "draft"
	DischargePlanStatusActive   DischargePlanStatus = "active"
	DischargePlanStatusArchived DischargePlanStatus = "archived"
)

// MedicationRow is one line of a discharge medication chart
type MedicationRow struct {
	Drug       string `json:"drug"`
	Dose       string `json:"dose"`
	Frequency  string `json:"frequency"`
	Directions string `json:"directions"`
}

// DischargePlan represents a discharge medication plan submitted for a
// patient. Submitting the first plan for a patient also opens their
// account at a zero balance.
type DischargePlan struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	PatientID   uint                `gorm:"index" json:"patient_id"`
	Hospital    string              `gorm:"type:varchar(255)" json:"hospital"`
	Status      DischargePlanStatus `gorm:"type:varchar(20);default:'draft'" json:"status"`
	Medications []MedicationRow     `gorm:"serializer:json" json:"medications"`
	Notes       string              `gorm:"type:text" json:"notes"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}
