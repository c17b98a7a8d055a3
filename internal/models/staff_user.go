package models

import (
	"time"

	"gorm.io/gorm"
)

// StaffRole controls which pages a staff member can reach
type StaffRole string

const (
	StaffRoleAdmin      StaffRole = "admin"
	StaffRolePharmacist StaffRole = "pharmacist"
	StaffRoleAccounts   StaffRole = "accounts"
)

// StaffUser represents a back-office user. Identity comes from Firebase;
// the row here carries the role used for route guarding.
type StaffUser struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name  string    `gorm:"type:varchar(255)" json:"name"`
	Email string    `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Role  StaffRole `gorm:"type:varchar(20);default:'pharmacist'" json:"role"`
}
