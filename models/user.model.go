package models

import (
	"time"

	"gorm.io/gorm"
)

// User mirrors the identity service's user record. Accounts are created and
// authenticated there; we keep a local row for joins and notification emails.
type User struct {
	gorm.Model
	ExternalID     string    `gorm:"uniqueIndex;not null"` // id issued by the identity service
	Name           string    `gorm:"default:''"`
	Email          string    `gorm:"unique;not null"`
	Role           string    `gorm:"default:'LEARNER'"` // LEARNER, ADMIN
	OrganizationID uint      `gorm:"index;not null"`
	Department     string    `gorm:"default:''"`
	Cohort         string    `gorm:"default:''"`
	LastSeen       time.Time `gorm:"default:NULL"`
	IsDeleted      bool      `gorm:"default:false"`
}
