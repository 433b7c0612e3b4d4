package models

import "gorm.io/gorm"

// Organization groups users and owns campaigns.
type Organization struct {
	gorm.Model
	Name      string `gorm:"not null"`
	Domain    string `gorm:"default:''"` // email domain used for auto-assignment
	IsDeleted bool   `gorm:"default:false"`
}
