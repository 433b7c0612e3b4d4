package campaign

import "gorm.io/gorm"

// Campaign represents a learning campaign of video modules
type Campaign struct {
	gorm.Model
	OrganizationID uint   `json:"organization_id" gorm:"index;not null"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Status         string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	ThumbnailURL   string `json:"thumbnail_url"`
	IsPublished    bool   `json:"is_published" gorm:"default:false"`
	IsDeleted      bool   `gorm:"default:false"`
}
