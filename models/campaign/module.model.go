package campaign

import "gorm.io/gorm"

// DefaultQuestionTarget is the number of answered questions a module requires
// when it does not specify its own target.
const DefaultQuestionTarget = 3

// CampaignModule represents one video-plus-questions unit within a campaign
type CampaignModule struct {
	gorm.Model
	CampaignID      uint   `json:"campaign_id" gorm:"index;not null"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	VideoURL        string `json:"video_url"`
	DurationSeconds int    `json:"duration_seconds" gorm:"default:0"`
	QuestionTarget  int    `json:"question_target" gorm:"default:3"`
	OrderIndex      int    `json:"order_index" gorm:"default:0"` // Module order in campaign
	IsPublished     bool   `json:"is_published" gorm:"default:false"`
	IsDeleted       bool   `gorm:"default:false"`
}
