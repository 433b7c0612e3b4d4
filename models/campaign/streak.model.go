package campaign

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Streak statuses. STREAK_ENDED is reserved for administrative closure and is
// never produced by the engine's transition rules.
const (
	StreakActive = "ACTIVE"
	StreakBroken = "BROKEN"
	StreakEnded  = "ENDED"
)

// UserStreak is a run of consecutive calendar days on which the user completed
// at least one campaign. At most one ACTIVE row exists per user, enforced by a
// partial unique index so racing creates cannot double-start a streak; BROKEN
// rows are immutable history. Dates are UTC ISO calendar dates ("2006-01-02").
// EndDate always equals the last active day, stamped at creation and advanced
// with each extension.
type UserStreak struct {
	gorm.Model
	UserID         uint    `json:"user_id" gorm:"index;uniqueIndex:idx_user_active_streak,where:status = 'ACTIVE';not null"`
	OrganizationID uint    `json:"organization_id" gorm:"index;not null"`
	StartDate      string  `json:"start_date" gorm:"not null"`
	EndDate        *string `json:"end_date"`
	Length         int     `json:"length" gorm:"default:1"`
	Status         string  `json:"status" gorm:"index;default:'ACTIVE'"`

	ActiveDates          datatypes.JSONSlice[string] `json:"active_dates"`
	CompletedCampaignIDs datatypes.JSONSlice[uint]   `json:"completed_campaign_ids"`

	// LongestInHistory is computed once, at the moment the streak breaks, by
	// comparing against the user's other historical streaks. Never re-evaluated.
	LongestInHistory bool `json:"longest_in_history" gorm:"default:false"`

	Version   int64 `json:"-" gorm:"default:1"`
	IsDeleted bool  `gorm:"default:false"`
}

// LastActiveDate returns the most recent day with activity.
func (s *UserStreak) LastActiveDate() string {
	if len(s.ActiveDates) == 0 {
		return s.StartDate
	}
	return s.ActiveDates[len(s.ActiveDates)-1]
}

// HasCampaign reports whether the campaign id was already recorded on this streak.
func (s *UserStreak) HasCampaign(campaignID uint) bool {
	for _, id := range s.CompletedCampaignIDs {
		if id == campaignID {
			return true
		}
	}
	return false
}

// StreakMilestone is the audit record written when a streak crosses one of the
// fixed milestone thresholds.
type StreakMilestone struct {
	gorm.Model
	EventID    string `json:"event_id" gorm:"uniqueIndex;not null"` // uuid, used by downstream notification dedupe
	UserID     uint   `json:"user_id" gorm:"index;not null"`
	StreakID   uint   `json:"streak_id" gorm:"index;not null"`
	Threshold  int    `json:"threshold" gorm:"not null"`
	AchievedOn string `json:"achieved_on" gorm:"not null"`
}
