package campaign

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentNotStarted = "NOT_STARTED"
	EnrollmentInProgress = "IN_PROGRESS"
	EnrollmentCompleted  = "COMPLETED"
)

// ModuleProgress is the per-module sub-record stored inside the enrollment's
// module_progress JSON column, keyed by module id.
type ModuleProgress struct {
	VideoFinished       bool       `json:"video_finished"`
	QuestionsAnswered   int        `json:"questions_answered"`
	QuestionTarget      int        `json:"question_target"`
	AnsweredQuestionIDs []string   `json:"answered_question_ids,omitempty"`
	Completed           bool       `json:"completed"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

// HasAnswered reports whether the given question id was already credited.
func (mp *ModuleProgress) HasAnswered(questionID string) bool {
	for _, id := range mp.AnsweredQuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// Enrollment tracks a user's participation in a campaign with per-module progress.
// Version guards the conditional commit; every write must carry the version it read.
type Enrollment struct {
	gorm.Model
	CampaignID       uint       `json:"campaign_id" gorm:"uniqueIndex:idx_enroll_campaign_user;not null"`
	UserID           uint       `json:"user_id" gorm:"uniqueIndex:idx_enroll_campaign_user;not null"`
	Status           string     `json:"status" gorm:"default:'NOT_STARTED'"`
	EnrolledAt       time.Time  `json:"enrolled_at"`
	StartedAt        *time.Time `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	AccessCount      int        `json:"access_count" gorm:"default:0"`
	TotalModules     int        `json:"total_modules" gorm:"default:0"` // 0 until resolved from the campaign definition
	CompletedModules int        `json:"completed_modules" gorm:"default:0"`

	ModuleProgress datatypes.JSONType[map[string]ModuleProgress] `json:"module_progress"`

	Version   int64 `json:"-" gorm:"default:1"`
	IsDeleted bool  `gorm:"default:false"`
}

// Progress returns the module progress map, never nil.
func (e *Enrollment) Progress() map[string]ModuleProgress {
	m := e.ModuleProgress.Data()
	if m == nil {
		m = make(map[string]ModuleProgress)
	}
	return m
}

// SetProgress stores the module progress map back onto the record.
func (e *Enrollment) SetProgress(m map[string]ModuleProgress) {
	e.ModuleProgress = datatypes.NewJSONType(m)
}
