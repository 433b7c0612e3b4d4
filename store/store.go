package store

import (
	"time"

	"lms/models/campaign"
)

// EnrollmentStore is the durable home of one record per (campaign, user).
// ConditionalCommit writes the record only if its stored version still equals
// expectedVersion, bumping the version on success; otherwise ErrConflict.
type EnrollmentStore interface {
	Get(campaignID, userID uint) (*campaign.Enrollment, error)
	Create(e *campaign.Enrollment) error
	ConditionalCommit(e *campaign.Enrollment, expectedVersion int64) error
}

// StreakStore persists per-user streak records. Active returns the single
// ACTIVE streak for the user or ErrNotFound; History returns every non-active
// streak. Milestone rows are append-only audit records.
type StreakStore interface {
	Active(userID uint) (*campaign.UserStreak, error)
	History(userID uint) ([]campaign.UserStreak, error)
	Create(s *campaign.UserStreak) error
	ConditionalCommit(s *campaign.UserStreak, expectedVersion int64) error
	LogMilestones(events []campaign.StreakMilestone) error
}

// CampaignDirectory resolves campaign definitions. ModuleCount is used by the
// aggregator to lazily fill an enrollment's unknown total_modules; ModuleTarget
// supplies a module's question target on first touch.
type CampaignDirectory interface {
	ModuleCount(campaignID uint) (int, error)
	ModuleTarget(campaignID uint, moduleID string) (int, error)
}

// Clock abstracts time so the engines are testable. Today is the UTC calendar
// date formatted "2006-01-02".
type Clock interface {
	Now() time.Time
	Today() string
}
