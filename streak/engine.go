package streak

import (
	"errors"
	"log"

	"github.com/google/uuid"

	"lms/models/campaign"
	"lms/store"
)

// Milestones are the streak lengths that trigger a one-time achievement event,
// ascending.
var Milestones = []int{3, 7, 14, 30, 60, 90, 100, 180, 365}

// maxCommitRetries bounds the read-compute-commit cycle before a conflict is
// surfaced to the caller.
const maxCommitRetries = 3

// Result describes the outcome of one campaign-completion event.
type Result struct {
	Streak             *campaign.UserStreak `json:"streak"`
	IsNewStreak        bool                 `json:"is_new_streak"`
	StreakBroken       bool                 `json:"streak_broken"`
	MilestonesAchieved []int                `json:"milestones_achieved"`
}

// Engine maintains per-user daily activity streaks driven by campaign
// completion events. Each call is computed from a single atomically read
// active-streak snapshot and committed conditionally, so two completions for
// the same user landing close together cannot lose an update.
type Engine struct {
	streaks store.StreakStore
	clock   store.Clock
}

func NewEngine(streaks store.StreakStore, clock store.Clock) *Engine {
	return &Engine{streaks: streaks, clock: clock}
}

// RecordCompletion registers that the user completed a campaign today.
func (en *Engine) RecordCompletion(userID, organizationID, campaignID uint) (*Result, error) {
	return en.RecordCompletionOn(userID, organizationID, campaignID, en.clock.Today())
}

// RecordCompletionOn is the backfill-capable variant taking an explicit
// calendar date. A malformed date is rejected before any read; a date earlier
// than the streak's last activity is likewise invalid.
func (en *Engine) RecordCompletionOn(userID, organizationID, campaignID uint, today string) (*Result, error) {
	if _, err := store.ParseDate(today); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		res, err := en.step(userID, organizationID, campaignID, today)
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		return res, err
	}
	return nil, store.ErrConflict
}

// Overview returns the user's active streak (nil when none) and history.
func (en *Engine) Overview(userID uint) (*campaign.UserStreak, []campaign.UserStreak, error) {
	active, err := en.streaks.Active(userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, nil, err
	}
	history, err := en.streaks.History(userID)
	if err != nil {
		return nil, nil, err
	}
	return active, history, nil
}

func (en *Engine) step(userID, organizationID, campaignID uint, today string) (*Result, error) {
	active, err := en.streaks.Active(userID)
	if errors.Is(err, store.ErrNotFound) {
		return en.startStreak(userID, organizationID, campaignID, today, false)
	}
	if err != nil {
		return nil, err
	}

	last := active.LastActiveDate()
	gap, err := store.DaysBetween(last, today)
	if err != nil {
		return nil, err
	}

	switch {
	case gap < 0:
		// completion dated before the streak's last activity
		return nil, store.ErrInvalidInput

	case gap == 0:
		// same calendar day: length unchanged, just union the campaign id
		if active.HasCampaign(campaignID) {
			return &Result{Streak: active}, nil
		}
		expected := active.Version
		active.CompletedCampaignIDs = append(active.CompletedCampaignIDs, campaignID)
		if err := en.streaks.ConditionalCommit(active, expected); err != nil {
			return nil, err
		}
		return &Result{Streak: active}, nil

	case gap == 1:
		// consecutive day: extend the streak
		expected := active.Version
		oldLength := active.Length
		active.Length++
		active.ActiveDates = append(active.ActiveDates, today)
		end := today
		active.EndDate = &end
		if !active.HasCampaign(campaignID) {
			active.CompletedCampaignIDs = append(active.CompletedCampaignIDs, campaignID)
		}
		if err := en.streaks.ConditionalCommit(active, expected); err != nil {
			return nil, err
		}

		crossed := crossedMilestones(oldLength, active.Length)
		en.logMilestones(active, crossed, today)
		return &Result{Streak: active, MilestonesAchieved: crossed}, nil

	default:
		// gap of 2+ days: break the current streak, then start a fresh one
		expected := active.Version
		end := last
		active.Status = campaign.StreakBroken
		active.EndDate = &end
		longest, err := en.isLongestInHistory(userID, active)
		if err != nil {
			return nil, err
		}
		active.LongestInHistory = longest
		if err := en.streaks.ConditionalCommit(active, expected); err != nil {
			return nil, err
		}
		return en.startStreak(userID, organizationID, campaignID, today, true)
	}
}

func (en *Engine) startStreak(userID, organizationID, campaignID uint, today string, previousBroke bool) (*Result, error) {
	end := today
	s := &campaign.UserStreak{
		UserID:               userID,
		OrganizationID:       organizationID,
		StartDate:            today,
		EndDate:              &end,
		Length:               1,
		Status:               campaign.StreakActive,
		ActiveDates:          []string{today},
		CompletedCampaignIDs: []uint{campaignID},
	}
	if err := en.streaks.Create(s); err != nil {
		return nil, err
	}
	return &Result{Streak: s, IsNewStreak: true, StreakBroken: previousBroke}, nil
}

// isLongestInHistory compares the ending streak's length against every other
// historical streak for the user, strict greater-than, at this moment only.
func (en *Engine) isLongestInHistory(userID uint, ending *campaign.UserStreak) (bool, error) {
	history, err := en.streaks.History(userID)
	if err != nil {
		return false, err
	}
	for _, s := range history {
		if s.ID != ending.ID && s.Length >= ending.Length {
			return false, nil
		}
	}
	return true, nil
}

// crossedMilestones returns the thresholds reached by the new length that the
// old length had not reached. Normally at most one per call.
func crossedMilestones(oldLength, newLength int) []int {
	var crossed []int
	for _, t := range Milestones {
		if oldLength < t && newLength >= t {
			crossed = append(crossed, t)
		}
	}
	return crossed
}

// logMilestones writes the audit rows for crossed thresholds. The streak
// transition itself is already committed; an audit failure is logged, not
// surfaced.
func (en *Engine) logMilestones(s *campaign.UserStreak, thresholds []int, today string) {
	if len(thresholds) == 0 {
		return
	}
	events := make([]campaign.StreakMilestone, len(thresholds))
	for i, t := range thresholds {
		events[i] = campaign.StreakMilestone{
			EventID:    uuid.NewString(),
			UserID:     s.UserID,
			StreakID:   s.ID,
			Threshold:  t,
			AchievedOn: today,
		}
	}
	if err := en.streaks.LogMilestones(events); err != nil {
		log.Printf("[STREAK] failed to log milestone events for user %d: %v", s.UserID, err)
	}
}
