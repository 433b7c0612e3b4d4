package progress

import (
	"time"

	"lms/models/campaign"
)

// watchedRatio is the fraction of a video that counts as finished when the
// caller reports playback durations. Fixed, not configurable.
const watchedRatio = 0.95

// VideoFinishedEvent reports that a learner finished (or nearly finished) a
// module's video. When both durations are present the watched ratio decides;
// when either is absent the caller is asserting completion.
type VideoFinishedEvent struct {
	WatchedSeconds *float64 `json:"watched_seconds"`
	TotalSeconds   *float64 `json:"total_seconds"`
	Force          bool     `json:"force"`
}

// QuestionAnsweredEvent reports answered embedded questions. A QuestionID makes
// the event idempotent under redelivery; Target, when supplied, resupplies the
// module's question target.
type QuestionAnsweredEvent struct {
	QuestionID string `json:"question_id"`
	Count      int    `json:"count"`
	Target     *int   `json:"target"`
}

func newModuleProgress(target int) campaign.ModuleProgress {
	if target < 0 {
		target = 0
	}
	return campaign.ModuleProgress{QuestionTarget: target}
}

// applyVideoFinished folds a video event into the module sub-record.
// VideoFinished only ever flips to true; a later low-ratio replay never unsets it.
func applyVideoFinished(mp campaign.ModuleProgress, ev VideoFinishedEvent, now time.Time) campaign.ModuleProgress {
	switch {
	case ev.Force:
		mp.VideoFinished = true
	case ev.WatchedSeconds == nil || ev.TotalSeconds == nil:
		// no durations: caller asserts completion
		mp.VideoFinished = true
	case *ev.TotalSeconds > 0 && *ev.WatchedSeconds / *ev.TotalSeconds >= watchedRatio:
		mp.VideoFinished = true
	}
	return finalize(mp, now)
}

// applyQuestionAnswered folds a question event into the module sub-record.
// Re-delivery of an already-credited question id does not change the count,
// but a resupplied target still refreshes the threshold bookkeeping.
func applyQuestionAnswered(mp campaign.ModuleProgress, ev QuestionAnsweredEvent, now time.Time) campaign.ModuleProgress {
	if ev.Target != nil {
		target := *ev.Target
		if target < 0 {
			target = 0
		}
		mp.QuestionTarget = target
	}

	duplicate := ev.QuestionID != "" && mp.HasAnswered(ev.QuestionID)
	if !duplicate {
		count := ev.Count
		if count < 0 {
			count = 0
		}
		mp.QuestionsAnswered += count
		if ev.QuestionID != "" {
			mp.AnsweredQuestionIDs = append(mp.AnsweredQuestionIDs, ev.QuestionID)
		}
	}

	if mp.QuestionsAnswered > mp.QuestionTarget {
		mp.QuestionsAnswered = mp.QuestionTarget
	}
	if mp.QuestionsAnswered < 0 {
		mp.QuestionsAnswered = 0
	}
	return finalize(mp, now)
}

// finalize recomputes the completion predicate. Completed becomes true exactly
// once; completed_at is stamped at that transition and frozen afterwards.
func finalize(mp campaign.ModuleProgress, now time.Time) campaign.ModuleProgress {
	if mp.Completed {
		return mp
	}
	if mp.VideoFinished && mp.QuestionsAnswered >= mp.QuestionTarget {
		mp.Completed = true
		ts := now
		mp.CompletedAt = &ts
	}
	return mp
}
