package progress

import (
	"errors"

	"lms/models/campaign"
	"lms/store"
)

// maxCommitRetries bounds the read-compute-commit cycle before a conflict is
// surfaced to the caller.
const maxCommitRetries = 3

// Service coordinates module events, the enrollment aggregator and the record
// store. Every mutation is an optimistic read-modify-conditional-commit cycle
// scoped to one enrollment record; on a detected concurrent modification the
// whole cycle retries from a fresh read.
type Service struct {
	enrollments store.EnrollmentStore
	directory   store.CampaignDirectory
	clock       store.Clock

	// onCompleted fires after an enrollment transitions to COMPLETED. It is a
	// best-effort side update (streak engine, notifications); failures inside
	// it never affect the committed progress result.
	onCompleted func(e *campaign.Enrollment)
}

func NewService(enrollments store.EnrollmentStore, directory store.CampaignDirectory, clock store.Clock) *Service {
	return &Service{
		enrollments: enrollments,
		directory:   directory,
		clock:       clock,
	}
}

// OnEnrollmentCompleted registers the completion side-update hook.
func (s *Service) OnEnrollmentCompleted(fn func(e *campaign.Enrollment)) {
	s.onCompleted = fn
}

// Enroll creates the enrollment record for (campaignID, userID) if it does not
// exist yet. Re-enrolling returns the existing record unchanged. The module
// total is resolved from the campaign definition up front when the directory
// knows the campaign; an unknown campaign is NotFound.
func (s *Service) Enroll(campaignID, userID uint) (*campaign.Enrollment, error) {
	if e, err := s.enrollments.Get(campaignID, userID); err == nil {
		return e, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	total, err := s.directory.ModuleCount(campaignID)
	if err != nil {
		return nil, err
	}

	e := &campaign.Enrollment{
		CampaignID:   campaignID,
		UserID:       userID,
		Status:       campaign.EnrollmentNotStarted,
		EnrolledAt:   s.clock.Now(),
		TotalModules: total,
	}
	e.SetProgress(map[string]campaign.ModuleProgress{})
	if err := s.enrollments.Create(e); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// another request enrolled this user first; hand back their record
			return s.enrollments.Get(campaignID, userID)
		}
		return nil, err
	}
	return e, nil
}

// Get returns the enrollment snapshot.
func (s *Service) Get(campaignID, userID uint) (*campaign.Enrollment, error) {
	return s.enrollments.Get(campaignID, userID)
}

// RecordAccess bumps the access counter for one campaign open.
func (s *Service) RecordAccess(campaignID, userID uint) (*campaign.Enrollment, error) {
	return s.update(campaignID, userID, false, func(e *campaign.Enrollment) error {
		e.AccessCount++
		return nil
	})
}

// RecordVideoFinished applies a video-finished event to one module.
func (s *Service) RecordVideoFinished(campaignID, userID uint, moduleID string, ev VideoFinishedEvent) (*campaign.Enrollment, error) {
	return s.update(campaignID, userID, false, func(e *campaign.Enrollment) error {
		prog := e.Progress()
		mp, ok := prog[moduleID]
		if !ok {
			mp = newModuleProgress(s.moduleTarget(campaignID, moduleID))
		}
		prog[moduleID] = applyVideoFinished(mp, ev, s.clock.Now())
		e.SetProgress(prog)
		return nil
	})
}

// RecordQuestionAnswered applies a question-answered event to one module.
func (s *Service) RecordQuestionAnswered(campaignID, userID uint, moduleID string, ev QuestionAnsweredEvent) (*campaign.Enrollment, error) {
	return s.update(campaignID, userID, false, func(e *campaign.Enrollment) error {
		prog := e.Progress()
		mp, ok := prog[moduleID]
		if !ok {
			mp = newModuleProgress(s.moduleTarget(campaignID, moduleID))
		}
		prog[moduleID] = applyQuestionAnswered(mp, ev, s.clock.Now())
		e.SetProgress(prog)
		return nil
	})
}

// MarkEnrollmentCompleted is the administrative override: every known module
// entry is completed and the completed count is pinned to the module total.
func (s *Service) MarkEnrollmentCompleted(campaignID, userID uint) (*campaign.Enrollment, error) {
	return s.update(campaignID, userID, true, func(e *campaign.Enrollment) error {
		prog := e.Progress()
		for id, mp := range prog {
			prog[id] = finalize(campaign.ModuleProgress{
				VideoFinished:       true,
				QuestionsAnswered:   mp.QuestionTarget,
				QuestionTarget:      mp.QuestionTarget,
				AnsweredQuestionIDs: mp.AnsweredQuestionIDs,
				Completed:           mp.Completed,
				CompletedAt:         mp.CompletedAt,
			}, s.clock.Now())
		}
		e.SetProgress(prog)
		return nil
	})
}

// RefreshModuleTotal re-resolves the module total from the campaign
// definition, overriding the cached value. Called when a campaign gains
// modules after enrollments were created; an enrollment completed against the
// smaller total demotes back to in-progress.
func (s *Service) RefreshModuleTotal(campaignID, userID uint) (*campaign.Enrollment, error) {
	return s.update(campaignID, userID, false, func(e *campaign.Enrollment) error {
		total, err := s.directory.ModuleCount(campaignID)
		if err != nil {
			return err
		}
		e.TotalModules = total
		return nil
	})
}

// update is the transactional coordinator: read the record, apply the event,
// recompute the aggregate, and commit only if the record is unchanged since the
// read. The next record is a pure function of the input plus the lazily
// resolved module total, so a retry simply replays against fresh state.
func (s *Service) update(campaignID, userID uint, force bool, apply func(e *campaign.Enrollment) error) (*campaign.Enrollment, error) {
	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		e, err := s.enrollments.Get(campaignID, userID)
		if err != nil {
			return nil, err
		}
		expected := e.Version

		if err := apply(e); err != nil {
			return nil, err
		}
		becameCompleted, err := recompute(e, s.directory, s.clock, force)
		if err != nil {
			return nil, err
		}

		err = s.enrollments.ConditionalCommit(e, expected)
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if becameCompleted && s.onCompleted != nil {
			s.onCompleted(e)
		}
		return e, nil
	}
	return nil, store.ErrConflict
}

// moduleTarget resolves a module's question target on first touch. Modules the
// directory does not know fall back to the default.
func (s *Service) moduleTarget(campaignID uint, moduleID string) int {
	target, err := s.directory.ModuleTarget(campaignID, moduleID)
	if err != nil {
		return campaign.DefaultQuestionTarget
	}
	if target < 0 {
		return 0
	}
	return target
}
