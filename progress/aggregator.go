package progress

import (
	"lms/models/campaign"
	"lms/store"
)

// recompute derives enrollment-level state from the module progress map after
// every module event. When force is set (administrative completion) the
// completed count is pinned to the module total instead of recounted.
//
// Status transitions:
//
//	NOT_STARTED -> IN_PROGRESS  once any module is touched
//	IN_PROGRESS -> COMPLETED    when total > 0 and completed >= total
//	COMPLETED   -> IN_PROGRESS  when a later-resolved total exceeds the
//	                            completed count (corrective, clears completed_at)
//
// Returns whether this recompute transitioned the enrollment into COMPLETED.
func recompute(e *campaign.Enrollment, dir store.CampaignDirectory, clock store.Clock, force bool) (bool, error) {
	prog := e.Progress()

	completed := 0
	for _, mp := range prog {
		if mp.Completed {
			completed++
		}
	}
	e.CompletedModules = completed

	// total module count is lazily resolved from the campaign definition and
	// cached on the record once known
	if e.TotalModules <= 0 {
		total, err := dir.ModuleCount(e.CampaignID)
		if err != nil {
			return false, err
		}
		e.TotalModules = total
	}

	if force {
		e.CompletedModules = e.TotalModules
	}

	wasCompleted := e.Status == campaign.EnrollmentCompleted

	if e.Status == campaign.EnrollmentNotStarted && (len(prog) > 0 || force) {
		e.Status = campaign.EnrollmentInProgress
	}

	switch {
	case e.Status == campaign.EnrollmentInProgress && e.TotalModules > 0 && e.CompletedModules >= e.TotalModules:
		e.Status = campaign.EnrollmentCompleted
		if e.CompletedAt == nil {
			ts := clock.Now()
			e.CompletedAt = &ts
		}
	case e.Status == campaign.EnrollmentCompleted && e.TotalModules > 0 && e.CompletedModules < e.TotalModules:
		e.Status = campaign.EnrollmentInProgress
		e.CompletedAt = nil
	}

	if e.Status != campaign.EnrollmentNotStarted && e.StartedAt == nil {
		ts := clock.Now()
		e.StartedAt = &ts
	}

	return !wasCompleted && e.Status == campaign.EnrollmentCompleted, nil
}
