package store

import (
	"sync"
	"time"

	"gorm.io/datatypes"

	"lms/models/campaign"
)

// In-memory implementations of the store contracts. They back the engine unit
// tests so the coordinator can be exercised without a live database; semantics
// (version checks, copies on read) match the gorm implementations.

type enrollKey struct {
	campaignID uint
	userID     uint
}

type MemoryEnrollmentStore struct {
	mu      sync.Mutex
	seq     uint
	records map[enrollKey]*campaign.Enrollment

	// FailNextCommits forces the next N conditional commits to report
	// ErrConflict without applying, to drive the retry path in tests.
	FailNextCommits int
}

func NewMemoryEnrollmentStore() *MemoryEnrollmentStore {
	return &MemoryEnrollmentStore{records: make(map[enrollKey]*campaign.Enrollment)}
}

func cloneEnrollment(e *campaign.Enrollment) *campaign.Enrollment {
	cp := *e
	if m := e.ModuleProgress.Data(); m != nil {
		nm := make(map[string]campaign.ModuleProgress, len(m))
		for k, v := range m {
			v.AnsweredQuestionIDs = append([]string(nil), v.AnsweredQuestionIDs...)
			nm[k] = v
		}
		cp.ModuleProgress = datatypes.NewJSONType(nm)
	}
	return &cp
}

func (s *MemoryEnrollmentStore) Get(campaignID, userID uint) (*campaign.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.records[enrollKey{campaignID, userID}]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEnrollment(e), nil
}

func (s *MemoryEnrollmentStore) Create(e *campaign.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[enrollKey{e.CampaignID, e.UserID}]; ok {
		return ErrConflict
	}
	s.seq++
	e.ID = s.seq
	e.Version = 1
	s.records[enrollKey{e.CampaignID, e.UserID}] = cloneEnrollment(e)
	return nil
}

func (s *MemoryEnrollmentStore) ConditionalCommit(e *campaign.Enrollment, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNextCommits > 0 {
		s.FailNextCommits--
		return ErrConflict
	}
	key := enrollKey{e.CampaignID, e.UserID}
	cur, ok := s.records[key]
	if !ok {
		return ErrNotFound
	}
	if cur.Version != expectedVersion {
		return ErrConflict
	}
	e.Version = expectedVersion + 1
	s.records[key] = cloneEnrollment(e)
	return nil
}

type MemoryStreakStore struct {
	mu      sync.Mutex
	seq     uint
	streaks []*campaign.UserStreak

	Milestones []campaign.StreakMilestone

	FailNextCommits int
}

func NewMemoryStreakStore() *MemoryStreakStore {
	return &MemoryStreakStore{}
}

func cloneStreak(s *campaign.UserStreak) *campaign.UserStreak {
	cp := *s
	cp.ActiveDates = append(datatypes.JSONSlice[string](nil), s.ActiveDates...)
	cp.CompletedCampaignIDs = append(datatypes.JSONSlice[uint](nil), s.CompletedCampaignIDs...)
	if s.EndDate != nil {
		end := *s.EndDate
		cp.EndDate = &end
	}
	return &cp
}

func (s *MemoryStreakStore) Active(userID uint) (*campaign.UserStreak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.streaks {
		if st.UserID == userID && st.Status == campaign.StreakActive {
			return cloneStreak(st), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStreakStore) History(userID uint) ([]campaign.UserStreak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []campaign.UserStreak
	for _, st := range s.streaks {
		if st.UserID == userID && st.Status != campaign.StreakActive {
			out = append(out, *cloneStreak(st))
		}
	}
	return out, nil
}

func (s *MemoryStreakStore) Create(st *campaign.UserStreak) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.Status == campaign.StreakActive {
		for _, cur := range s.streaks {
			if cur.UserID == st.UserID && cur.Status == campaign.StreakActive {
				return ErrConflict
			}
		}
	}
	s.seq++
	st.ID = s.seq
	st.Version = 1
	s.streaks = append(s.streaks, cloneStreak(st))
	return nil
}

func (s *MemoryStreakStore) ConditionalCommit(st *campaign.UserStreak, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNextCommits > 0 {
		s.FailNextCommits--
		return ErrConflict
	}
	for i, cur := range s.streaks {
		if cur.ID == st.ID {
			if cur.Version != expectedVersion {
				return ErrConflict
			}
			st.Version = expectedVersion + 1
			s.streaks[i] = cloneStreak(st)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStreakStore) LogMilestones(events []campaign.StreakMilestone) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Milestones = append(s.Milestones, events...)
	return nil
}

// MemoryDirectory serves fixed module counts and question targets.
type MemoryDirectory struct {
	mu      sync.Mutex
	counts  map[uint]int
	targets map[uint]map[string]int
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		counts:  make(map[uint]int),
		targets: make(map[uint]map[string]int),
	}
}

func (d *MemoryDirectory) SetModuleCount(campaignID uint, count int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.counts[campaignID] = count
}

func (d *MemoryDirectory) SetModuleTarget(campaignID uint, moduleID string, target int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.targets[campaignID] == nil {
		d.targets[campaignID] = make(map[string]int)
	}
	d.targets[campaignID][moduleID] = target
}

func (d *MemoryDirectory) ModuleCount(campaignID uint) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	count, ok := d.counts[campaignID]
	if !ok {
		return 0, ErrNotFound
	}
	return count, nil
}

func (d *MemoryDirectory) ModuleTarget(campaignID uint, moduleID string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if m, ok := d.targets[campaignID]; ok {
		if target, ok := m[moduleID]; ok {
			return target, nil
		}
	}
	return 0, ErrNotFound
}

// FakeClock pins Now and Today for tests.
type FakeClock struct {
	Time time.Time
	Date string
}

func (c *FakeClock) Now() time.Time {
	return c.Time
}

func (c *FakeClock) Today() string {
	return c.Date
}
