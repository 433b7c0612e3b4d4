package streak

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/models/campaign"
	"lms/store"
)

func newTestEngine(date string) (*Engine, *store.MemoryStreakStore, *store.FakeClock) {
	streaks := store.NewMemoryStreakStore()
	clock := &store.FakeClock{
		Time: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
		Date: date,
	}
	return NewEngine(streaks, clock), streaks, clock
}

func TestFirstCompletionStartsStreak(t *testing.T) {
	en, _, _ := newTestEngine("2024-01-05")

	res, err := en.RecordCompletion(10, 1, 100)
	require.NoError(t, err)
	assert.True(t, res.IsNewStreak)
	assert.False(t, res.StreakBroken)
	assert.Empty(t, res.MilestonesAchieved)

	s := res.Streak
	assert.Equal(t, 1, s.Length)
	assert.Equal(t, "2024-01-05", s.StartDate)
	require.NotNil(t, s.EndDate)
	assert.Equal(t, "2024-01-05", *s.EndDate, "a one-day streak starts and ends today")
	assert.Equal(t, []string{"2024-01-05"}, []string(s.ActiveDates))
	assert.Equal(t, []uint{100}, []uint(s.CompletedCampaignIDs))
	assert.Equal(t, campaign.StreakActive, s.Status)
}

func TestSameDayCompletionIsIdempotentOnLength(t *testing.T) {
	en, _, _ := newTestEngine("2024-01-05")

	_, err := en.RecordCompletion(10, 1, 100)
	require.NoError(t, err)

	res, err := en.RecordCompletion(10, 1, 200)
	require.NoError(t, err)
	assert.False(t, res.IsNewStreak)
	assert.Equal(t, 1, res.Streak.Length)
	assert.Equal(t, []string{"2024-01-05"}, []string(res.Streak.ActiveDates))
	assert.ElementsMatch(t, []uint{100, 200}, []uint(res.Streak.CompletedCampaignIDs))

	// exact redelivery changes nothing at all
	res, err = en.RecordCompletion(10, 1, 200)
	require.NoError(t, err)
	assert.Len(t, res.Streak.CompletedCampaignIDs, 2)
}

func TestConsecutiveDayExtendsStreak(t *testing.T) {
	en, streaks, clock := newTestEngine("2024-01-05")

	seed := &campaign.UserStreak{
		UserID: 10, OrganizationID: 1,
		StartDate: "2024-01-02", Length: 4, Status: campaign.StreakActive,
		ActiveDates:          []string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"},
		CompletedCampaignIDs: []uint{100},
	}
	require.NoError(t, streaks.Create(seed))

	clock.Date = "2024-01-06"
	res, err := en.RecordCompletion(10, 1, 200)
	require.NoError(t, err)

	assert.False(t, res.IsNewStreak)
	assert.False(t, res.StreakBroken)
	assert.Equal(t, 5, res.Streak.Length)
	assert.Equal(t, "2024-01-06", res.Streak.LastActiveDate())
	require.NotNil(t, res.Streak.EndDate)
	assert.Equal(t, "2024-01-06", *res.Streak.EndDate)
	assert.ElementsMatch(t, []uint{100, 200}, []uint(res.Streak.CompletedCampaignIDs))
}

func TestGapBreaksStreakAndStartsFresh(t *testing.T) {
	en, streaks, clock := newTestEngine("2024-01-05")

	dates := make([]string, 10)
	for i := range dates {
		dates[i] = time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format(store.ISODate)
	}
	seed := &campaign.UserStreak{
		UserID: 10, OrganizationID: 1,
		StartDate: dates[0], Length: 10, Status: campaign.StreakActive,
		ActiveDates:          dates,
		CompletedCampaignIDs: []uint{100},
	}
	require.NoError(t, streaks.Create(seed))

	// 3-day gap after 2024-01-10
	clock.Date = "2024-01-14"
	res, err := en.RecordCompletion(10, 1, 300)
	require.NoError(t, err)

	assert.True(t, res.IsNewStreak)
	assert.True(t, res.StreakBroken)
	assert.Equal(t, 1, res.Streak.Length)
	assert.Equal(t, "2024-01-14", res.Streak.StartDate)

	history, err := streaks.History(10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	broken := history[0]
	assert.Equal(t, campaign.StreakBroken, broken.Status)
	require.NotNil(t, broken.EndDate)
	assert.Equal(t, "2024-01-10", *broken.EndDate)
	assert.True(t, broken.LongestInHistory, "10 days was the user's maximum")
}

func TestLongestInHistoryIsStrict(t *testing.T) {
	en, streaks, _ := newTestEngine("2024-02-01")

	// an older broken streak of equal length
	end := "2023-12-05"
	require.NoError(t, streaks.Create(&campaign.UserStreak{
		UserID: 10, OrganizationID: 1,
		StartDate: "2023-12-01", EndDate: &end, Length: 5,
		Status:      campaign.StreakBroken,
		ActiveDates: []string{"2023-12-01", "2023-12-02", "2023-12-03", "2023-12-04", "2023-12-05"},
	}))
	require.NoError(t, streaks.Create(&campaign.UserStreak{
		UserID: 10, OrganizationID: 1,
		StartDate: "2024-01-06", Length: 5, Status: campaign.StreakActive,
		ActiveDates: []string{"2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10"},
	}))

	res, err := en.RecordCompletion(10, 1, 100)
	require.NoError(t, err)
	require.True(t, res.StreakBroken)

	history, err := streaks.History(10)
	require.NoError(t, err)
	for _, s := range history {
		if s.StartDate == "2024-01-06" {
			assert.False(t, s.LongestInHistory, "equal length is not strictly greater")
		}
	}
}

func TestMilestoneCrossing(t *testing.T) {
	cases := []struct {
		name     string
		length   int
		expected []int
	}{
		{"six to seven", 6, []int{7}},
		{"two to three", 2, []int{3}},
		{"seven to eight", 7, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			en, streaks, clock := newTestEngine("2024-03-01")

			dates := make([]string, tc.length)
			for i := range dates {
				dates[i] = time.Date(2024, 2, 29-(tc.length-1)+i, 0, 0, 0, 0, time.UTC).Format(store.ISODate)
			}
			require.NoError(t, streaks.Create(&campaign.UserStreak{
				UserID: 10, OrganizationID: 1,
				StartDate: dates[0], Length: tc.length, Status: campaign.StreakActive,
				ActiveDates: dates,
			}))

			clock.Date = "2024-03-01"
			res, err := en.RecordCompletion(10, 1, 100)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, res.MilestonesAchieved)

			if len(tc.expected) > 0 {
				require.Len(t, streaks.Milestones, 1)
				assert.Equal(t, tc.expected[0], streaks.Milestones[0].Threshold)
				assert.Equal(t, "2024-03-01", streaks.Milestones[0].AchievedOn)
				assert.NotEmpty(t, streaks.Milestones[0].EventID)
			} else {
				assert.Empty(t, streaks.Milestones)
			}
		})
	}
}

func TestCrossedMilestonesFastForward(t *testing.T) {
	assert.Equal(t, []int{3, 7}, crossedMilestones(2, 7))
	assert.Empty(t, crossedMilestones(3, 3))
	assert.Equal(t, []int{365}, crossedMilestones(364, 365))
}

func TestMalformedDateRejectedBeforeAnyRead(t *testing.T) {
	en, _, _ := newTestEngine("2024-01-05")

	_, err := en.RecordCompletionOn(10, 1, 100, "05-01-2024")
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	_, err = en.RecordCompletionOn(10, 1, 100, "")
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestCompletionDatedBeforeLastActivity(t *testing.T) {
	en, streaks, _ := newTestEngine("2024-01-05")

	require.NoError(t, streaks.Create(&campaign.UserStreak{
		UserID: 10, OrganizationID: 1,
		StartDate: "2024-01-05", Length: 1, Status: campaign.StreakActive,
		ActiveDates: []string{"2024-01-05"},
	}))

	_, err := en.RecordCompletionOn(10, 1, 100, "2024-01-03")
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

// gatedStreakStore releases no Active read until a fixed number of concurrent
// readers have all taken their snapshot, so every racer decides to create a
// streak before any create lands.
type gatedStreakStore struct {
	*store.MemoryStreakStore
	mu      sync.Mutex
	pending int
	gate    chan struct{}
}

func (s *gatedStreakStore) Active(userID uint) (*campaign.UserStreak, error) {
	st, err := s.MemoryStreakStore.Active(userID)
	s.mu.Lock()
	if s.pending > 0 {
		s.pending--
		if s.pending == 0 {
			close(s.gate)
		}
	}
	s.mu.Unlock()
	<-s.gate
	return st, err
}

func TestConcurrentFirstCompletionsShareOneStreak(t *testing.T) {
	mem := store.NewMemoryStreakStore()
	gated := &gatedStreakStore{MemoryStreakStore: mem, pending: 2, gate: make(chan struct{})}
	clock := &store.FakeClock{
		Time: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
		Date: "2024-01-05",
	}
	en := NewEngine(gated, clock)

	results := make(chan *Result, 2)
	errs := make(chan error, 2)
	for _, id := range []uint{100, 200} {
		id := id
		go func() {
			res, err := en.RecordCompletion(10, 1, id)
			results <- res
			errs <- err
		}()
	}

	newStreaks := 0
	for i := 0; i < 2; i++ {
		require.NoError(t, <-errs)
		if (<-results).IsNewStreak {
			newStreaks++
		}
	}
	assert.Equal(t, 1, newStreaks, "exactly one caller may start the streak")

	active, err := mem.Active(10)
	require.NoError(t, err)
	assert.Equal(t, 1, active.Length)
	assert.ElementsMatch(t, []uint{100, 200}, []uint(active.CompletedCampaignIDs),
		"the losing create retries and joins the winner's streak")

	history, err := mem.History(10)
	require.NoError(t, err)
	assert.Empty(t, history, "no second streak row exists")
}

func TestSecondActiveStreakIsRejected(t *testing.T) {
	streaks := store.NewMemoryStreakStore()
	require.NoError(t, streaks.Create(&campaign.UserStreak{
		UserID: 10, OrganizationID: 1,
		StartDate: "2024-01-05", Length: 1, Status: campaign.StreakActive,
		ActiveDates: []string{"2024-01-05"},
	}))

	err := streaks.Create(&campaign.UserStreak{
		UserID: 10, OrganizationID: 1,
		StartDate: "2024-01-06", Length: 1, Status: campaign.StreakActive,
		ActiveDates: []string{"2024-01-06"},
	})
	assert.ErrorIs(t, err, store.ErrConflict)

	// other users and non-active rows are unaffected
	assert.NoError(t, streaks.Create(&campaign.UserStreak{
		UserID: 11, OrganizationID: 1,
		StartDate: "2024-01-06", Length: 1, Status: campaign.StreakActive,
		ActiveDates: []string{"2024-01-06"},
	}))
	assert.NoError(t, streaks.Create(&campaign.UserStreak{
		UserID: 10, OrganizationID: 1,
		StartDate: "2023-12-01", Length: 2, Status: campaign.StreakBroken,
		ActiveDates: []string{"2023-11-30", "2023-12-01"},
	}))
}

func TestConflictRetriesThenSurfaces(t *testing.T) {
	en, streaks, _ := newTestEngine("2024-01-05")

	require.NoError(t, streaks.Create(&campaign.UserStreak{
		UserID: 10, OrganizationID: 1,
		StartDate: "2024-01-04", Length: 1, Status: campaign.StreakActive,
		ActiveDates: []string{"2024-01-04"},
	}))

	streaks.FailNextCommits = 1
	res, err := en.RecordCompletion(10, 1, 100)
	require.NoError(t, err, "a single conflict is absorbed by the retry loop")
	assert.Equal(t, 2, res.Streak.Length)

	streaks.FailNextCommits = maxCommitRetries
	_, err = en.RecordCompletionOn(10, 1, 200, "2024-01-06")
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestOverview(t *testing.T) {
	en, streaks, _ := newTestEngine("2024-01-05")

	active, history, err := en.Overview(10)
	require.NoError(t, err)
	assert.Nil(t, active)
	assert.Empty(t, history)

	end := "2023-12-02"
	require.NoError(t, streaks.Create(&campaign.UserStreak{
		UserID: 10, OrganizationID: 1,
		StartDate: "2023-12-01", EndDate: &end, Length: 2, Status: campaign.StreakBroken,
		ActiveDates: []string{"2023-12-01", "2023-12-02"},
	}))
	require.NoError(t, streaks.Create(&campaign.UserStreak{
		UserID: 10, OrganizationID: 1,
		StartDate: "2024-01-05", Length: 1, Status: campaign.StreakActive,
		ActiveDates: []string{"2024-01-05"},
	}))

	active, history, err = en.Overview(10)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, 1, active.Length)
	require.Len(t, history, 1)
	assert.Equal(t, 2, history[0].Length)
}
