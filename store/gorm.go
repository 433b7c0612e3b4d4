package store

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"lms/models/campaign"
)

// GormEnrollmentStore backs EnrollmentStore with postgres. The conditional
// commit is a version-guarded UPDATE; zero rows affected means somebody else
// committed since our read.
type GormEnrollmentStore struct {
	db *gorm.DB
}

func NewGormEnrollmentStore(db *gorm.DB) *GormEnrollmentStore {
	return &GormEnrollmentStore{db: db}
}

func (s *GormEnrollmentStore) Get(campaignID, userID uint) (*campaign.Enrollment, error) {
	var e campaign.Enrollment
	err := s.db.Where("campaign_id = ? AND user_id = ? AND is_deleted = ?", campaignID, userID, false).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *GormEnrollmentStore) Create(e *campaign.Enrollment) error {
	e.Version = 1
	err := s.db.Create(e).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

func (s *GormEnrollmentStore) ConditionalCommit(e *campaign.Enrollment, expectedVersion int64) error {
	e.Version = expectedVersion + 1
	res := s.db.Model(e).
		Where("version = ?", expectedVersion).
		Select("*").Omit("id", "created_at").
		Updates(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		e.Version = expectedVersion
		return ErrConflict
	}
	return nil
}

// GormStreakStore backs StreakStore with postgres.
type GormStreakStore struct {
	db *gorm.DB
}

func NewGormStreakStore(db *gorm.DB) *GormStreakStore {
	return &GormStreakStore{db: db}
}

func (s *GormStreakStore) Active(userID uint) (*campaign.UserStreak, error) {
	var st campaign.UserStreak
	err := s.db.Where("user_id = ? AND status = ? AND is_deleted = ?", userID, campaign.StreakActive, false).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *GormStreakStore) History(userID uint) ([]campaign.UserStreak, error) {
	var streaks []campaign.UserStreak
	err := s.db.Where("user_id = ? AND status <> ? AND is_deleted = ?", userID, campaign.StreakActive, false).
		Order("start_date asc").Find(&streaks).Error
	if err != nil {
		return nil, err
	}
	return streaks, nil
}

// Create inserts a new streak. The partial unique index on ACTIVE streaks
// rejects a second ACTIVE row for the same user; that surfaces as ErrConflict
// so callers re-read and join the streak that won.
func (s *GormStreakStore) Create(st *campaign.UserStreak) error {
	st.Version = 1
	err := s.db.Create(st).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

func (s *GormStreakStore) ConditionalCommit(st *campaign.UserStreak, expectedVersion int64) error {
	st.Version = expectedVersion + 1
	res := s.db.Model(st).
		Where("version = ?", expectedVersion).
		Select("*").Omit("id", "created_at").
		Updates(st)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		st.Version = expectedVersion
		return ErrConflict
	}
	return nil
}

func (s *GormStreakStore) LogMilestones(events []campaign.StreakMilestone) error {
	if len(events) == 0 {
		return nil
	}
	return s.db.Create(&events).Error
}

// GormDirectory resolves campaign definitions from the local campaigns tables.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) ModuleCount(campaignID uint) (int, error) {
	var c campaign.Campaign
	err := d.db.Where("id = ? AND is_deleted = ?", campaignID, false).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	var count int64
	err = d.db.Model(&campaign.CampaignModule{}).
		Where("campaign_id = ? AND is_deleted = ? AND is_published = ?", campaignID, false, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (d *GormDirectory) ModuleTarget(campaignID uint, moduleID string) (int, error) {
	id, err := strconv.ParseUint(moduleID, 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}

	var m campaign.CampaignModule
	err = d.db.Where("id = ? AND campaign_id = ? AND is_deleted = ?", uint(id), campaignID, false).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return m.QuestionTarget, nil
}
