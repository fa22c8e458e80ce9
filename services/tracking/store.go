package tracking

import (
	"errors"
	"time"

	"trail-pass/models/badge"
	"trail-pass/models/pass"
	"trail-pass/models/track"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence boundary of the tracking service. Lookup methods
// return (nil, nil) when no row exists. Implementations must make
// InTransaction atomic: every write issued through the Store it passes to fn
// commits or rolls back as one unit.
type Store interface {
	GetPass(passID uint) (*pass.Pass, error)
	GetPassForUpdate(passID uint) (*pass.Pass, error)
	ListOrderPasses(orderID, userID uint) ([]pass.Pass, error)
	SetPassExpiry(passID uint, expiredAt time.Time) error

	GetTrack(userID, passID uint) (*track.TrailTrack, error)
	GetTrackForUpdate(userID, passID uint) (*track.TrailTrack, error)
	SaveTrack(t *track.TrailTrack) error
	AppendHistory(h *track.TrailTrackHistory) error
	DemoteActiveTracks(userID, exceptPassID uint) error
	FindOngoingTrack(userID uint, at time.Time) (*track.TrailTrack, error)

	FindBadge(stageID uint) (*badge.Badge, error)
	CreateAward(a *badge.AwardedBadge) error

	InTransaction(fn func(Store) error) error
}

// GormStore implements Store on top of a gorm connection or transaction handle.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new gorm-backed store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetPass(passID uint) (*pass.Pass, error) {
	var p pass.Pass
	err := s.db.Preload("Stage").Preload("Stage.Translations").Preload("Order").First(&p, passID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPassForUpdate reloads the pass under a row lock so concurrent updates for
// the same pass serialize on it, even before any track row exists.
func (s *GormStore) GetPassForUpdate(passID uint) (*pass.Pass, error) {
	var p pass.Pass
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, passID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) ListOrderPasses(orderID, userID uint) ([]pass.Pass, error) {
	var passes []pass.Pass
	err := s.db.Where("order_id = ? AND user_id = ?", orderID, userID).
		Order("id").Find(&passes).Error
	if err != nil {
		return nil, err
	}
	return passes, nil
}

func (s *GormStore) SetPassExpiry(passID uint, expiredAt time.Time) error {
	return s.db.Model(&pass.Pass{}).Where("id = ?", passID).
		Update("expired_at", expiredAt).Error
}

func (s *GormStore) GetTrack(userID, passID uint) (*track.TrailTrack, error) {
	var t track.TrailTrack
	err := s.db.Where("user_id = ? AND pass_id = ?", userID, passID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) GetTrackForUpdate(userID, passID uint) (*track.TrailTrack, error) {
	var t track.TrailTrack
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND pass_id = ?", userID, passID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) SaveTrack(t *track.TrailTrack) error {
	return s.db.Save(t).Error
}

func (s *GormStore) AppendHistory(h *track.TrailTrackHistory) error {
	return s.db.Create(h).Error
}

// DemoteActiveTracks flips is_active_track off for every other pass of the
// user without touching any other field.
func (s *GormStore) DemoteActiveTracks(userID, exceptPassID uint) error {
	return s.db.Model(&track.TrailTrack{}).
		Where("user_id = ? AND pass_id <> ? AND is_active_track = ?", userID, exceptPassID, true).
		Update("is_active_track", false).Error
}

// FindOngoingTrack returns the user's active track whose pass is activated,
// whose reservation day has started and whose validity window is still open.
func (s *GormStore) FindOngoingTrack(userID uint, at time.Time) (*track.TrailTrack, error) {
	var t track.TrailTrack
	err := s.db.
		Joins("JOIN passes ON passes.id = trail_tracks.pass_id").
		Where("trail_tracks.user_id = ? AND trail_tracks.is_active_track = ?", userID, true).
		Where("passes.activated = ?", true).
		Where("passes.reserved_for <= ? AND passes.expired_at > ?", at, at).
		Preload("Pass").Preload("Pass.Stage").Preload("Pass.Stage.Translations").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) FindBadge(stageID uint) (*badge.Badge, error) {
	var b badge.Badge
	err := s.db.Where("stage_id = ?", stageID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *GormStore) CreateAward(a *badge.AwardedBadge) error {
	return s.db.Create(a).Error
}

func (s *GormStore) InTransaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
