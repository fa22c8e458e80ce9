package tracking

import (
	"sort"
	"testing"
	"time"

	"trail-pass/models/badge"
	"trail-pass/models/pass"
	"trail-pass/models/stage"
	"trail-pass/models/track"
	trackingTypes "trail-pass/types/tracking"

	"github.com/stretchr/testify/require"
)

type trackKey struct {
	userID uint
	passID uint
}

type fakeStore struct {
	passes  map[uint]*pass.Pass
	stages  map[uint]stage.Stage
	tracks  map[trackKey]*track.TrailTrack
	history []track.TrailTrackHistory
	badges  map[uint]*badge.Badge
	awards  []badge.AwardedBadge

	nextTrackID uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		passes: map[uint]*pass.Pass{},
		stages: map[uint]stage.Stage{},
		tracks: map[trackKey]*track.TrailTrack{},
		badges: map[uint]*badge.Badge{},
	}
}

func (f *fakeStore) GetPass(passID uint) (*pass.Pass, error) {
	p, ok := f.passes[passID]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Stage = f.stages[p.StageID]
	return &cp, nil
}

func (f *fakeStore) GetPassForUpdate(passID uint) (*pass.Pass, error) {
	p, ok := f.passes[passID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ListOrderPasses(orderID, userID uint) ([]pass.Pass, error) {
	var out []pass.Pass
	for _, p := range f.passes {
		if p.OrderID == orderID && p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) SetPassExpiry(passID uint, expiredAt time.Time) error {
	at := expiredAt
	f.passes[passID].ExpiredAt = &at
	return nil
}

func (f *fakeStore) GetTrack(userID, passID uint) (*track.TrailTrack, error) {
	t, ok := f.tracks[trackKey{userID, passID}]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) GetTrackForUpdate(userID, passID uint) (*track.TrailTrack, error) {
	return f.GetTrack(userID, passID)
}

func (f *fakeStore) SaveTrack(t *track.TrailTrack) error {
	if t.ID == 0 {
		f.nextTrackID++
		t.ID = f.nextTrackID
	}
	cp := *t
	f.tracks[trackKey{t.UserID, t.PassID}] = &cp
	return nil
}

func (f *fakeStore) AppendHistory(h *track.TrailTrackHistory) error {
	f.history = append(f.history, *h)
	return nil
}

func (f *fakeStore) DemoteActiveTracks(userID, exceptPassID uint) error {
	for key, t := range f.tracks {
		if key.userID == userID && key.passID != exceptPassID && t.IsActiveTrack {
			t.IsActiveTrack = false
		}
	}
	return nil
}

func (f *fakeStore) FindOngoingTrack(userID uint, at time.Time) (*track.TrailTrack, error) {
	for key, t := range f.tracks {
		if key.userID != userID || !t.IsActiveTrack {
			continue
		}
		p := f.passes[key.passID]
		if p == nil || !p.Activated || p.ReservedFor.After(at) {
			continue
		}
		if p.ExpiredAt == nil || !p.ExpiredAt.After(at) {
			continue
		}
		cp := *t
		cp.Pass = *p
		cp.Pass.Stage = f.stages[p.StageID]
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) FindBadge(stageID uint) (*badge.Badge, error) {
	b, ok := f.badges[stageID]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) CreateAward(a *badge.AwardedBadge) error {
	f.awards = append(f.awards, *a)
	return nil
}

func (f *fakeStore) InTransaction(fn func(Store) error) error {
	return fn(f)
}

func (f *fakeStore) activeTrackCount(userID uint) int {
	n := 0
	for key, t := range f.tracks {
		if key.userID == userID && t.IsActiveTrack {
			n++
		}
	}
	return n
}

const testUserID = uint(7)

var reservationDay = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

// fixture: user 7 holds order 1 with an activated adult pass (1) and a
// not-yet-activated child pass (2), both on stage 3 which has badge 9.
func newFixture() *fakeStore {
	f := newFakeStore()
	f.stages[3] = stage.Stage{
		ID: 3, Number: 1, OpenTime: "08:00:00", CloseTime: "17:00:00",
		Translations: []stage.StageTranslation{{Locale: "en", Name: "Coastal Ridge"}},
	}
	f.passes[1] = &pass.Pass{ID: 1, OrderID: 1, UserID: testUserID, StageID: 3, ReservedFor: reservationDay, Activated: true, Type: "adult"}
	f.passes[2] = &pass.Pass{ID: 2, OrderID: 1, UserID: testUserID, StageID: 3, ReservedFor: reservationDay, Activated: false, Type: "child"}
	f.badges[3] = &badge.Badge{ID: 9, StageID: 3, Name: "Coastal Ridge Finisher"}
	return f
}

func baseUpdate(passID uint) trackingTypes.TrackUpdateRequest {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return trackingTypes.TrackUpdateRequest{
		PassID:           passID,
		AveragePace:      12.5,
		AverageSpeed:     4.8,
		DistanceTraveled: 1.2,
		ElevationGain:    80,
		ElevationLoss:    15,
		Latitude:         7.8731,
		Longitude:        80.7718,
		TotalTime:        1800,
		StartTime:        start,
		Timestamp:        start.Add(30 * time.Minute),
		Completion:       10,
	}
}

func TestUpdateTrack_firstUpdateCreatesActiveTrack(t *testing.T) {
	f := newFixture()
	s := NewService(f, nil)

	resp, err := s.UpdateTrack(testUserID, baseUpdate(1))
	require.NoError(t, err)
	require.Equal(t, uint(1), resp.PassID)
	require.Equal(t, 10.0, resp.Completion)
	require.True(t, resp.IsActiveTrack)
	require.False(t, resp.IsCompleted)

	// 36h validity window opens at the reported start time
	require.NotNil(t, f.passes[1].ExpiredAt)
	require.Equal(t, time.Date(2024, 5, 2, 21, 0, 0, 0, time.UTC), *f.passes[1].ExpiredAt)

	// fan-out keeps the child pass in lockstep but inactive (not activated)
	sibling := f.tracks[trackKey{testUserID, 2}]
	require.NotNil(t, sibling)
	require.Equal(t, 10.0, sibling.Completion)
	require.Equal(t, 1.2, sibling.DistanceTraveled)
	require.False(t, sibling.IsActiveTrack)
	require.NotNil(t, f.passes[2].ExpiredAt)

	// one history row per pass in the fan-out set
	require.Len(t, f.history, 2)
	require.Equal(t, 1, f.activeTrackCount(testUserID))
}

func TestUpdateTrack_completionIsMonotonic(t *testing.T) {
	f := newFixture()
	s := NewService(f, nil)

	_, err := s.UpdateTrack(testUserID, baseUpdate(1))
	require.NoError(t, err)

	regress := baseUpdate(1)
	regress.Completion = 5
	regress.Timestamp = regress.StartTime.Add(time.Hour)

	resp, err := s.UpdateTrack(testUserID, regress)
	require.NoError(t, err)
	require.Equal(t, 10.0, resp.Completion)
	require.Equal(t, 10.0, f.tracks[trackKey{testUserID, 1}].Completion)
}

func TestUpdateTrack_completionFreezesExpiryAndAwardsBadge(t *testing.T) {
	f := newFixture()
	s := NewService(f, nil)

	_, err := s.UpdateTrack(testUserID, baseUpdate(1))
	require.NoError(t, err)

	finish := baseUpdate(1)
	finish.Completion = 100
	finish.IsCompleted = true
	finish.Timestamp = finish.StartTime.Add(5 * time.Hour)

	resp, err := s.UpdateTrack(testUserID, finish)
	require.NoError(t, err)
	require.True(t, resp.IsCompleted)
	require.False(t, resp.IsActiveTrack)
	require.Equal(t, 100.0, resp.Completion)

	// validity window is frozen at the reported instant
	require.Equal(t, finish.Timestamp, *f.passes[1].ExpiredAt)
	require.Equal(t, finish.Timestamp, *f.passes[2].ExpiredAt)

	require.Len(t, f.awards, 1)
	require.Equal(t, uint(9), f.awards[0].BadgeID)
	require.Equal(t, testUserID, f.awards[0].UserID)
	require.Equal(t, uint(3), f.awards[0].StageID)
	require.Equal(t, uint(1), f.awards[0].PassID)

	require.Equal(t, 0, f.activeTrackCount(testUserID))
}

func TestUpdateTrack_completedTrackIsTerminal(t *testing.T) {
	f := newFixture()
	s := NewService(f, nil)

	_, err := s.UpdateTrack(testUserID, baseUpdate(1))
	require.NoError(t, err)

	finish := baseUpdate(1)
	finish.Completion = 100
	finish.IsCompleted = true
	finish.Timestamp = finish.StartTime.Add(5 * time.Hour)
	_, err = s.UpdateTrack(testUserID, finish)
	require.NoError(t, err)

	historyBefore := len(f.history)

	// reported at the freeze instant, so it is not stale and hits the guard
	again := baseUpdate(1)
	again.Completion = 100
	again.Timestamp = finish.Timestamp

	_, err = s.UpdateTrack(testUserID, again)
	require.Error(t, err)
	require.True(t, IsValidationError(err))
	require.EqualError(t, err, MsgTrailAlreadyCompleted)
	require.Len(t, f.history, historyBefore)
	require.Len(t, f.awards, 1)
}

func TestUpdateTrack_badgeAwardedOnce(t *testing.T) {
	f := newFixture()
	s := NewService(f, nil)

	// 100% reported without the completed flag: track stays active
	first := baseUpdate(1)
	first.Completion = 100
	resp, err := s.UpdateTrack(testUserID, first)
	require.NoError(t, err)
	require.True(t, resp.IsActiveTrack)
	require.Len(t, f.awards, 1)

	repeat := baseUpdate(1)
	repeat.Completion = 100
	repeat.Timestamp = repeat.StartTime.Add(2 * time.Hour)
	_, err = s.UpdateTrack(testUserID, repeat)
	require.NoError(t, err)
	require.Len(t, f.awards, 1)
}

func TestUpdateTrack_missingBadgeIsNoop(t *testing.T) {
	f := newFixture()
	delete(f.badges, 3)
	s := NewService(f, nil)

	finish := baseUpdate(1)
	finish.Completion = 100
	_, err := s.UpdateTrack(testUserID, finish)
	require.NoError(t, err)
	require.Empty(t, f.awards)
}

func TestUpdateTrack_siblingPassSwitchDemotesActiveTrack(t *testing.T) {
	f := newFixture()
	// second order for the same user, also activated
	f.passes[5] = &pass.Pass{ID: 5, OrderID: 2, UserID: testUserID, StageID: 3, ReservedFor: reservationDay, Activated: true, Type: "adult"}
	s := NewService(f, nil)

	_, err := s.UpdateTrack(testUserID, baseUpdate(1))
	require.NoError(t, err)
	require.True(t, f.tracks[trackKey{testUserID, 1}].IsActiveTrack)

	switched := baseUpdate(5)
	switched.Timestamp = switched.StartTime.Add(time.Hour)
	resp, err := s.UpdateTrack(testUserID, switched)
	require.NoError(t, err)
	require.True(t, resp.IsActiveTrack)

	require.False(t, f.tracks[trackKey{testUserID, 1}].IsActiveTrack)
	require.True(t, f.tracks[trackKey{testUserID, 5}].IsActiveTrack)
	require.Equal(t, 1, f.activeTrackCount(testUserID))
}

func TestUpdateTrack_staleWithoutPriorWritesNothing(t *testing.T) {
	f := newFixture()
	stored := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.passes[1].ExpiredAt = &stored
	s := NewService(f, nil)

	// no prior track, so the effective deadline is startTime + 36h
	late := baseUpdate(1)
	late.Timestamp = late.StartTime.Add(ValidityHours*time.Hour + time.Minute)

	_, err := s.UpdateTrack(testUserID, late)
	require.Error(t, err)
	require.True(t, IsValidationError(err))
	require.EqualError(t, err, MsgTrackingDataNotValid)

	require.Empty(t, f.tracks)
	require.Empty(t, f.history)
	require.Equal(t, stored, *f.passes[1].ExpiredAt)
}

func TestUpdateTrack_staleWithPriorDemotesAndRejects(t *testing.T) {
	f := newFixture()
	s := NewService(f, nil)

	_, err := s.UpdateTrack(testUserID, baseUpdate(1))
	require.NoError(t, err)
	historyBefore := len(f.history)

	late := baseUpdate(1)
	late.Completion = 50
	late.Timestamp = late.StartTime.Add(ValidityHours*time.Hour + time.Minute)

	_, err = s.UpdateTrack(testUserID, late)
	require.Error(t, err)
	require.True(t, IsValidationError(err))
	require.EqualError(t, err, MsgTrackingDataNotValid)

	// the superseded row is demoted even though the update was rejected
	prev := f.tracks[trackKey{testUserID, 1}]
	require.False(t, prev.IsActiveTrack)
	require.Equal(t, 10.0, prev.Completion)
	require.Len(t, f.history, historyBefore)
}

func TestUpdateTrack_startTimeOutsideWindow(t *testing.T) {
	f := newFixture()
	s := NewService(f, nil)

	early := baseUpdate(1)
	early.StartTime = time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)

	_, err := s.UpdateTrack(testUserID, early)
	require.Error(t, err)
	require.True(t, IsValidationError(err))
	require.EqualError(t, err, MsgStartTimeOutsideWindow)
	require.Empty(t, f.tracks)
}

func TestUpdateTrack_ineligiblePasses(t *testing.T) {
	f := newFixture()
	s := NewService(f, nil)

	_, err := s.UpdateTrack(testUserID, baseUpdate(99))
	require.True(t, IsValidationError(err))
	require.EqualError(t, err, MsgPassNotFound)

	_, err = s.UpdateTrack(uint(8), baseUpdate(1))
	require.True(t, IsValidationError(err))
	require.EqualError(t, err, MsgPassNotOwned)

	_, err = s.UpdateTrack(testUserID, baseUpdate(2))
	require.True(t, IsValidationError(err))
	require.EqualError(t, err, MsgPassNotActivated)

	f.passes[1].IsCancelled = true
	_, err = s.UpdateTrack(testUserID, baseUpdate(1))
	require.True(t, IsValidationError(err))
	require.EqualError(t, err, MsgPassCancelled)
}

func TestGetOngoingTrack(t *testing.T) {
	f := newFixture()
	s := NewService(f, nil)

	// the read path filters on wall-clock validity, so anchor the fixture to now
	nowish := time.Now().UTC()
	expiry := nowish.Add(12 * time.Hour)
	f.passes[1].ReservedFor = nowish.Add(-6 * time.Hour)
	f.passes[1].ExpiredAt = &expiry
	f.tracks[trackKey{testUserID, 1}] = &track.TrailTrack{
		ID: 1, UserID: testUserID, PassID: 1,
		Completion: 42, IsActiveTrack: true,
		StartTime: nowish.Add(-3 * time.Hour), Timestamp: nowish.Add(-time.Minute),
	}

	resp, err := s.GetOngoingTrack(testUserID)
	require.NoError(t, err)
	require.Equal(t, 42.0, resp.Completion)
	require.NotNil(t, resp.Stage)
	require.Equal(t, "Coastal Ridge", resp.Stage.Translations[0].Name)
}

func TestGetOngoingTrack_noneActive(t *testing.T) {
	f := newFixture()
	s := NewService(f, nil)

	_, err := s.GetOngoingTrack(testUserID)
	require.Error(t, err)
	require.True(t, IsValidationError(err))
	require.EqualError(t, err, MsgNoOngoingTrail)
}

func TestGetOngoingTrack_expiredPassIsNotOngoing(t *testing.T) {
	f := newFixture()
	s := NewService(f, nil)

	nowish := time.Now().UTC()
	expiry := nowish.Add(-time.Hour)
	f.passes[1].ReservedFor = nowish.Add(-40 * time.Hour)
	f.passes[1].ExpiredAt = &expiry
	f.tracks[trackKey{testUserID, 1}] = &track.TrailTrack{
		ID: 1, UserID: testUserID, PassID: 1, Completion: 90, IsActiveTrack: true,
	}

	_, err := s.GetOngoingTrack(testUserID)
	require.Error(t, err)
	require.EqualError(t, err, MsgNoOngoingTrail)
}
