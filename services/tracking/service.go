package tracking

import (
	"time"

	"trail-pass/models/badge"
	"trail-pass/models/pass"
	"trail-pass/models/stage"
	"trail-pass/models/track"
	trackingTypes "trail-pass/types/tracking"
)

// Service implements the trail-progress tracking state machine: window and
// eligibility validation, stale-data detection, monotonic completion merging,
// and the atomic write fan-out across an order's passes.
type Service struct {
	store     Store
	telemetry Telemetry
}

// NewService creates a new tracking service
func NewService(store Store, telemetry Telemetry) *Service {
	return &Service{store: store, telemetry: telemetry}
}

// UpdateTrack applies one reported progress update for the given pass.
//
// The write path runs in a single database transaction with the pass and
// track rows locked, so the previous-state read, sibling demotion, the
// fan-out across the order's passes, the history append, the pass-expiry
// mutation and the badge award commit or roll back as one unit.
func (s *Service) UpdateTrack(userID uint, req trackingTypes.TrackUpdateRequest) (*trackingTypes.TrackResponse, error) {
	p, err := s.store.GetPass(req.PassID)
	if err != nil {
		return nil, s.capture(err)
	}
	if p == nil {
		return nil, NewValidationError(MsgPassNotFound)
	}

	if err := ValidateTimeWindow(p.Stage, p.ReservedFor, req.StartTime); err != nil {
		return nil, s.capture(err)
	}
	if err := CheckPassEligibility(*p, userID); err != nil {
		return nil, err
	}

	var current *track.TrailTrack
	var staleErr error
	err = s.store.InTransaction(func(tx Store) error {
		// Re-read the pass under a row lock: concurrent submissions for the
		// same pass serialize here, including two racing first updates.
		locked, err := tx.GetPassForUpdate(p.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return NewValidationError(MsgPassNotFound)
		}

		prev, err := tx.GetTrackForUpdate(userID, locked.ID)
		if err != nil {
			return err
		}

		if IsStale(locked.ExpiredAt, prev != nil, req.StartTime, req.Timestamp) {
			// The superseded row is demoted even though the update is
			// rejected; the transaction commits the demotion and the
			// validation error is returned after commit. A stale update with
			// no prior record writes nothing at all.
			if prev != nil && prev.IsActiveTrack {
				prev.IsActiveTrack = false
				if err := tx.SaveTrack(prev); err != nil {
					return err
				}
			}
			staleErr = NewValidationError(MsgTrackingDataNotValid)
			return nil
		}

		completion, err := MergeCompletion(prev, req.Completion)
		if err != nil {
			return err
		}

		// Any active track on another pass steps down first; the fan-out
		// below rewrites the flags for this order's own passes.
		if err := tx.DemoteActiveTracks(userID, locked.ID); err != nil {
			return err
		}

		siblings, err := tx.ListOrderPasses(locked.OrderID, userID)
		if err != nil {
			return err
		}

		for i := range siblings {
			sib := siblings[i]

			var sibPrev *track.TrailTrack
			if sib.ID == locked.ID {
				sibPrev = prev
			} else {
				sibPrev, err = tx.GetTrack(userID, sib.ID)
				if err != nil {
					return err
				}
			}

			rec, err := s.writeTrack(tx, sib, sibPrev, req, completion)
			if err != nil {
				return err
			}
			if sib.ID == locked.ID {
				current = rec
			}
		}

		if CrossedCompletionThreshold(prev, completion) {
			b, err := tx.FindBadge(locked.StageID)
			if err != nil {
				return err
			}
			if b != nil {
				award := badge.AwardedBadge{
					BadgeID: b.ID,
					UserID:  userID,
					StageID: locked.StageID,
					PassID:  locked.ID,
				}
				if err := tx.CreateAward(&award); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, s.capture(err)
	}
	if staleErr != nil {
		return nil, staleErr
	}

	return trackResponse(current, nil), nil
}

// writeTrack upserts the current-state row for one pass of the fan-out set,
// appends the matching history row and applies the pass-expiry mutation.
func (s *Service) writeTrack(tx Store, sib pass.Pass, sibPrev *track.TrailTrack, req trackingTypes.TrackUpdateRequest, completion float64) (*track.TrailTrack, error) {
	rec := sibPrev
	if rec == nil {
		rec = &track.TrailTrack{UserID: sib.UserID, PassID: sib.ID}
	}
	rec.AveragePace = req.AveragePace
	rec.AverageSpeed = req.AverageSpeed
	rec.DistanceTraveled = req.DistanceTraveled
	rec.ElevationGain = req.ElevationGain
	rec.ElevationLoss = req.ElevationLoss
	rec.Latitude = req.Latitude
	rec.Longitude = req.Longitude
	rec.TotalTime = req.TotalTime
	rec.StartTime = req.StartTime
	rec.Completion = completion
	rec.IsCompleted = req.IsCompleted
	rec.IsActiveTrack = !req.IsCompleted && sib.Activated
	rec.Timestamp = req.Timestamp

	if err := tx.SaveTrack(rec); err != nil {
		return nil, err
	}

	history := track.TrailTrackHistory{
		UserID:           rec.UserID,
		PassID:           rec.PassID,
		AveragePace:      rec.AveragePace,
		AverageSpeed:     rec.AverageSpeed,
		DistanceTraveled: rec.DistanceTraveled,
		ElevationGain:    rec.ElevationGain,
		ElevationLoss:    rec.ElevationLoss,
		Latitude:         rec.Latitude,
		Longitude:        rec.Longitude,
		TotalTime:        rec.TotalTime,
		StartTime:        rec.StartTime,
		Completion:       rec.Completion,
		IsCompleted:      rec.IsCompleted,
		Timestamp:        rec.Timestamp,
	}
	if err := tx.AppendHistory(&history); err != nil {
		return nil, err
	}

	// The very first accepted update opens the validity window; a manual
	// completion freezes it at the reported instant so later stale updates
	// cannot resurrect the trail.
	if sibPrev == nil {
		if err := tx.SetPassExpiry(sib.ID, InitialExpiry(req.StartTime)); err != nil {
			return nil, err
		}
	}
	if req.IsCompleted {
		if err := tx.SetPassExpiry(sib.ID, req.Timestamp); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// GetOngoingTrack returns the track the user is currently engaged in, with the
// stage folded into its external representation.
func (s *Service) GetOngoingTrack(userID uint) (*trackingTypes.TrackResponse, error) {
	t, err := s.store.FindOngoingTrack(userID, time.Now())
	if err != nil {
		return nil, s.capture(err)
	}
	if t == nil {
		return nil, NewValidationError(MsgNoOngoingTrail)
	}
	return trackResponse(t, stageResponse(t.Pass.Stage)), nil
}

// capture reports system failures to telemetry; validation errors pass through.
func (s *Service) capture(err error) error {
	if err != nil && !IsValidationError(err) && s.telemetry != nil {
		s.telemetry.CaptureException(err)
	}
	return err
}

func trackResponse(t *track.TrailTrack, st *trackingTypes.StageResponse) *trackingTypes.TrackResponse {
	return &trackingTypes.TrackResponse{
		ID:               t.ID,
		PassID:           t.PassID,
		AveragePace:      t.AveragePace,
		AverageSpeed:     t.AverageSpeed,
		DistanceTraveled: t.DistanceTraveled,
		ElevationGain:    t.ElevationGain,
		ElevationLoss:    t.ElevationLoss,
		Latitude:         t.Latitude,
		Longitude:        t.Longitude,
		TotalTime:        t.TotalTime,
		StartTime:        t.StartTime,
		Completion:       t.Completion,
		IsCompleted:      t.IsCompleted,
		IsActiveTrack:    t.IsActiveTrack,
		Timestamp:        t.Timestamp,
		Stage:            st,
	}
}

func stageResponse(st stage.Stage) *trackingTypes.StageResponse {
	translations := make([]trackingTypes.StageTranslation, 0, len(st.Translations))
	for _, tr := range st.Translations {
		translations = append(translations, trackingTypes.StageTranslation{
			Locale:      tr.Locale,
			Name:        tr.Name,
			Description: tr.Description,
		})
	}
	return &trackingTypes.StageResponse{
		ID:           st.ID,
		Number:       st.Number,
		OpenTime:     st.OpenTime,
		CloseTime:    st.CloseTime,
		DistanceKm:   st.DistanceKm,
		Elevation:    st.Elevation,
		Difficulty:   st.Difficulty,
		Translations: translations,
	}
}
