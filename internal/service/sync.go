// Package service orchestrates syncing provider data into the local store
// and answers the read queries the TUI needs.
package service

import (
	"context"
	"fmt"
	"time"

	"trainlog/internal/store"
	"trainlog/internal/strava"
	"trainlog/internal/whoop"
)

// SyncService pulls activities from Strava and recoveries from Whoop into
// the local store. The Whoop client is optional.
type SyncService struct {
	strava *strava.Client
	whoop  *whoop.Client
	store  *store.DB
}

// NewSyncService creates a sync service. Pass a nil whoopClient when Whoop
// isn't connected; the recovery phase is skipped.
func NewSyncService(stravaClient *strava.Client, whoopClient *whoop.Client, db *store.DB) *SyncService {
	return &SyncService{
		strava: stravaClient,
		whoop:  whoopClient,
		store:  db,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase     string // "activities" or "recoveries"
	Total     int
	Completed int
	Error     error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	ActivitiesFetched int
	ActivitiesStored  int
	RecoveriesFetched int
	RecoveriesStored  int
	Errors            []error
}

// SyncAll performs a full sync: activities, then recoveries
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	if err := s.syncActivities(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing activities: %w", err)
	}

	if s.whoop != nil {
		if err := s.syncRecoveries(ctx, progress, result); err != nil {
			return result, fmt.Errorf("syncing recoveries: %w", err)
		}
	}

	return result, nil
}

// syncActivities fetches new activities from Strava and stores them
func (s *SyncService) syncActivities(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	lastSyncStr, _ := s.store.GetSyncState(store.SyncKeyLastActivitySync)
	var after time.Time
	if lastSyncStr != "" {
		after, _ = time.Parse(time.RFC3339, lastSyncStr)
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "activities"}
	}

	page := 1

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		activities, err := s.strava.GetActivities(ctx, after, page, SyncPerPage)
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", page, err)
		}

		if len(activities) == 0 {
			break
		}

		result.ActivitiesFetched += len(activities)

		for _, a := range activities {
			if err := s.store.UpsertActivity(convertActivity(a)); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("storing activity %d: %w", a.ID, err))
				continue
			}
			result.ActivitiesStored++
		}

		if progress != nil {
			progress <- SyncProgress{
				Phase:     "activities",
				Total:     result.ActivitiesFetched,
				Completed: result.ActivitiesStored,
			}
		}

		if len(activities) < SyncPerPage {
			break // last page
		}

		page++
	}

	s.store.SetSyncState(store.SyncKeyLastActivitySync, time.Now().Format(time.RFC3339))

	return nil
}

// syncRecoveries fetches new recovery records from Whoop and stores them
func (s *SyncService) syncRecoveries(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	lastSyncStr, _ := s.store.GetSyncState(store.SyncKeyLastRecoverySync)
	var start time.Time
	if lastSyncStr != "" {
		start, _ = time.Parse(time.RFC3339, lastSyncStr)
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "recoveries"}
	}

	recoveries, err := s.whoop.GetAllRecoveries(ctx, start, func(fetched int) {
		if progress != nil {
			progress <- SyncProgress{Phase: "recoveries", Total: fetched, Completed: result.RecoveriesStored}
		}
	})
	if err != nil {
		return err
	}

	result.RecoveriesFetched = len(recoveries)

	for _, r := range recoveries {
		if err := s.store.UpsertRecovery(convertRecovery(r)); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing recovery %d: %w", r.CycleID, err))
			continue
		}
		result.RecoveriesStored++
	}

	if progress != nil {
		progress <- SyncProgress{
			Phase:     "recoveries",
			Total:     result.RecoveriesFetched,
			Completed: result.RecoveriesStored,
		}
	}

	s.store.SetSyncState(store.SyncKeyLastRecoverySync, time.Now().Format(time.RFC3339))

	return nil
}

// RateLimitStatus returns the current Strava rate limit status
func (s *SyncService) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return s.strava.RateLimitStatus()
}

// convertActivity converts a Strava API activity to a store activity
func convertActivity(a strava.Activity) *store.Activity {
	activity := &store.Activity{
		ID:          a.ID,
		AthleteID:   a.Athlete.ID,
		Name:        a.Name,
		Type:        a.Type,
		StartDate:   a.StartDate,
		Timezone:    a.Timezone,
		Distance:    a.Distance,
		MovingTime:  a.MovingTime,
		ElapsedTime: a.ElapsedTime,
	}

	// Newer uploads carry the richer sport_type; prefer it when present
	if a.SportType != "" {
		activity.Type = a.SportType
	}

	if a.AverageHeartrate > 0 {
		hr := a.AverageHeartrate
		activity.AverageHeartrate = &hr
	}
	if a.AverageWatts > 0 {
		watts := a.AverageWatts
		activity.AverageWatts = &watts
	}
	if a.Calories > 0 {
		cal := a.Calories
		activity.Calories = &cal
	}
	if lat, lng, ok := a.StartCoords(); ok {
		activity.StartLat = &lat
		activity.StartLng = &lng
	}
	if a.Map.SummaryPolyline != "" {
		poly := a.Map.SummaryPolyline
		activity.SummaryPolyline = &poly
	}

	return activity
}

// convertRecovery converts a Whoop API recovery to a store recovery.
// Unscored records are kept with nil metrics so re-syncs can fill them in.
func convertRecovery(r whoop.Recovery) *store.Recovery {
	recovery := &store.Recovery{
		CycleID:  r.CycleID,
		ScoredAt: r.CreatedAt,
	}

	if r.Scored() {
		score := r.Score.RecoveryScore
		rhr := r.Score.RestingHeartRate
		hrv := r.Score.HRVRmssdMilli
		recovery.RecoveryScore = &score
		recovery.RestingHeartRate = &rhr
		recovery.HRV = &hrv
	}

	return recovery
}
