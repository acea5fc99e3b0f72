package service

import (
	"errors"
	"time"

	"trainlog/internal/analysis"
	"trainlog/internal/config"
	"trainlog/internal/routes"
	"trainlog/internal/store"
)

// QueryService provides read-only queries for the TUI
type QueryService struct {
	store   *store.DB
	athlete config.AthleteConfig
}

// NewQueryService creates a query service. Athlete config overrides take
// precedence over wearable data in the fitness estimates.
func NewQueryService(db *store.DB, athlete config.AthleteConfig) *QueryService {
	return &QueryService{store: db, athlete: athlete}
}

// RouteGroup holds the recurring routes for one sport family
type RouteGroup struct {
	Label  string
	Routes []routes.Summary
}

// GetRouteGroups detects recurring routes across the full activity
// history, grouped by sport
func (q *QueryService) GetRouteGroups() ([]RouteGroup, error) {
	activities, err := q.store.ListActivitiesSince(time.Time{})
	if err != nil {
		return nil, err
	}

	cfg := routes.DefaultConfig()
	return []RouteGroup{
		{Label: "Runs", Routes: routes.FindTopRoutes(activities, analysis.RunTypes, RouteTopN, cfg)},
		{Label: "Rides", Routes: routes.FindTopRoutes(activities, analysis.RideTypes, RouteTopN, cfg)},
	}, nil
}

// GetFitnessSummary computes the current fitness assessment
func (q *QueryService) GetFitnessSummary() (analysis.FitnessSummary, error) {
	now := time.Now()
	cfg := analysis.DefaultVO2maxConfig()
	if q.athlete.MaxHR > 0 {
		cfg.AssumedMaxHR = q.athlete.MaxHR
	}

	activities, err := q.store.ListActivitiesSince(now.AddDate(0, 0, -cfg.LookbackDays))
	if err != nil {
		return analysis.FitnessSummary{}, err
	}

	latest, err := q.store.LatestRecovery()
	if err != nil {
		if !errors.Is(err, store.ErrNoRecovery) {
			return analysis.FitnessSummary{}, err
		}
		latest = nil
	}

	// A configured resting HR wins over the wearable's reading; the other
	// recovery metrics still come from the wearable
	if q.athlete.RestingHR > 0 {
		cfg.DefaultRestingHR = q.athlete.RestingHR
		masked := latest
		if latest != nil {
			clone := *latest
			clone.RestingHeartRate = nil
			masked = &clone
		}
		summary := analysis.Summarize(activities, masked, now, cfg)
		rhr := q.athlete.RestingHR
		summary.RestingHR = &rhr
		return summary, nil
	}

	return analysis.Summarize(activities, latest, now, cfg), nil
}

// DashboardData contains everything the dashboard screen shows
type DashboardData struct {
	Fitness analysis.FitnessSummary

	// This week (Monday start)
	WeekActivityCount int
	WeekDistance      float64 // meters
	WeekTime          int     // seconds

	RecentActivities []store.Activity
	TotalActivities  int

	// Weekly volume chart, oldest week first
	WeeklyDistance []float64 // meters
	WeeklyLabels   []string

	LastSync time.Time // zero when never synced
}

// GetDashboardData fetches all data needed for the dashboard
func (q *QueryService) GetDashboardData() (*DashboardData, error) {
	data := &DashboardData{}

	fitness, err := q.GetFitnessSummary()
	if err != nil {
		return nil, err
	}
	data.Fitness = fitness

	weekStart := getMonday(time.Now())
	chartStart := weekStart.AddDate(0, 0, -7*(ChartWeeks-1))

	activities, err := q.store.ListActivitiesSince(chartStart)
	if err != nil {
		return nil, err
	}

	data.WeeklyDistance = make([]float64, ChartWeeks)
	data.WeeklyLabels = make([]string, ChartWeeks)
	for i := 0; i < ChartWeeks; i++ {
		data.WeeklyLabels[i] = chartStart.AddDate(0, 0, 7*i).Format("Jan 02")
	}

	for _, a := range activities {
		if !a.StartDate.Before(weekStart) {
			data.WeekActivityCount++
			data.WeekDistance += a.Distance
			data.WeekTime += a.MovingTime
		}

		if idx := weekIndex(a.StartDate, chartStart); idx >= 0 && idx < ChartWeeks {
			data.WeeklyDistance[idx] += a.Distance
		}
	}

	recent, err := q.store.ListActivities(RecentActivitiesLimit, 0)
	if err != nil {
		return nil, err
	}
	data.RecentActivities = recent

	total, err := q.store.CountActivities()
	if err != nil {
		return nil, err
	}
	data.TotalActivities = total

	if lastSyncStr, err := q.store.GetSyncState(store.SyncKeyLastActivitySync); err == nil && lastSyncStr != "" {
		data.LastSync, _ = time.Parse(time.RFC3339, lastSyncStr)
	}

	return data, nil
}

// weekIndex returns which week bucket a date falls in, counting from
// chartStart; negative before the window
func weekIndex(date, chartStart time.Time) int {
	if date.Before(chartStart) {
		return -1
	}
	return int(date.Sub(chartStart).Hours() / 24 / 7)
}

// getMonday returns the start of the week (Monday 00:00) containing t
func getMonday(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the previous Monday
	}
	return t.AddDate(0, 0, -(weekday - 1))
}
