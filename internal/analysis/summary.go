package analysis

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"trainlog/internal/store"
)

// FitnessSummary is the derived fitness assessment for the dashboard
type FitnessSummary struct {
	VO2max      *int   // nil when no estimate is possible
	VO2maxLevel string // empty when VO2max is nil

	// From the latest recovery record, nil when the wearable isn't connected
	RestingHR     *float64
	RecoveryScore *float64 // 0-100
	HRV           *float64 // rMSSD in ms

	HoursPerWeek float64  // training volume averaged over the lookback window
	AvgWatts     *float64 // mean cycling power, nil without any powered rides
}

// Summarize computes the fitness assessment from activity history and the
// latest recovery record (nil when the wearable isn't connected).
func Summarize(activities []store.Activity, latest *store.Recovery, now time.Time, cfg VO2maxConfig) FitnessSummary {
	var summary FitnessSummary

	var restingHR *float64
	if latest != nil && latest.RestingHeartRate != nil {
		rounded := math.Round(*latest.RestingHeartRate)
		restingHR = &rounded
	}
	summary.RestingHR = restingHR

	if latest != nil {
		if latest.RecoveryScore != nil {
			score := math.Round(*latest.RecoveryScore)
			summary.RecoveryScore = &score
		}
		if latest.HRV != nil {
			hrv := *latest.HRV
			summary.HRV = &hrv
		}
	}

	summary.VO2max = EstimateVO2max(activities, restingHR, now, cfg)
	if summary.VO2max != nil {
		summary.VO2maxLevel = VO2maxLevel(*summary.VO2max)
	}

	cutoff := now.AddDate(0, 0, -cfg.LookbackDays)
	summary.HoursPerWeek = hoursPerWeek(activities, cutoff, cfg.LookbackDays)
	summary.AvgWatts = averageWatts(activities, cutoff)

	return summary
}

// hoursPerWeek averages total moving time per week over the window,
// rounded to one decimal
func hoursPerWeek(activities []store.Activity, cutoff time.Time, lookbackDays int) float64 {
	totalSec := 0
	for _, a := range activities {
		if a.StartDate.Before(cutoff) {
			continue
		}
		totalSec += a.MovingTime
	}

	weeks := float64(lookbackDays) / 7
	if weeks == 0 {
		return 0
	}
	return math.Round(float64(totalSec)/3600/weeks*10) / 10
}

// averageWatts is the mean power across recent rides that recorded power
func averageWatts(activities []store.Activity, cutoff time.Time) *float64 {
	var watts []float64
	for _, a := range activities {
		if a.StartDate.Before(cutoff) {
			continue
		}
		if !isRideType(a.Type) || a.AverageWatts == nil {
			continue
		}
		watts = append(watts, *a.AverageWatts)
	}

	if len(watts) == 0 {
		return nil
	}

	avg, err := stats.Mean(watts)
	if err != nil {
		return nil
	}
	rounded := math.Round(avg)
	return &rounded
}
