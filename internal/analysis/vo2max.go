// Package analysis derives fitness metrics from activity and recovery
// history.
package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"trainlog/internal/store"
)

// RunTypes are the activity types that count as running for the estimator
var RunTypes = []string{"Run", "VirtualRun", "TrailRun"}

// RideTypes are the activity types that count as cycling
var RideTypes = []string{"Ride", "VirtualRide", "GravelRide", "MountainBikeRide"}

// VO2maxConfig holds the estimator's constants. Start from
// DefaultVO2maxConfig and override fields as needed.
type VO2maxConfig struct {
	LookbackDays      int     // only runs within this window qualify
	MinDistanceMeters float64 // runs shorter than this are ignored
	MinMovingTimeSec  int     // runs quicker than this are ignored

	// Cooper-test regression: VO2max = (12-min distance - intercept) / slope
	CooperIntercept float64
	CooperSlope     float64

	// Pace-to-12-minute-effort extrapolation correction
	FatigueFactor float64

	// Heart-rate-reserve correction
	DefaultRestingHR float64 // used when no recovery data is available
	AssumedMaxHR     float64
	SubmaxThreshold  float64 // no correction at or above this fraction of reserve

	// Plausibility window: estimates must land in (MinPlausible, MaxPlausible]
	MinPlausible float64
	MaxPlausible float64

	// How many of the highest per-run estimates get averaged
	TopEfforts int
}

// DefaultVO2maxConfig returns the standard estimator constants
func DefaultVO2maxConfig() VO2maxConfig {
	return VO2maxConfig{
		LookbackDays:      90,
		MinDistanceMeters: 3000,
		MinMovingTimeSec:  600,
		CooperIntercept:   504.9,
		CooperSlope:       44.73,
		FatigueFactor:     0.92,
		DefaultRestingHR:  52,
		AssumedMaxHR:      172,
		SubmaxThreshold:   0.95,
		MinPlausible:      30,
		MaxPlausible:      65,
		TopEfforts:        3,
	}
}

// EstimateVO2max estimates aerobic capacity from recent run history.
// restingHR comes from the most recent wearable recovery record; pass nil to
// fall back to cfg.DefaultRestingHR. The result is nil when no run in the
// lookback window qualifies or every per-run estimate falls outside the
// plausibility window: absence, not zero.
func EstimateVO2max(activities []store.Activity, restingHR *float64, now time.Time, cfg VO2maxConfig) *int {
	cutoff := now.AddDate(0, 0, -cfg.LookbackDays)

	runs := qualifyingRuns(activities, cutoff, cfg)
	if len(runs) == 0 {
		return nil
	}

	resting := cfg.DefaultRestingHR
	if restingHR != nil && *restingHR > 0 {
		resting = math.Round(*restingHR)
	}
	reserve := cfg.AssumedMaxHR - resting

	var estimates []float64
	for _, a := range runs {
		v := estimateFromRun(&a, resting, reserve, cfg)
		if v > cfg.MinPlausible && v <= cfg.MaxPlausible {
			estimates = append(estimates, v)
		}
	}

	if len(estimates) == 0 {
		return nil
	}

	// Average the best recent efforts rather than everything: easy and
	// recovery runs would dilute an all-inclusive mean
	sort.Sort(sort.Reverse(sort.Float64Slice(estimates)))
	if len(estimates) > cfg.TopEfforts {
		estimates = estimates[:cfg.TopEfforts]
	}

	avg, err := stats.Mean(estimates)
	if err != nil {
		return nil
	}

	result := int(math.Round(avg))
	return &result
}

// qualifyingRuns filters to runs usable for estimation: run-family type,
// recorded heart rate, long enough to reflect a sustained effort, and
// recent enough to reflect current fitness.
func qualifyingRuns(activities []store.Activity, cutoff time.Time, cfg VO2maxConfig) []store.Activity {
	var runs []store.Activity
	for _, a := range activities {
		if !isRunType(a.Type) {
			continue
		}
		if a.AverageHeartrate == nil || *a.AverageHeartrate <= 0 {
			continue
		}
		if a.Distance < cfg.MinDistanceMeters {
			continue
		}
		if a.MovingTime < cfg.MinMovingTimeSec {
			continue
		}
		if a.StartDate.Before(cutoff) {
			continue
		}
		runs = append(runs, a)
	}
	return runs
}

// estimateFromRun computes a single run's VO2max estimate:
// pace -> predicted 12-minute distance -> Cooper regression, then scaled up
// for submaximal efforts via the heart-rate reserve.
func estimateFromRun(a *store.Activity, resting, reserve float64, cfg VO2maxConfig) float64 {
	paceMinPerKm := (float64(a.MovingTime) / 60) / (a.Distance / 1000)

	predicted12Min := (12 / paceMinPerKm) * 1000 * cfg.FatigueFactor
	v := (predicted12Min - cfg.CooperIntercept) / cfg.CooperSlope

	// A run at 80% of reserve says more about capacity than its raw pace;
	// extrapolate toward a maximal effort. At or above the threshold (or
	// with unusable HR data) the raw estimate stands.
	if reserve > 0 {
		workingHR := *a.AverageHeartrate - resting
		hrPct := workingHR / reserve
		if hrPct > 0 && hrPct < cfg.SubmaxThreshold {
			v = v / hrPct
		}
	}

	return math.Min(cfg.MaxPlausible, v)
}

// VO2maxLevel returns a human-readable rating for an estimate
func VO2maxLevel(vo2max int) string {
	switch {
	case vo2max >= 55:
		return "Excellent"
	case vo2max >= 48:
		return "Very Good"
	case vo2max >= 42:
		return "Good"
	case vo2max >= 36:
		return "Average"
	default:
		return "Needs Work"
	}
}

func isRunType(t string) bool {
	for _, rt := range RunTypes {
		if t == rt {
			return true
		}
	}
	return false
}

func isRideType(t string) bool {
	for _, rt := range RideTypes {
		if t == rt {
			return true
		}
	}
	return false
}
