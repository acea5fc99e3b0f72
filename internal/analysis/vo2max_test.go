package analysis

import (
	"testing"
	"time"

	"trainlog/internal/store"
)

var testNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func hrRun(id int64, actType string, distance float64, movingTime int, avgHR float64, daysAgo int) store.Activity {
	a := store.Activity{
		ID:         id,
		Name:       "Morning Run",
		Type:       actType,
		StartDate:  testNow.AddDate(0, 0, -daysAgo),
		Distance:   distance,
		MovingTime: movingTime,
	}
	if avgHR > 0 {
		a.AverageHeartrate = &avgHR
	}
	return a
}

func TestEstimateVO2maxSubmaxCorrection(t *testing.T) {
	// 5 km in 25 min at HR 150 with resting 50: 5:00/km pace predicts a
	// 2208 m twelve-minute effort, a raw estimate of 38.1, scaled by the
	// 0.82 heart-rate-reserve fraction to 46.45
	activities := []store.Activity{
		hrRun(1, "Run", 5000, 1500, 150, 10),
	}
	resting := 50.0

	got := EstimateVO2max(activities, &resting, testNow, DefaultVO2maxConfig())
	if got == nil {
		t.Fatal("expected an estimate, got nil")
	}
	if *got != 46 {
		t.Errorf("estimate = %d, want 46", *got)
	}
}

func TestEstimateVO2maxNoCorrectionNearMax(t *testing.T) {
	// HR 168 against the default 52/172 range is 96.7% of reserve, above
	// the submax threshold, so the pace-based estimate stands: 57.27 -> 57
	activities := []store.Activity{
		hrRun(1, "Run", 5000, 1080, 168, 5),
	}

	got := EstimateVO2max(activities, nil, testNow, DefaultVO2maxConfig())
	if got == nil {
		t.Fatal("expected an estimate, got nil")
	}
	if *got != 57 {
		t.Errorf("estimate = %d, want 57", *got)
	}
}

func TestEstimateVO2maxCapped(t *testing.T) {
	// 3:00/km for 15 minutes predicts a raw estimate near 71, over the
	// plausibility ceiling, so it caps at 65
	activities := []store.Activity{
		hrRun(1, "Run", 5000, 900, 168, 5),
	}

	got := EstimateVO2max(activities, nil, testNow, DefaultVO2maxConfig())
	if got == nil {
		t.Fatal("expected an estimate, got nil")
	}
	if *got != 65 {
		t.Errorf("estimate = %d, want 65", *got)
	}
}

func TestEstimateVO2maxImplausiblyLowDropped(t *testing.T) {
	// A 10:00/km shuffle corrects to around 16, below the plausibility
	// floor, so nothing remains to average
	activities := []store.Activity{
		hrRun(1, "Run", 3000, 1800, 150, 5),
	}

	if got := EstimateVO2max(activities, nil, testNow, DefaultVO2maxConfig()); got != nil {
		t.Errorf("expected nil for implausible estimate, got %d", *got)
	}
}

func TestEstimateVO2maxAbsence(t *testing.T) {
	tests := []struct {
		name       string
		activities []store.Activity
	}{
		{"no activities", nil},
		{"no heart rate", []store.Activity{hrRun(1, "Run", 5000, 1500, 0, 10)}},
		{"too short", []store.Activity{hrRun(1, "Run", 2500, 1500, 150, 10)}},
		{"too quick", []store.Activity{hrRun(1, "Run", 5000, 500, 150, 10)}},
		{"outside window", []store.Activity{hrRun(1, "Run", 5000, 1500, 150, 120)}},
		{"not a run", []store.Activity{hrRun(1, "Ride", 5000, 1500, 150, 10)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateVO2max(tt.activities, nil, testNow, DefaultVO2maxConfig()); got != nil {
				t.Errorf("expected nil, got %d", *got)
			}
		})
	}
}

func TestEstimateVO2maxRunFamilyTypes(t *testing.T) {
	// Trail and virtual runs qualify like road runs
	for _, actType := range []string{"Run", "TrailRun", "VirtualRun"} {
		activities := []store.Activity{
			hrRun(1, actType, 5000, 1500, 150, 10),
		}
		resting := 50.0
		if got := EstimateVO2max(activities, &resting, testNow, DefaultVO2maxConfig()); got == nil {
			t.Errorf("%s: expected an estimate, got nil", actType)
		}
	}
}

func TestEstimateVO2maxTopEffortsOnly(t *testing.T) {
	// Four near-max runs with per-run estimates 50.4, 47.5, 44.8 and 38.1:
	// only the best three average, giving 47.57 -> 48. Folding in the
	// slowest would pull it to 45.
	activities := []store.Activity{
		hrRun(1, "Run", 5000, 1200, 168, 5),
		hrRun(2, "Run", 5000, 1260, 168, 10),
		hrRun(3, "Run", 5000, 1320, 168, 15),
		hrRun(4, "Run", 5000, 1500, 168, 20),
	}

	got := EstimateVO2max(activities, nil, testNow, DefaultVO2maxConfig())
	if got == nil {
		t.Fatal("expected an estimate, got nil")
	}
	if *got != 48 {
		t.Errorf("estimate = %d, want 48", *got)
	}
}

func TestEstimateVO2maxRestingHRFallback(t *testing.T) {
	activities := []store.Activity{
		hrRun(1, "Run", 5000, 1500, 150, 10),
	}
	cfg := DefaultVO2maxConfig()

	withDefault := EstimateVO2max(activities, nil, testNow, cfg)
	lower := 40.0
	withLower := EstimateVO2max(activities, &lower, testNow, cfg)

	if withDefault == nil || withLower == nil {
		t.Fatal("expected estimates for both resting heart rates")
	}
	// A lower resting HR widens the reserve and shrinks the correction
	if *withLower >= *withDefault {
		t.Errorf("lower resting HR gave %d, default gave %d; want a smaller estimate", *withLower, *withDefault)
	}
}

func TestEstimateVO2maxNoReserveSkipsCorrection(t *testing.T) {
	// Resting at or above the assumed max leaves no reserve; the raw
	// estimate of 38.1 stands uncorrected
	activities := []store.Activity{
		hrRun(1, "Run", 5000, 1500, 150, 10),
	}
	resting := 180.0

	got := EstimateVO2max(activities, &resting, testNow, DefaultVO2maxConfig())
	if got == nil {
		t.Fatal("expected an estimate, got nil")
	}
	if *got != 38 {
		t.Errorf("estimate = %d, want 38", *got)
	}
}

func TestEstimateVO2maxConfigOverride(t *testing.T) {
	// Tightening the lookback window drops an older qualifying run
	activities := []store.Activity{
		hrRun(1, "Run", 5000, 1500, 150, 45),
	}
	cfg := DefaultVO2maxConfig()
	cfg.LookbackDays = 30

	if got := EstimateVO2max(activities, nil, testNow, cfg); got != nil {
		t.Errorf("expected nil outside the shortened window, got %d", *got)
	}
	if got := EstimateVO2max(activities, nil, testNow, DefaultVO2maxConfig()); got == nil {
		t.Error("expected an estimate under the default window")
	}
}

func TestVO2maxLevel(t *testing.T) {
	tests := []struct {
		vo2max int
		want   string
	}{
		{60, "Excellent"},
		{55, "Excellent"},
		{50, "Very Good"},
		{48, "Very Good"},
		{45, "Good"},
		{42, "Good"},
		{38, "Average"},
		{36, "Average"},
		{33, "Needs Work"},
	}

	for _, tt := range tests {
		if got := VO2maxLevel(tt.vo2max); got != tt.want {
			t.Errorf("VO2maxLevel(%d) = %q, want %q", tt.vo2max, got, tt.want)
		}
	}
}
