package service

import (
	"testing"
	"time"

	"trainlog/internal/config"
	"trainlog/internal/store"
)

// openTestDB creates an in-memory SQLite database with migrations applied
func openTestDB(t *testing.T) *store.DB {
	t.Helper()

	db, err := store.OpenPath(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func seedActivity(t *testing.T, db *store.DB, a *store.Activity) {
	t.Helper()
	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("seeding activity %d: %v", a.ID, err)
	}
}

// testRun builds a run starting at a fixed Berlin location with a short
// encoded track
func testRun(id int64, daysAgo int, movingTime int) *store.Activity {
	lat, lng := 52.52, 13.405
	poly := "_p~iF~ps|U_ulLnnqC"
	hr := 150.0
	return &store.Activity{
		ID:               id,
		AthleteID:        1,
		Name:             "Morning Run",
		Type:             "Run",
		StartDate:        time.Now().AddDate(0, 0, -daysAgo).UTC(),
		Distance:         5000,
		MovingTime:       movingTime,
		ElapsedTime:      movingTime + 60,
		AverageHeartrate: &hr,
		StartLat:         &lat,
		StartLng:         &lng,
		SummaryPolyline:  &poly,
	}
}

func TestGetRouteGroups(t *testing.T) {
	db := openTestDB(t)
	q := NewQueryService(db, config.AthleteConfig{})

	// Three runs from the same corner plus one elsewhere
	seedActivity(t, db, testRun(1, 3, 1500))
	seedActivity(t, db, testRun(2, 10, 1480))
	seedActivity(t, db, testRun(3, 17, 1520))

	solo := testRun(4, 5, 1500)
	otherLat, otherLng := 48.137, 11.575
	solo.StartLat = &otherLat
	solo.StartLng = &otherLng
	seedActivity(t, db, solo)

	groups, err := q.GetRouteGroups()
	if err != nil {
		t.Fatalf("GetRouteGroups: %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Label != "Runs" || groups[1].Label != "Rides" {
		t.Errorf("group labels = %q, %q", groups[0].Label, groups[1].Label)
	}

	if len(groups[0].Routes) != 1 {
		t.Fatalf("got %d run routes, want 1", len(groups[0].Routes))
	}
	if groups[0].Routes[0].Count != 3 {
		t.Errorf("route count = %d, want 3", groups[0].Routes[0].Count)
	}
	if len(groups[1].Routes) != 0 {
		t.Errorf("got %d ride routes, want 0", len(groups[1].Routes))
	}
}

func TestGetFitnessSummaryFromWearable(t *testing.T) {
	db := openTestDB(t)
	q := NewQueryService(db, config.AthleteConfig{})

	// 5 km in 25 min at HR 150 with resting 50 estimates to 46
	seedActivity(t, db, testRun(1, 10, 1500))

	rhr := 50.0
	score := 80.0
	if err := db.UpsertRecovery(&store.Recovery{
		CycleID:          1,
		ScoredAt:         time.Now().AddDate(0, 0, -1).UTC(),
		RecoveryScore:    &score,
		RestingHeartRate: &rhr,
	}); err != nil {
		t.Fatalf("seeding recovery: %v", err)
	}

	summary, err := q.GetFitnessSummary()
	if err != nil {
		t.Fatalf("GetFitnessSummary: %v", err)
	}

	if summary.VO2max == nil {
		t.Fatal("expected VO2max, got nil")
	}
	if *summary.VO2max != 46 {
		t.Errorf("VO2max = %d, want 46", *summary.VO2max)
	}
	if summary.RestingHR == nil || *summary.RestingHR != 50 {
		t.Errorf("RestingHR = %v, want 50", summary.RestingHR)
	}
	if summary.RecoveryScore == nil || *summary.RecoveryScore != 80 {
		t.Errorf("RecoveryScore = %v, want 80", summary.RecoveryScore)
	}
}

func TestGetFitnessSummaryAthleteOverride(t *testing.T) {
	db := openTestDB(t)
	q := NewQueryService(db, config.AthleteConfig{RestingHR: 50})

	seedActivity(t, db, testRun(1, 10, 1500))

	// Wearable says 60, config says 50; the override wins but the other
	// recovery metrics still come through
	rhr := 60.0
	score := 72.0
	hrv := 44.5
	if err := db.UpsertRecovery(&store.Recovery{
		CycleID:          1,
		ScoredAt:         time.Now().AddDate(0, 0, -1).UTC(),
		RecoveryScore:    &score,
		RestingHeartRate: &rhr,
		HRV:              &hrv,
	}); err != nil {
		t.Fatalf("seeding recovery: %v", err)
	}

	summary, err := q.GetFitnessSummary()
	if err != nil {
		t.Fatalf("GetFitnessSummary: %v", err)
	}

	if summary.VO2max == nil {
		t.Fatal("expected VO2max, got nil")
	}
	if *summary.VO2max != 46 {
		t.Errorf("VO2max = %d, want 46", *summary.VO2max)
	}
	if summary.RestingHR == nil || *summary.RestingHR != 50 {
		t.Errorf("RestingHR = %v, want 50", summary.RestingHR)
	}
	if summary.RecoveryScore == nil || *summary.RecoveryScore != 72 {
		t.Errorf("RecoveryScore = %v, want 72", summary.RecoveryScore)
	}
	if summary.HRV == nil || *summary.HRV != 44.5 {
		t.Errorf("HRV = %v, want 44.5", summary.HRV)
	}
}

func TestGetDashboardData(t *testing.T) {
	db := openTestDB(t)
	q := NewQueryService(db, config.AthleteConfig{})

	now := testRun(1, 0, 1500)
	now.StartDate = time.Now().UTC()
	seedActivity(t, db, now)
	seedActivity(t, db, testRun(2, 30, 1800))

	data, err := q.GetDashboardData()
	if err != nil {
		t.Fatalf("GetDashboardData: %v", err)
	}

	if data.WeekActivityCount != 1 {
		t.Errorf("WeekActivityCount = %d, want 1", data.WeekActivityCount)
	}
	if data.WeekDistance != 5000 {
		t.Errorf("WeekDistance = %v, want 5000", data.WeekDistance)
	}
	if data.WeekTime != 1500 {
		t.Errorf("WeekTime = %d, want 1500", data.WeekTime)
	}

	if len(data.WeeklyDistance) != ChartWeeks || len(data.WeeklyLabels) != ChartWeeks {
		t.Fatalf("chart has %d/%d buckets, want %d", len(data.WeeklyDistance), len(data.WeeklyLabels), ChartWeeks)
	}
	// Both activities land somewhere in the 12-week window
	var total float64
	for _, d := range data.WeeklyDistance {
		total += d
	}
	if total != 10000 {
		t.Errorf("chart total distance = %v, want 10000", total)
	}

	if len(data.RecentActivities) != 2 {
		t.Errorf("got %d recent activities, want 2", len(data.RecentActivities))
	}
	if data.TotalActivities != 2 {
		t.Errorf("TotalActivities = %d, want 2", data.TotalActivities)
	}
}

func TestGetMonday(t *testing.T) {
	tests := []struct {
		day  time.Time
		want time.Time
	}{
		// Wednesday
		{time.Date(2024, 6, 5, 15, 30, 0, 0, time.UTC), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
		// Monday stays put
		{time.Date(2024, 6, 3, 0, 0, 1, 0, time.UTC), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
		// Sunday belongs to the previous Monday
		{time.Date(2024, 6, 9, 23, 0, 0, 0, time.UTC), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := getMonday(tt.day); !got.Equal(tt.want) {
			t.Errorf("getMonday(%v) = %v, want %v", tt.day, got, tt.want)
		}
	}
}
