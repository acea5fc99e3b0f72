package store

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Enable foreign keys
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	db := &DB{sqlDB}

	// Run migrations
	if err := migrate(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func ptrFloat(v float64) *float64 { return &v }
func ptrString(v string) *string  { return &v }

func testActivity(id int64, start time.Time) *Activity {
	return &Activity{
		ID:               id,
		AthleteID:        123,
		Name:             "Morning Run",
		Type:             "Run",
		StartDate:        start,
		Timezone:         "(GMT+01:00) Europe/Berlin",
		Distance:         5000,
		MovingTime:       1500,
		ElapsedTime:      1600,
		AverageHeartrate: ptrFloat(150),
		StartLat:         ptrFloat(52.5200),
		StartLng:         ptrFloat(13.4050),
		SummaryPolyline:  ptrString("_p~iF~ps|U_ulLnnqC"),
	}
}

func TestUpsertActivity_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)

	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	a := testActivity(1, start)

	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("UpsertActivity failed: %v", err)
	}

	got, err := db.GetActivity(1)
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}

	if got.Name != "Morning Run" {
		t.Errorf("Name = %q, want %q", got.Name, "Morning Run")
	}
	if !got.StartDate.Equal(start) {
		t.Errorf("StartDate = %v, want %v", got.StartDate, start)
	}
	if got.AverageHeartrate == nil || *got.AverageHeartrate != 150 {
		t.Errorf("AverageHeartrate = %v, want 150", got.AverageHeartrate)
	}
	if got.StartLat == nil || *got.StartLat != 52.52 {
		t.Errorf("StartLat = %v, want 52.52", got.StartLat)
	}
	if got.SummaryPolyline == nil || *got.SummaryPolyline != "_p~iF~ps|U_ulLnnqC" {
		t.Errorf("SummaryPolyline = %v, want stored polyline", got.SummaryPolyline)
	}
	if got.AverageWatts != nil {
		t.Errorf("AverageWatts = %v, want nil for a run", got.AverageWatts)
	}
}

func TestUpsertActivity_UpdateExisting(t *testing.T) {
	db := setupTestDB(t)

	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	a := testActivity(1, start)

	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("UpsertActivity failed: %v", err)
	}

	a.Name = "Renamed Run"
	a.Distance = 5200
	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("UpsertActivity (update) failed: %v", err)
	}

	got, err := db.GetActivity(1)
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if got.Name != "Renamed Run" {
		t.Errorf("Name = %q, want %q", got.Name, "Renamed Run")
	}
	if got.Distance != 5200 {
		t.Errorf("Distance = %v, want 5200", got.Distance)
	}

	count, err := db.CountActivities()
	if err != nil {
		t.Fatalf("CountActivities failed: %v", err)
	}
	if count != 1 {
		t.Errorf("CountActivities = %d, want 1 after upsert", count)
	}
}

func TestGetActivity_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetActivity(999)
	if err != ErrActivityNotFound {
		t.Errorf("Expected ErrActivityNotFound, got %v", err)
	}
}

func TestListActivitiesSince(t *testing.T) {
	db := setupTestDB(t)

	old := time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)
	mid := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC)

	for i, ts := range []time.Time{old, mid, recent} {
		if err := db.UpsertActivity(testActivity(int64(i+1), ts)); err != nil {
			t.Fatalf("UpsertActivity failed: %v", err)
		}
	}

	got, err := db.ListActivitiesSince(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListActivitiesSince failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 activities since 2024-01-01, got %d", len(got))
	}

	// Newest first
	if got[0].ID != 3 || got[1].ID != 2 {
		t.Errorf("Expected order [3, 2], got [%d, %d]", got[0].ID, got[1].ID)
	}
}

func TestUpsertActivity_NullableFieldsStayNil(t *testing.T) {
	db := setupTestDB(t)

	a := &Activity{
		ID:          7,
		AthleteID:   123,
		Name:        "Treadmill Run",
		Type:        "Run",
		StartDate:   time.Date(2024, 2, 1, 7, 0, 0, 0, time.UTC),
		Distance:    4000,
		MovingTime:  1200,
		ElapsedTime: 1250,
		// No HR, no GPS, no polyline
	}

	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("UpsertActivity failed: %v", err)
	}

	got, err := db.GetActivity(7)
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}

	if got.AverageHeartrate != nil {
		t.Errorf("AverageHeartrate = %v, want nil", got.AverageHeartrate)
	}
	if got.HasStartCoords() {
		t.Error("HasStartCoords() = true, want false")
	}
	if got.SummaryPolyline != nil {
		t.Errorf("SummaryPolyline = %v, want nil", got.SummaryPolyline)
	}
}
