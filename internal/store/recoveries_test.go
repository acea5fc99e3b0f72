package store

import (
	"testing"
	"time"
)

func TestLatestRecovery_Empty(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.LatestRecovery()
	if err != ErrNoRecovery {
		t.Errorf("Expected ErrNoRecovery, got %v", err)
	}
}

func TestUpsertRecovery_LatestWins(t *testing.T) {
	db := setupTestDB(t)

	recoveries := []*Recovery{
		{
			CycleID:          100,
			ScoredAt:         time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC),
			RecoveryScore:    ptrFloat(72),
			RestingHeartRate: ptrFloat(55),
			HRV:              ptrFloat(48),
		},
		{
			CycleID:          101,
			ScoredAt:         time.Date(2024, 1, 12, 6, 0, 0, 0, time.UTC),
			RecoveryScore:    ptrFloat(85),
			RestingHeartRate: ptrFloat(51),
			HRV:              ptrFloat(62),
		},
	}

	for _, r := range recoveries {
		if err := db.UpsertRecovery(r); err != nil {
			t.Fatalf("UpsertRecovery failed: %v", err)
		}
	}

	latest, err := db.LatestRecovery()
	if err != nil {
		t.Fatalf("LatestRecovery failed: %v", err)
	}

	if latest.CycleID != 101 {
		t.Errorf("CycleID = %d, want 101", latest.CycleID)
	}
	if latest.RestingHeartRate == nil || *latest.RestingHeartRate != 51 {
		t.Errorf("RestingHeartRate = %v, want 51", latest.RestingHeartRate)
	}
}

func TestUpsertRecovery_MissingScoreFields(t *testing.T) {
	db := setupTestDB(t)

	// Whoop omits score fields when a cycle is unscored
	r := &Recovery{
		CycleID:  200,
		ScoredAt: time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC),
	}

	if err := db.UpsertRecovery(r); err != nil {
		t.Fatalf("UpsertRecovery failed: %v", err)
	}

	latest, err := db.LatestRecovery()
	if err != nil {
		t.Fatalf("LatestRecovery failed: %v", err)
	}

	if latest.RecoveryScore != nil {
		t.Errorf("RecoveryScore = %v, want nil", latest.RecoveryScore)
	}
	if latest.RestingHeartRate != nil {
		t.Errorf("RestingHeartRate = %v, want nil", latest.RestingHeartRate)
	}
}

func TestListRecoveries_OrderAndLimit(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 5; i++ {
		r := &Recovery{
			CycleID:          int64(300 + i),
			ScoredAt:         time.Date(2024, 1, 1+i, 6, 0, 0, 0, time.UTC),
			RestingHeartRate: ptrFloat(50 + float64(i)),
		}
		if err := db.UpsertRecovery(r); err != nil {
			t.Fatalf("UpsertRecovery failed: %v", err)
		}
	}

	got, err := db.ListRecoveries(3)
	if err != nil {
		t.Fatalf("ListRecoveries failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Expected 3 recoveries, got %d", len(got))
	}
	if got[0].CycleID != 304 {
		t.Errorf("First CycleID = %d, want 304 (newest)", got[0].CycleID)
	}
}
