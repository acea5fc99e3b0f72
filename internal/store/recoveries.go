package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertRecovery inserts or updates a recovery record
func (db *DB) UpsertRecovery(r *Recovery) error {
	_, err := db.Exec(`
		INSERT INTO recoveries (
			cycle_id, scored_at, recovery_score, resting_heart_rate, hrv, updated_at
		) VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(cycle_id) DO UPDATE SET
			scored_at = excluded.scored_at,
			recovery_score = excluded.recovery_score,
			resting_heart_rate = excluded.resting_heart_rate,
			hrv = excluded.hrv,
			updated_at = CURRENT_TIMESTAMP
	`,
		r.CycleID, r.ScoredAt.Format(time.RFC3339),
		r.RecoveryScore, r.RestingHeartRate, r.HRV,
	)
	return err
}

// LatestRecovery returns the most recently scored recovery record
func (db *DB) LatestRecovery() (*Recovery, error) {
	row := db.QueryRow(`
		SELECT cycle_id, scored_at, recovery_score, resting_heart_rate, hrv
		FROM recoveries
		ORDER BY scored_at DESC
		LIMIT 1
	`)

	r, err := scanRecovery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRecovery
	}
	return r, err
}

// ListRecoveries returns recovery records ordered by score date descending
func (db *DB) ListRecoveries(limit int) ([]Recovery, error) {
	rows, err := db.Query(`
		SELECT cycle_id, scored_at, recovery_score, resting_heart_rate, hrv
		FROM recoveries
		ORDER BY scored_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recoveries []Recovery
	for rows.Next() {
		var r Recovery
		var scoredAt string

		if err := rows.Scan(&r.CycleID, &scoredAt, &r.RecoveryScore, &r.RestingHeartRate, &r.HRV); err != nil {
			return nil, err
		}

		r.ScoredAt, err = time.Parse(time.RFC3339, scoredAt)
		if err != nil {
			return nil, fmt.Errorf("parsing scored_at: %w", err)
		}

		recoveries = append(recoveries, r)
	}

	return recoveries, rows.Err()
}

func scanRecovery(row *sql.Row) (*Recovery, error) {
	var r Recovery
	var scoredAt string

	err := row.Scan(&r.CycleID, &scoredAt, &r.RecoveryScore, &r.RestingHeartRate, &r.HRV)
	if err != nil {
		return nil, err
	}

	r.ScoredAt, err = time.Parse(time.RFC3339, scoredAt)
	if err != nil {
		return nil, fmt.Errorf("parsing scored_at: %w", err)
	}

	return &r, nil
}
