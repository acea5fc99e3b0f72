package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertActivity inserts or updates an activity
func (db *DB) UpsertActivity(a *Activity) error {
	_, err := db.Exec(`
		INSERT INTO activities (
			id, athlete_id, name, type, start_date, timezone,
			distance, moving_time, elapsed_time,
			average_heartrate, average_watts, calories,
			start_lat, start_lng, summary_polyline, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			athlete_id = excluded.athlete_id,
			name = excluded.name,
			type = excluded.type,
			start_date = excluded.start_date,
			timezone = excluded.timezone,
			distance = excluded.distance,
			moving_time = excluded.moving_time,
			elapsed_time = excluded.elapsed_time,
			average_heartrate = excluded.average_heartrate,
			average_watts = excluded.average_watts,
			calories = excluded.calories,
			start_lat = excluded.start_lat,
			start_lng = excluded.start_lng,
			summary_polyline = excluded.summary_polyline,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.AthleteID, a.Name, a.Type,
		a.StartDate.Format(time.RFC3339), a.Timezone,
		a.Distance, a.MovingTime, a.ElapsedTime,
		a.AverageHeartrate, a.AverageWatts, a.Calories,
		a.StartLat, a.StartLng, a.SummaryPolyline,
	)
	return err
}

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(id int64) (*Activity, error) {
	row := db.QueryRow(`
		SELECT id, athlete_id, name, type, start_date, timezone,
			distance, moving_time, elapsed_time,
			average_heartrate, average_watts, calories,
			start_lat, start_lng, summary_polyline
		FROM activities
		WHERE id = ?
	`, id)

	return scanActivity(row)
}

// ListActivitiesSince returns activities starting on or after the given time,
// ordered by start date descending
func (db *DB) ListActivitiesSince(since time.Time) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT id, athlete_id, name, type, start_date, timezone,
			distance, moving_time, elapsed_time,
			average_heartrate, average_watts, calories,
			start_lat, start_lng, summary_polyline
		FROM activities
		WHERE start_date >= ?
		ORDER BY start_date DESC
	`, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListActivities returns activities ordered by start date descending
func (db *DB) ListActivities(limit, offset int) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT id, athlete_id, name, type, start_date, timezone,
			distance, moving_time, elapsed_time,
			average_heartrate, average_watts, calories,
			start_lat, start_lng, summary_polyline
		FROM activities
		ORDER BY start_date DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// CountActivities returns the total number of activities
func (db *DB) CountActivities() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

// scanActivity scans a single activity from a row
func scanActivity(row *sql.Row) (*Activity, error) {
	var a Activity
	var startDate string
	var timezone sql.NullString

	err := row.Scan(
		&a.ID, &a.AthleteID, &a.Name, &a.Type, &startDate, &timezone,
		&a.Distance, &a.MovingTime, &a.ElapsedTime,
		&a.AverageHeartrate, &a.AverageWatts, &a.Calories,
		&a.StartLat, &a.StartLng, &a.SummaryPolyline,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	a.StartDate, err = time.Parse(time.RFC3339, startDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	a.Timezone = timezone.String

	return &a, nil
}

// scanActivities scans multiple activities from rows
func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity

	for rows.Next() {
		var a Activity
		var startDate string
		var timezone sql.NullString

		err := rows.Scan(
			&a.ID, &a.AthleteID, &a.Name, &a.Type, &startDate, &timezone,
			&a.Distance, &a.MovingTime, &a.ElapsedTime,
			&a.AverageHeartrate, &a.AverageWatts, &a.Calories,
			&a.StartLat, &a.StartLng, &a.SummaryPolyline,
		)
		if err != nil {
			return nil, err
		}

		a.StartDate, err = time.Parse(time.RFC3339, startDate)
		if err != nil {
			return nil, fmt.Errorf("parsing start_date: %w", err)
		}
		a.Timezone = timezone.String

		activities = append(activities, a)
	}

	return activities, rows.Err()
}
