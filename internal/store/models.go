package store

import "time"

// Activity represents a synced activity summary.
// Optional fields are pointers: nil means the value was never recorded,
// which is different from a recorded zero.
type Activity struct {
	ID               int64     `db:"id"`
	AthleteID        int64     `db:"athlete_id"`
	Name             string    `db:"name"`
	Type             string    `db:"type"`
	StartDate        time.Time `db:"start_date"`
	Timezone         string    `db:"timezone"`
	Distance         float64   `db:"distance"`          // meters
	MovingTime       int       `db:"moving_time"`       // seconds
	ElapsedTime      int       `db:"elapsed_time"`      // seconds
	AverageHeartrate *float64  `db:"average_heartrate"` // bpm, nullable
	AverageWatts     *float64  `db:"average_watts"`     // cycling only, nullable
	Calories         *float64  `db:"calories"`          // nullable
	StartLat         *float64  `db:"start_lat"`         // nullable
	StartLng         *float64  `db:"start_lng"`         // nullable
	SummaryPolyline  *string   `db:"summary_polyline"`  // encoded polyline, nullable
}

// HasStartCoords reports whether the activity has a recorded start position.
func (a *Activity) HasStartCoords() bool {
	return a.StartLat != nil && a.StartLng != nil
}

// Recovery represents a Whoop recovery record.
type Recovery struct {
	CycleID          int64     `db:"cycle_id"`
	ScoredAt         time.Time `db:"scored_at"`
	RecoveryScore    *float64  `db:"recovery_score"`     // 0-100, nullable
	RestingHeartRate *float64  `db:"resting_heart_rate"` // bpm, nullable
	HRV              *float64  `db:"hrv"`                // rMSSD in ms, nullable
}

// Auth holds OAuth tokens for one connected provider ("strava" or "whoop").
type Auth struct {
	Provider     string    `db:"provider"`
	UserID       string    `db:"user_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}
