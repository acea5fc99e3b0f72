package whoop

import "time"

// RecoveryPage is one page of recovery records. NextToken is empty on the
// last page.
type RecoveryPage struct {
	Records   []Recovery `json:"records"`
	NextToken string     `json:"next_token"`
}

// Recovery is a daily recovery record from the Whoop API
type Recovery struct {
	CycleID    int64     `json:"cycle_id"`
	SleepID    int64     `json:"sleep_id"`
	UserID     int64     `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ScoreState string    `json:"score_state"` // SCORED, PENDING_SCORE or UNSCORABLE

	// Score is null until the record reaches SCORED
	Score *RecoveryScore `json:"score"`
}

// RecoveryScore holds the scored physiological metrics
type RecoveryScore struct {
	UserCalibrating  bool    `json:"user_calibrating"`
	RecoveryScore    float64 `json:"recovery_score"`
	RestingHeartRate float64 `json:"resting_heart_rate"`
	HRVRmssdMilli    float64 `json:"hrv_rmssd_milli"`
	SpO2Percentage   float64 `json:"spo2_percentage"`
	SkinTempCelsius  float64 `json:"skin_temp_celsius"`
}

// Scored reports whether the record carries usable score data
func (r *Recovery) Scored() bool {
	return r.ScoreState == "SCORED" && r.Score != nil
}
