package strava

import "time"

// Activity is a summary activity from the Strava API
type Activity struct {
	ID               int64       `json:"id"`
	Athlete          Athlete     `json:"athlete"`
	Name             string      `json:"name"`
	Type             string      `json:"type"`
	SportType        string      `json:"sport_type"`
	StartDate        time.Time   `json:"start_date"`
	StartDateLocal   time.Time   `json:"start_date_local"`
	Timezone         string      `json:"timezone"`
	Distance         float64     `json:"distance"`    // meters
	MovingTime       int         `json:"moving_time"` // seconds
	ElapsedTime      int         `json:"elapsed_time"`
	AverageSpeed     float64     `json:"average_speed"` // m/s
	AverageHeartrate float64     `json:"average_heartrate"`
	MaxHeartrate     float64     `json:"max_heartrate"`
	AverageWatts     float64     `json:"average_watts"`
	Kilojoules       float64     `json:"kilojoules"`
	Calories         float64     `json:"calories"`
	HasHeartrate     bool        `json:"has_heartrate"`
	DeviceWatts      bool        `json:"device_watts"`
	StartLatLng      []float64   `json:"start_latlng"` // [lat, lng], empty without GPS
	EndLatLng        []float64   `json:"end_latlng"`
	Map              ActivityMap `json:"map"`
}

// ActivityMap carries the encoded track. Summary endpoints only populate
// SummaryPolyline.
type ActivityMap struct {
	ID              string `json:"id"`
	SummaryPolyline string `json:"summary_polyline"`
	Polyline        string `json:"polyline"`
}

// Athlete is the minimal athlete reference embedded in activity responses
type Athlete struct {
	ID int64 `json:"id"`
}

// StartCoords returns the start position, or ok=false when the activity
// has no GPS fix
func (a *Activity) StartCoords() (lat, lng float64, ok bool) {
	if len(a.StartLatLng) < 2 {
		return 0, 0, false
	}
	return a.StartLatLng[0], a.StartLatLng[1], true
}
