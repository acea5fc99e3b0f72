package service

const (
	// Strava page size during sync (API maximum)
	SyncPerPage = 100

	// Pagination limits
	RecentActivitiesLimit = 10

	// Weekly volume chart span
	ChartWeeks = 12

	// How many routes to surface per sport group
	RouteTopN = 3

	// Unit conversions
	MetersPerKilometer = 1000.0
	MetersPerMile      = 1609.34
)
