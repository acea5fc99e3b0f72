// Package routes detects recurring training routes in activity history.
// Activities are clustered by start position and total distance; clusters
// that recur often enough surface as routes with a best-vs-latest time
// comparison.
package routes

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"trainlog/internal/polyline"
	"trainlog/internal/store"
)

// Config holds the matching thresholds. Zero values are not meaningful;
// start from DefaultConfig and override fields as needed.
type Config struct {
	StartToleranceMeters float64 // max start separation from the cluster anchor
	DistanceTolerance    float64 // max relative distance diff vs the anchor
	MinDistanceMeters    float64 // activities at or below this are ignored
	MinMovingTimeSec     int     // activities at or below this are ignored
	MinOccurrences       int     // members needed for a cluster to count as recurring
}

// DefaultConfig returns the standard matching thresholds
func DefaultConfig() Config {
	return Config{
		StartToleranceMeters: 200,
		DistanceTolerance:    0.10,
		MinDistanceMeters:    500,
		MinMovingTimeSec:     120,
		MinOccurrences:       2,
	}
}

// Summary describes one recurring route
type Summary struct {
	Name        string  // most common activity name among members
	Count       int     // number of times the route was run
	Type        string  // activity type of the cluster anchor
	AvgDistance float64 // mean member distance, meters

	BestTime int // fastest moving time, seconds
	BestDate time.Time
	LastTime int // most recent run's moving time, seconds
	LastDate time.Time
	TimeDiff int // LastTime - BestTime; positive means the latest run was slower

	Polyline     string // track of the most recent run
	BestPolyline string // track of the fastest run

	Activities []store.Activity // all members, newest first
}

// candidate pairs an activity with its resolved start coordinate
type candidate struct {
	activity store.Activity
	start    polyline.Point
}

// cluster groups activities judged to be the same physical route.
// Membership is always tested against the anchor, the first activity added.
type cluster struct {
	anchor  candidate
	members []store.Activity
}

// FindTopRoutes groups activities of the given types into recurring routes
// and returns the topN most frequent ones, most frequent first.
//
// Matching is a greedy single pass: each activity joins the first existing
// cluster whose anchor starts within cfg.StartToleranceMeters and whose
// anchor distance differs by at most cfg.DistanceTolerance, otherwise it
// opens a new cluster. The grouping therefore depends on input order; two
// near-identical routes can split when their recordings arrive in an
// unlucky order.
func FindTopRoutes(activities []store.Activity, types []string, topN int, cfg Config) []Summary {
	candidates := filterCandidates(activities, types, cfg)
	if len(candidates) == 0 {
		return nil
	}

	var clusters []*cluster

	for _, c := range candidates {
		matched := false

		for _, cl := range clusters {
			startDist := Haversine(c.start, cl.anchor.start)
			refDist := cl.anchor.activity.Distance
			distDiff := abs(c.activity.Distance-refDist) / refDist

			if startDist <= cfg.StartToleranceMeters && distDiff <= cfg.DistanceTolerance {
				cl.members = append(cl.members, c.activity)
				matched = true
				break
			}
		}

		if !matched {
			clusters = append(clusters, &cluster{
				anchor:  c,
				members: []store.Activity{c.activity},
			})
		}
	}

	// Only clusters that recur
	recurring := clusters[:0]
	for _, cl := range clusters {
		if len(cl.members) >= cfg.MinOccurrences {
			recurring = append(recurring, cl)
		}
	}

	// Most frequent first; ties keep encounter order
	sort.SliceStable(recurring, func(i, j int) bool {
		return len(recurring[i].members) > len(recurring[j].members)
	})

	if topN > 0 && len(recurring) > topN {
		recurring = recurring[:topN]
	}

	summaries := make([]Summary, 0, len(recurring))
	for _, cl := range recurring {
		summaries = append(summaries, summarize(cl))
	}

	return summaries
}

// filterCandidates keeps activities that can participate in route matching:
// requested type, meaningful distance and duration, a resolvable start
// coordinate, and a recorded track.
func filterCandidates(activities []store.Activity, types []string, cfg Config) []candidate {
	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	var candidates []candidate
	for i := range activities {
		a := activities[i]

		if !typeSet[a.Type] {
			continue
		}
		if a.Distance <= cfg.MinDistanceMeters {
			continue
		}
		if a.MovingTime <= cfg.MinMovingTimeSec {
			continue
		}
		if a.SummaryPolyline == nil || *a.SummaryPolyline == "" {
			continue
		}

		start, ok := startPoint(&a)
		if !ok {
			continue
		}

		candidates = append(candidates, candidate{activity: a, start: start})
	}

	return candidates
}

// summarize computes the display stats for one recurring route
func summarize(cl *cluster) Summary {
	members := cl.members

	// Newest first
	sorted := make([]store.Activity, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.After(sorted[j].StartDate)
	})
	latest := sorted[0]

	// Fastest run; the first encountered wins on ties
	best := members[0]
	for _, m := range members[1:] {
		if m.MovingTime < best.MovingTime {
			best = m
		}
	}

	distances := make([]float64, len(members))
	for i, m := range members {
		distances[i] = m.Distance
	}
	avgDistance, _ := stats.Mean(distances)

	return Summary{
		Name:         canonicalName(members),
		Count:        len(members),
		Type:         cl.anchor.activity.Type,
		AvgDistance:  avgDistance,
		BestTime:     best.MovingTime,
		BestDate:     best.StartDate,
		LastTime:     latest.MovingTime,
		LastDate:     latest.StartDate,
		TimeDiff:     latest.MovingTime - best.MovingTime,
		Polyline:     trackOf(&latest),
		BestPolyline: trackOf(&best),
		Activities:   sorted,
	}
}

// canonicalName returns the most frequent activity name among the members;
// the first name to reach the winning count wins ties
func canonicalName(members []store.Activity) string {
	counts := make(map[string]int, len(members))

	bestName := ""
	bestCount := 0
	for _, m := range members {
		name := m.Name
		if name == "" {
			name = "Unnamed"
		}
		counts[name]++
		if counts[name] > bestCount {
			bestCount = counts[name]
			bestName = name
		}
	}

	return bestName
}

func trackOf(a *store.Activity) string {
	if a.SummaryPolyline == nil {
		return ""
	}
	return *a.SummaryPolyline
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
