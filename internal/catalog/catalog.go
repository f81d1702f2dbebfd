// Package catalog defines the closed set of dashboard keys known to the site.
package catalog

// Station describes one solar installation with a public dashboard.
type Station struct {
	// Key is the dashboard key used in routes and session assignments.
	Key string
	// SourceKey is the identifier the backend KPI API uses for this station.
	// It differs from Key for stations whose data feed predates the dashboard.
	SourceKey string
	// DisplayName is the label shown on the picker and dashboard header.
	DisplayName string
	// PollSeafdecEndpoints selects the legacy /api/seafdec/kpi/* endpoints
	// instead of the generic /api/kpi/{sourceKey}/* ones.
	PollSeafdecEndpoints bool
}

// stations is the fixed catalog. Dashboard keys are case-sensitive and match
// the route table exactly; there is no runtime registration.
var stations = []Station{
	{Key: "seafdec", SourceKey: "seafdec", DisplayName: "SEAFDEC", PollSeafdecEndpoints: true},
	{Key: "A1", SourceKey: "yipintsoi", DisplayName: "A1"},
	{Key: "B1", SourceKey: "B1", DisplayName: "B1"},
	{Key: "C1", SourceKey: "C1", DisplayName: "C1"},
	{Key: "D1", SourceKey: "D1", DisplayName: "D1"},
}

// Lookup returns the station for a dashboard key.
// Unknown keys return false; callers must treat that as not-found before any
// backend traffic happens.
func Lookup(key string) (Station, bool) {
	for _, s := range stations {
		if s.Key == key {
			return s, true
		}
	}
	return Station{}, false
}

// Valid reports whether key is a known dashboard key.
func Valid(key string) bool {
	_, ok := Lookup(key)
	return ok
}

// All returns the catalog in display order.
func All() []Station {
	out := make([]Station, len(stations))
	copy(out, stations)
	return out
}
