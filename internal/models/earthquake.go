package models

// Earthquake is a single event decoded from one GeoJSON feature.
// Values are taken as reported; nothing is range-checked.
type Earthquake struct {
	Magnitude float64
	Location  string // e.g. "5km NW of Springfield"
	Time      int64  // milliseconds since the Unix epoch, UTC
	URL       string // USGS event detail page
}

// SortOrder is the orderby value sent to the event API
type SortOrder string

const (
	SortByTime      SortOrder = "time"
	SortByMagnitude SortOrder = "magnitude"
)

// Filter holds the user preferences that shape a query.
// MinMagnitude and Limit are kept as the strings the user entered;
// they are sent verbatim and never re-validated here.
type Filter struct {
	OrderBy      SortOrder
	MinMagnitude string
	Limit        string
}

// DefaultFilter mirrors the preference defaults shipped with the app
func DefaultFilter() Filter {
	return Filter{
		OrderBy:      SortByTime,
		MinMagnitude: "6",
		Limit:        "10",
	}
}
