package ui

// presenter.go turns earthquake records into display rows.
// Everything here is pure so it can be tested without a terminal.

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/thesavant42/quakewatch/internal/models"
	"golang.org/x/net/publicsuffix"
)

const (
	// LocationSeparator splits "5km NW of Springfield" into offset and place
	LocationSeparator = " of "
	// NearThe is the offset label when the location has no separator
	NearThe = "Near the"

	// BucketTenPlus catches everything outside [0, 10]
	BucketTenPlus = 10

	dateLayout = "Jan 02, 2006"
	timeLayout = "3:04 PM"
)

// QuakeRow is the view-model for one list row
type QuakeRow struct {
	Magnitude string // one decimal place
	Bucket    int    // 1..9, or BucketTenPlus
	Offset    string // "5km NW of" or "Near the"
	Primary   string // "Springfield"
	Date      string // "Mar 01, 2020"
	Time      string // "12:00 AM"
	Age       string // "3 hours ago"
	URL       string
}

// NewQuakeRow derives every display value for q. Dates and times use loc,
// age is measured from now.
func NewQuakeRow(q models.Earthquake, loc *time.Location, now time.Time) QuakeRow {
	offset, primary := SplitLocation(q.Location)
	return QuakeRow{
		Magnitude: FormatMagnitude(q.Magnitude),
		Bucket:    MagnitudeBucket(q.Magnitude),
		Offset:    offset,
		Primary:   primary,
		Date:      FormatDate(q.Time, loc),
		Time:      FormatTime(q.Time, loc),
		Age:       humanize.RelTime(EventTime(q.Time), now, "ago", "from now"),
		URL:       q.URL,
	}
}

// NewQuakeRows maps a whole result list, keeping order
func NewQuakeRows(quakes []models.Earthquake, loc *time.Location, now time.Time) []QuakeRow {
	rows := make([]QuakeRow, len(quakes))
	for i, q := range quakes {
		rows[i] = NewQuakeRow(q, loc, now)
	}
	return rows
}

// FormatMagnitude renders a magnitude with exactly one decimal place
func FormatMagnitude(mag float64) string {
	return strconv.FormatFloat(mag, 'f', 1, 64)
}

// MagnitudeBucket picks the colour bucket for a magnitude.
// Ranges are checked in ascending order and each is closed on both ends,
// so a boundary value lands in the lower bucket: 2.0 -> 1, 3.0 -> 2.
// Negative values and anything above 10 fall into BucketTenPlus.
func MagnitudeBucket(mag float64) int {
	switch {
	case mag >= 0 && mag <= 2:
		return 1
	case mag >= 2 && mag <= 3:
		return 2
	case mag >= 3 && mag <= 4:
		return 3
	case mag >= 4 && mag <= 5:
		return 4
	case mag >= 5 && mag <= 6:
		return 5
	case mag >= 6 && mag <= 7:
		return 6
	case mag >= 7 && mag <= 8:
		return 7
	case mag >= 8 && mag <= 9:
		return 8
	case mag >= 9 && mag <= 10:
		return 9
	default:
		return BucketTenPlus
	}
}

// SplitLocation separates the offset phrase from the place name.
// The split is at the first " of "; the offset keeps the word "of".
// Without a separator the offset is NearThe and the whole string is the place.
func SplitLocation(location string) (offset, primary string) {
	before, after, found := strings.Cut(location, LocationSeparator)
	if !found {
		return NearThe, location
	}
	return strings.TrimSpace(before + LocationSeparator), after
}

// EventTime converts epoch milliseconds to a time.Time
func EventTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// FormatDate renders epoch milliseconds as "Mar 01, 2020" in loc
func FormatDate(ms int64, loc *time.Location) string {
	return EventTime(ms).In(orLocal(loc)).Format(dateLayout)
}

// FormatTime renders epoch milliseconds as "4:30 PM" in loc
func FormatTime(ms int64, loc *time.Location) string {
	return EventTime(ms).In(orLocal(loc)).Format(timeLayout)
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

// SourceDomain returns the registrable domain of a detail URL, e.g.
// "https://earthquake.usgs.gov/earthquakes/eventpage/x" -> "usgs.gov".
// Unparsable URLs come back unchanged.
func SourceDomain(detailURL string) string {
	u, err := url.Parse(detailURL)
	if err != nil || u.Hostname() == "" {
		return detailURL
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(u.Hostname())
	if err != nil {
		return u.Hostname()
	}
	return domain
}
