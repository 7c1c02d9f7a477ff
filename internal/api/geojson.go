package api

import (
	"encoding/json"
	"fmt"

	"github.com/thesavant42/quakewatch/internal/models"
)

// featureCollection is the top level of a GeoJSON event response.
// Features stay raw so one bad entry can't sink the rest.
type featureCollection struct {
	Features *[]json.RawMessage `json:"features"`
}

type feature struct {
	Properties *featureProperties `json:"properties"`
}

// Pointers distinguish a missing property from a zero value
type featureProperties struct {
	Mag   *float64 `json:"mag"`
	Place *string  `json:"place"`
	Time  *int64   `json:"time"`
	URL   *string  `json:"url"`
}

// ParseEarthquakes decodes a GeoJSON body into earthquakes in feature order.
// A feature with a missing or mistyped mag, place, time or url is logged and
// skipped. Unparsable input yields an empty, non-nil slice.
func (c *Client) ParseEarthquakes(body string) []models.Earthquake {
	quakes := make([]models.Earthquake, 0)

	var fc featureCollection
	if err := json.Unmarshal([]byte(body), &fc); err != nil {
		c.warn("Problem parsing the earthquake JSON results", "error", err)
		return quakes
	}
	if fc.Features == nil {
		c.warn("Earthquake JSON has no features array")
		return quakes
	}

	skipped := 0
	for i, raw := range *fc.Features {
		quake, err := decodeFeature(raw)
		if err != nil {
			skipped++
			c.warn("Skipping malformed feature", "index", i, "error", err)
			continue
		}
		quakes = append(quakes, quake)
	}

	if c.metrics != nil {
		c.metrics.FeaturesDecoded.Add(float64(len(quakes)))
		c.metrics.FeaturesSkipped.Add(float64(skipped))
	}
	return quakes
}

// ParseEarthquakes decodes body without logging or metrics
func ParseEarthquakes(body string) []models.Earthquake {
	return (&Client{}).ParseEarthquakes(body)
}

func decodeFeature(raw json.RawMessage) (models.Earthquake, error) {
	var f feature
	if err := json.Unmarshal(raw, &f); err != nil {
		return models.Earthquake{}, err
	}
	p := f.Properties
	if p == nil {
		return models.Earthquake{}, fmt.Errorf("missing properties")
	}

	switch {
	case p.Mag == nil:
		return models.Earthquake{}, fmt.Errorf("missing mag")
	case p.Place == nil:
		return models.Earthquake{}, fmt.Errorf("missing place")
	case p.Time == nil:
		return models.Earthquake{}, fmt.Errorf("missing time")
	case p.URL == nil:
		return models.Earthquake{}, fmt.Errorf("missing url")
	}

	return models.Earthquake{
		Magnitude: *p.Mag,
		Location:  *p.Place,
		Time:      *p.Time,
		URL:       *p.URL,
	}, nil
}
