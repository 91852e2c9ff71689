package domain

import (
	"encoding/json"
	"fmt"
)

// FeatureProperties is the subset of USGS GeoJSON feature properties the list
// display uses. Mag is a pointer because the feed sends null for unmeasured events.
type FeatureProperties struct {
	Mag   *float64 `json:"mag"`
	Place string   `json:"place"`
	Time  int64    `json:"time"`
	URL   string   `json:"url"`
}

// Feature is one earthquake entry of a USGS GeoJSON feed.
type Feature struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Properties FeatureProperties `json:"properties"`
}

// FeatureCollection is a USGS GeoJSON feed document.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// ParseRawEvent deserializes a source message holding one GeoJSON feature.
// The message key is used as the id when the feature has none.
func ParseRawEvent(raw RawEvent) (Quake, error) {
	q, err := ParseFeature(raw.Value)
	if err != nil {
		return Quake{}, err
	}
	if q.ID() == "" && len(raw.Key) > 0 {
		q.id = string(raw.Key)
	}
	return q, nil
}

// ParseFeature decodes a single GeoJSON feature into a validated Quake.
func ParseFeature(data []byte) (Quake, error) {
	var f Feature
	if err := json.Unmarshal(data, &f); err != nil {
		return Quake{}, fmt.Errorf("parse quake feature: %w", err)
	}
	q, err := f.Quake()
	if err != nil {
		return Quake{}, fmt.Errorf("parse quake feature: %w", err)
	}
	return q, nil
}

// ParseFeatureCollection decodes a feed document. Features that fail validation
// are returned separately so callers can report them without dropping the feed.
func ParseFeatureCollection(data []byte) ([]Quake, []error, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, nil, fmt.Errorf("parse quake feed: %w", err)
	}

	quakes := make([]Quake, 0, len(fc.Features))
	var rejected []error
	for i, f := range fc.Features {
		q, err := f.Quake()
		if err != nil {
			rejected = append(rejected, fmt.Errorf("feature %d (%s): %w", i, f.ID, err))
			continue
		}
		quakes = append(quakes, q)
	}
	return quakes, rejected, nil
}

// Quake validates the feature and converts it to the domain record.
func (f Feature) Quake() (Quake, error) {
	if f.Properties.Mag == nil {
		return Quake{}, ErrMissingMagnitude
	}
	return NewQuake(f.ID, *f.Properties.Mag, f.Properties.Place, f.Properties.Time, f.Properties.URL)
}

// NewFeature builds the feed representation of a quake, the inverse of Feature.Quake.
func NewFeature(q Quake) Feature {
	mag := q.Magnitude()
	return Feature{
		Type: "Feature",
		ID:   q.ID(),
		Properties: FeatureProperties{
			Mag:   &mag,
			Place: q.Location(),
			Time:  q.OccurredAtMillis(),
			URL:   q.DetailURL(),
		},
	}
}
