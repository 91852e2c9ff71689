package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidMagnitude is returned when a magnitude is NaN or infinite.
	ErrInvalidMagnitude = errors.New("magnitude must be a finite number")

	// ErrMissingMagnitude is returned when a feed feature carries no "mag" value.
	ErrMissingMagnitude = errors.New("feature has no magnitude")
)

// Quake is an immutable earthquake observation as reported by the upstream feed.
// Derived display values are never stored on it; see Transform.
type Quake struct {
	id               string
	magnitude        float64
	location         string
	occurredAtMillis int64
	detailURL        string
}

// NewQuake validates the raw fields and returns a Quake. It is the only place
// input is checked: the display functions assume a finite magnitude.
func NewQuake(id string, magnitude float64, location string, occurredAtMillis int64, detailURL string) (Quake, error) {
	if math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return Quake{}, fmt.Errorf("new quake %q: %w", id, ErrInvalidMagnitude)
	}
	return Quake{
		id:               id,
		magnitude:        magnitude,
		location:         location,
		occurredAtMillis: occurredAtMillis,
		detailURL:        detailURL,
	}, nil
}

// ID returns the upstream feature id. It may be empty.
func (q Quake) ID() string { return q.id }

// Magnitude returns the seismic magnitude.
func (q Quake) Magnitude() float64 { return q.magnitude }

// Location returns the free-text place description, e.g. "5km NW of Ridgecrest, CA".
func (q Quake) Location() string { return q.location }

// OccurredAtMillis returns the event time in Unix epoch milliseconds.
func (q Quake) OccurredAtMillis() int64 { return q.occurredAtMillis }

// OccurredAt returns the event time as a UTC time.Time.
func (q Quake) OccurredAt() time.Time { return time.UnixMilli(q.occurredAtMillis).UTC() }

// DetailURL returns the opaque reference to the event detail page.
func (q Quake) DetailURL() string { return q.detailURL }

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// DisplayFields is everything a list row needs to render one quake.
type DisplayFields struct {
	MagnitudeText    string          `json:"magnitude_text"`
	ColorBucket      MagnitudeBucket `json:"color_bucket"`
	OffsetText       string          `json:"offset_text"`
	NearestPlaceText string          `json:"nearest_place_text"`
	DateText         string          `json:"date_text"`
	TimeText         string          `json:"time_text"`
}

// DisplayRow is the serialized form destined for the sink topic: the display
// fields plus what a renderer needs to link the row back to its source.
type DisplayRow struct {
	ID          string        `json:"id"`
	DetailURL   string        `json:"detail_url"`
	OccurredAt  time.Time     `json:"occurred_at"`
	Display     DisplayFields `json:"display"`
	ProcessedAt time.Time     `json:"processed_at"`
}
