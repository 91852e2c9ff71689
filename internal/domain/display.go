package domain

import (
	"math"
	"strconv"
	"strings"
)

// NearbyOffset stands in for the distance phrase when the location names the
// place directly, e.g. "Fiji region" renders as "Near the" / "Fiji region".
const NearbyOffset = "Near the"

// offsetSeparator ends the distance/direction phrase, e.g. "5km NW of ".
const offsetSeparator = "of "

// MagnitudeBucket is an opaque severity class used by renderers to pick a color.
type MagnitudeBucket int

const (
	Magnitude1 MagnitudeBucket = iota + 1
	Magnitude2
	Magnitude3
	Magnitude4
	Magnitude5
	Magnitude6
	Magnitude7
	Magnitude8
	Magnitude9
	Magnitude10Plus
)

// AllBuckets lists every bucket in ascending severity.
var AllBuckets = []MagnitudeBucket{
	Magnitude1, Magnitude2, Magnitude3, Magnitude4, Magnitude5,
	Magnitude6, Magnitude7, Magnitude8, Magnitude9, Magnitude10Plus,
}

func (b MagnitudeBucket) String() string {
	if b == Magnitude10Plus {
		return "magnitude10plus"
	}
	if b >= Magnitude1 && b < Magnitude10Plus {
		return "magnitude" + strconv.Itoa(int(b))
	}
	return "magnitude_unknown"
}

// MarshalText encodes the bucket by name so sink consumers never depend on the
// numeric value.
func (b MagnitudeBucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText parses a bucket name produced by MarshalText.
func (b *MagnitudeBucket) UnmarshalText(text []byte) error {
	parsed, ok := ParseBucket(string(text))
	if !ok {
		return &UnknownBucketError{Name: string(text)}
	}
	*b = parsed
	return nil
}

// ParseBucket looks up a bucket by its text form ("magnitude3", "magnitude10plus").
func ParseBucket(name string) (MagnitudeBucket, bool) {
	for _, b := range AllBuckets {
		if b.String() == name {
			return b, true
		}
	}
	return 0, false
}

// UnknownBucketError reports a bucket name that does not match any bucket.
type UnknownBucketError struct {
	Name string
}

func (e *UnknownBucketError) Error() string {
	return "unknown magnitude bucket " + strconv.Quote(e.Name)
}

// FormatMagnitude renders a magnitude with exactly one fractional digit,
// e.g. 3.24 -> "3.2", 3 -> "3.0", 10 -> "10.0".
func FormatMagnitude(magnitude float64) string {
	return strconv.FormatFloat(magnitude, 'f', 1, 64)
}

// MagnitudeColorBucket classifies a magnitude by its floor:
// <=1 -> Magnitude1, 2..9 -> the matching bucket, >=10 -> Magnitude10Plus.
// Negative magnitudes land in Magnitude1.
func MagnitudeColorBucket(magnitude float64) MagnitudeBucket {
	floor := math.Floor(magnitude)
	switch {
	case floor <= 1:
		return Magnitude1
	case floor >= 10:
		return Magnitude10Plus
	default:
		return MagnitudeBucket(int(floor))
	}
}

// SplitLocationResult holds the two display parts of a location string.
type SplitLocationResult struct {
	Offset       string
	NearestPlace string
}

// SplitLocation splits a feed location into its distance phrase and the place
// it is relative to: "5km NW of Ridgecrest, CA" -> "5km NW of " + "Ridgecrest, CA".
// Both detection and splitting key on the first "of " (with trailing space), so
// "10km N of" with no trailing space is treated as a plain place name.
func SplitLocation(location string) SplitLocationResult {
	i := strings.Index(location, offsetSeparator)
	if i < 0 {
		return SplitLocationResult{Offset: NearbyOffset, NearestPlace: location}
	}
	cut := i + len(offsetSeparator)
	return SplitLocationResult{Offset: location[:cut], NearestPlace: location[cut:]}
}

// Transform derives the display fields for a quake. It is pure: the same quake
// and config always produce an identical result.
func Transform(q Quake, cfg DisplayConfig) DisplayFields {
	loc := SplitLocation(q.Location())
	return DisplayFields{
		MagnitudeText:    FormatMagnitude(q.Magnitude()),
		ColorBucket:      MagnitudeColorBucket(q.Magnitude()),
		OffsetText:       loc.Offset,
		NearestPlaceText: loc.NearestPlace,
		DateText:         FormatDate(q.OccurredAtMillis(), cfg),
		TimeText:         FormatTime(q.OccurredAtMillis(), cfg),
	}
}
