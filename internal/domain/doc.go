// Package domain models USGS earthquake feed entries and derives the values a
// quake list row displays.
//
// # Data Source
//
// Records come from the USGS Earthquake Hazards Program GeoJSON feeds
// (https://earthquake.usgs.gov/earthquakes/feed/v1.0/geojson.php). Each feed
// entry is a GeoJSON Feature; only four properties matter here:
//
//	mag    magnitude, a decimal that may be null, negative, or (rarely) >= 10
//	place  free-text location, e.g. "5km NW of Ridgecrest, CA" or "Fiji region"
//	time   event time in Unix epoch milliseconds
//	url    link to the event detail page
//
// A Quake is built and validated once, in [NewQuake]. Non-finite magnitudes
// are rejected there so the display functions never have to defend against them.
//
// # Display Fields
//
// Magnitude text: one fractional digit, as many integer digits as needed
// ("3.2", "-1.0", "10.0").
//
// Color bucket: the floor of the magnitude picks one of ten buckets:
//
//	<= 1   magnitude1 (includes all negative values)
//	2..9   magnitude2 .. magnitude9
//	>= 10  magnitude10plus
//
// Buckets are opaque. Mapping a bucket to a concrete color belongs to the
// renderer (see package theme).
//
// Location: the first "of " splits the text into an offset phrase and the
// nearest place:
//
//	"5km NW of Ridgecrest, CA"  ->  "5km NW of " + "Ridgecrest, CA"
//	"Fiji region"               ->  "Near the"   + "Fiji region"
//	"10km N of"                 ->  "Near the"   + "10km N of"
//
// Date and time: "Mar 03, 1984" and "4:30 PM", rendered in the time zone and
// language of an explicit [DisplayConfig]. No process-wide defaults are read.
//
// Every function here is pure and safe for concurrent use.
package domain
