// Command genmock writes a deterministic synthetic USGS GeoJSON feed and the
// display rows the ETL produces for it. It runs the real transformer so the
// rows fixture matches pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -feed-out data/mock/quakes_240426.geojson \
//	  -rows-out data/mock/quakes_240426_rows.json \
//	  -count 200 -seed 240426
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/couchcryptid/quake-report-etl/internal/domain"
	"github.com/couchcryptid/quake-report-etl/internal/mockfeed"
	"github.com/couchcryptid/quake-report-etl/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

var baseDate = time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	feedOut := flag.String("feed-out", "", "output path for the GeoJSON feed fixture")
	rowsOut := flag.String("rows-out", "", "output path for the display rows fixture")
	count := flag.Int("count", 200, "number of features to generate")
	seed := flag.Uint64("seed", 240426, "random seed")
	timeZone := flag.String("tz", "UTC", "display time zone for the rows fixture")
	locale := flag.String("locale", "en-US", "display locale for the rows fixture")
	flag.Parse()

	if *feedOut == "" || *rowsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -feed-out, -rows-out")
	}
	if *count <= 0 {
		return fmt.Errorf("-count must be positive, got %d", *count)
	}

	display, err := domain.NewDisplayConfig(*timeZone, *locale)
	if err != nil {
		return err
	}

	fc := mockfeed.New(*seed, baseDate).Collection(*count)

	// Fixed clock for reproducible ProcessedAt timestamps.
	transformer := pipeline.NewTransformer(display,
		clockwork.NewFakeClockAt(baseDate.Add(30*time.Hour)),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	rows := make([]domain.DisplayRow, 0, len(fc.Features))
	for _, f := range fc.Features {
		value, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("marshal feature %s: %w", f.ID, err)
		}
		row, err := transformer.Transform(context.Background(), domain.RawEvent{Key: []byte(f.ID), Value: value})
		if err != nil {
			return fmt.Errorf("transform feature %s: %w", f.ID, err)
		}
		rows = append(rows, row)
	}

	if err := writeJSON(*feedOut, fc); err != nil {
		return fmt.Errorf("writing feed fixture: %w", err)
	}
	log.Printf("wrote feed fixture: %s (%d features)", *feedOut, len(fc.Features))

	if err := writeJSON(*rowsOut, rows); err != nil {
		return fmt.Errorf("writing rows fixture: %w", err)
	}
	log.Printf("wrote rows fixture: %s", *rowsOut)

	printStats(rows)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats reports the bucket and location distribution for updating test assertions.
func printStats(rows []domain.DisplayRow) {
	buckets := map[domain.MagnitudeBucket]int{}
	var fallbacks int
	for i := range rows {
		buckets[rows[i].Display.ColorBucket]++
		if rows[i].Display.OffsetText == domain.NearbyOffset {
			fallbacks++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(rows))
	fmt.Print("By bucket:")
	for _, b := range domain.AllBuckets {
		fmt.Printf(" %s=%d", b, buckets[b])
	}
	fmt.Println()
	fmt.Printf("\"Near the\" fallbacks: %d\n", fallbacks)
}
