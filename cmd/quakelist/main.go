// Command quakelist renders a USGS GeoJSON feed as a terminal quake list:
// one row per quake with a colored magnitude badge, the location split into
// offset and nearest place, and the local date and time.
//
// Usage:
//
//	curl -s https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson |
//	  go run ./cmd/quakelist -feed - -tz America/Los_Angeles -limit 20
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/couchcryptid/quake-report-etl/internal/domain"
	"github.com/couchcryptid/quake-report-etl/internal/theme"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "quakelist:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("quakelist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	feed := fs.String("feed", "-", "GeoJSON feed file, or - for stdin")
	palettePath := fs.String("theme", "", "TOML palette overriding bucket colors")
	timeZone := fs.String("tz", "Local", "display time zone")
	locale := fs.String("locale", "en-US", "display locale")
	limit := fs.Int("limit", 0, "show at most this many rows (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	display, err := domain.NewDisplayConfig(*timeZone, *locale)
	if err != nil {
		return err
	}
	palette, err := theme.LoadPalette(*palettePath)
	if err != nil {
		return err
	}

	data, err := readFeed(*feed, stdin)
	if err != nil {
		return err
	}
	quakes, rejected, err := domain.ParseFeatureCollection(data)
	if err != nil {
		return err
	}
	for _, r := range rejected {
		logger.Warn("skipping feature", "error", r)
	}

	if *limit > 0 && len(quakes) > *limit {
		quakes = quakes[:*limit]
	}

	rows := make([]domain.DisplayFields, 0, len(quakes))
	for _, q := range quakes {
		rows = append(rows, domain.Transform(q, display))
	}

	styles := theme.NewRowStyles(palette)
	_, err = fmt.Fprintln(stdout, styles.RenderList(rows))
	return err
}

func readFeed(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read feed: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return data, nil
}
