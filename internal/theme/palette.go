// Package theme owns the bucket-to-color table and list row styling used by
// renderers. The domain package only hands out opaque magnitude buckets.
package theme

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/couchcryptid/quake-report-etl/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Palette maps each magnitude bucket to a hex color, e.g. "#F5A623".
type Palette map[domain.MagnitudeBucket]string

// DefaultPalette returns the stock colors, shading from cool blue for small
// quakes through amber to deep red for the largest.
func DefaultPalette() Palette {
	return Palette{
		domain.Magnitude1:      "#4A7BA7",
		domain.Magnitude2:      "#04B4B3",
		domain.Magnitude3:      "#10CAC9",
		domain.Magnitude4:      "#F5A623",
		domain.Magnitude5:      "#FF7D50",
		domain.Magnitude6:      "#FC6644",
		domain.Magnitude7:      "#E75F40",
		domain.Magnitude8:      "#E13A20",
		domain.Magnitude9:      "#D93218",
		domain.Magnitude10Plus: "#C03823",
	}
}

// Color returns the color for a bucket, falling back to the magnitude10plus
// color for buckets the palette does not know.
func (p Palette) Color(b domain.MagnitudeBucket) string {
	if c, ok := p[b]; ok {
		return c
	}
	return DefaultPalette()[domain.Magnitude10Plus]
}

// paletteFile is the on-disk TOML layout:
//
//	[colors]
//	magnitude1 = "#4A7BA7"
//	magnitude10plus = "#C03823"
type paletteFile struct {
	Colors map[string]string `toml:"colors"`
}

// LoadPalette reads color overrides from a TOML file on top of the default
// palette. An empty path or a missing file yields the defaults.
func LoadPalette(path string) (Palette, error) {
	p := DefaultPalette()
	if path == "" {
		return p, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return nil, fmt.Errorf("open palette: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}
	if err := p.apply(data); err != nil {
		return nil, err
	}
	return p, nil
}

func (p Palette) apply(data []byte) error {
	var f paletteFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse palette: %w", err)
	}
	for name, color := range f.Colors {
		b, ok := domain.ParseBucket(name)
		if !ok {
			return fmt.Errorf("parse palette: %w", &domain.UnknownBucketError{Name: name})
		}
		if !hexColorRe.MatchString(color) {
			return fmt.Errorf("parse palette: %s: invalid color %q", name, color)
		}
		p[b] = color
	}
	return nil
}

// Encode writes the palette in the same TOML layout LoadPalette reads.
func (p Palette) Encode(w io.Writer) error {
	f := paletteFile{Colors: make(map[string]string, len(p))}
	for b, c := range p {
		f.Colors[b.String()] = c
	}
	return toml.NewEncoder(w).Encode(f)
}
