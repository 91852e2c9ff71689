package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/couchcryptid/quake-report-etl/internal/domain"
)

const (
	placeWidth = 36
	textColor  = "#B4B4B4"
	faintColor = "#7A7A7A"
)

// RowStyles renders display fields as a list row: a colored magnitude badge,
// the offset above the nearest place, and date above time on the right.
type RowStyles struct {
	palette Palette
	badge   lipgloss.Style
	offset  lipgloss.Style
	place   lipgloss.Style
	date    lipgloss.Style
	time    lipgloss.Style
}

// NewRowStyles builds row styles for a palette.
func NewRowStyles(p Palette) RowStyles {
	return RowStyles{
		palette: p,
		badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1).
			Width(7).
			Align(lipgloss.Center),
		offset: lipgloss.NewStyle().
			Foreground(lipgloss.Color(faintColor)).
			Width(placeWidth),
		place: lipgloss.NewStyle().
			Foreground(lipgloss.Color(textColor)).
			Bold(true).
			Width(placeWidth),
		date: lipgloss.NewStyle().
			Foreground(lipgloss.Color(faintColor)).
			Align(lipgloss.Right).
			Width(14),
		time: lipgloss.NewStyle().
			Foreground(lipgloss.Color(faintColor)).
			Align(lipgloss.Right).
			Width(14),
	}
}

// Render lays out one row. The offset is upper-cased the way the list shows
// it ("5KM NW OF").
func (s RowStyles) Render(f domain.DisplayFields) string {
	badge := s.badge.Background(lipgloss.Color(s.palette.Color(f.ColorBucket))).Render(f.MagnitudeText)

	location := lipgloss.JoinVertical(lipgloss.Left,
		s.offset.Render(strings.ToUpper(strings.TrimSpace(f.OffsetText))),
		s.place.Render(f.NearestPlaceText),
	)
	when := lipgloss.JoinVertical(lipgloss.Right,
		s.date.Render(f.DateText),
		s.time.Render(f.TimeText),
	)

	return lipgloss.JoinHorizontal(lipgloss.Center, badge, " ", location, when)
}

// RenderList renders rows separated by blank lines.
func (s RowStyles) RenderList(rows []domain.DisplayFields) string {
	rendered := make([]string, 0, len(rows))
	for _, f := range rows {
		rendered = append(rendered, s.Render(f))
	}
	return strings.Join(rendered, "\n\n")
}
