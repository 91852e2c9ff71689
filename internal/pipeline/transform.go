package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/quake-report-etl/internal/domain"
	"github.com/jonboulle/clockwork"
)

// QuakeTransformer implements Transformer: it parses a GeoJSON feature and
// derives its display fields for the configured time zone and locale.
type QuakeTransformer struct {
	display domain.DisplayConfig
	clock   clockwork.Clock
	logger  *slog.Logger
}

// NewTransformer creates a QuakeTransformer. A nil clock uses real time for
// the ProcessedAt stamp.
func NewTransformer(display domain.DisplayConfig, clock clockwork.Clock, logger *slog.Logger) *QuakeTransformer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &QuakeTransformer{
		display: display,
		clock:   clock,
		logger:  logger,
	}
}

func (t *QuakeTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.DisplayRow, error) {
	quake, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.DisplayRow{}, err
	}

	fields := domain.Transform(quake, t.display)
	t.logger.Debug("quake transformed",
		"id", quake.ID(),
		"magnitude", fields.MagnitudeText,
		"bucket", fields.ColorBucket.String(),
	)

	return domain.DisplayRow{
		ID:          quake.ID(),
		DetailURL:   quake.DetailURL(),
		OccurredAt:  quake.OccurredAt(),
		Display:     fields,
		ProcessedAt: t.clock.Now().UTC(),
	}, nil
}
