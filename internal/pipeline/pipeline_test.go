package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/quake-report-etl/internal/domain"
	"github.com/couchcryptid/quake-report-etl/internal/observability"
	"github.com/couchcryptid/quake-report-etl/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

// mockExtractor hands out its events as a single batch, then blocks until the
// context is cancelled to simulate waiting for messages.
type mockExtractor struct {
	events  []domain.RawEvent
	drained atomic.Bool
	err     error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.events) > 0 && !m.drained.Swap(true) {
		return m.events, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

type mockLoader struct {
	loaded []domain.DisplayRow
	err    error
	calls  int
}

func (m *mockLoader) LoadBatch(_ context.Context, rows []domain.DisplayRow) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, rows...)
	return nil
}

var processedAt = time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTransformer() *pipeline.QuakeTransformer {
	return pipeline.NewTransformer(domain.DisplayConfig{}, clockwork.NewFakeClockAt(processedAt), discardLogger())
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	ext := &mockExtractor{events: []domain.RawEvent{
		makeRawEvent(t, "ci1", 3.4, "5km NW of Example City", 0),
		makeRawEvent(t, "ci2", 7.8, "Fiji region", 0),
	}}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, newTestTransformer(), ldr, discardLogger(), metrics, 50)
	require.Error(t, p.CheckReadiness(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, "ci1", ldr.loaded[0].ID)
	assert.Equal(t, domain.Magnitude3, ldr.loaded[0].Display.ColorBucket)
	assert.Equal(t, "Near the", ldr.loaded[1].Display.OffsetText)
	assert.True(t, p.Ready())
	require.NoError(t, p.CheckReadiness(context.Background()))

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.MessagesConsumed), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.MessagesProduced), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RowsByBucket.WithLabelValues("magnitude3")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RowsByBucket.WithLabelValues("magnitude7")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.LocationFallbacks), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PipelineRunning), 0)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no events, will block
	ldr := &mockLoader{}

	p := pipeline.New(ext, newTestTransformer(), ldr, discardLogger(), newTestMetrics(), 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, ldr.loaded)
	assert.False(t, p.Ready())
}

func TestPipeline_Run_TransformErrorSkipsAndCommits(t *testing.T) {
	var commits atomic.Int32
	bad := domain.RawEvent{
		Key:    []byte("bad"),
		Value:  []byte(`{"id":"bad","properties":{"mag":null}}`),
		Commit: func(_ context.Context) error { commits.Add(1); return nil },
	}
	good := makeRawEvent(t, "good", 2.5, "3km S of Example City", 0)
	good.Commit = func(_ context.Context) error { commits.Add(1); return nil }

	ext := &mockExtractor{events: []domain.RawEvent{bad, good}}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, newTestTransformer(), ldr, discardLogger(), metrics, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, "good", ldr.loaded[0].ID)
	assert.Equal(t, int32(2), commits.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.TransformErrors), 0)
}

func TestPipeline_Run_AllTransformsFail(t *testing.T) {
	ext := &mockExtractor{events: []domain.RawEvent{{Value: []byte("not json")}}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, newTestTransformer(), ldr, discardLogger(), newTestMetrics(), 50)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
	assert.Zero(t, ldr.calls)
	assert.False(t, p.Ready())
}

func TestPipeline_Run_LoadErrorDoesNotCommit(t *testing.T) {
	commitCalled := false
	raw := makeRawEvent(t, "evt-5", 4.1, "12km E of Example City", 0)
	raw.Commit = func(_ context.Context) error {
		commitCalled = true
		return nil
	}

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	ldr := &mockLoader{err: errors.New("broker unavailable")}

	p := pipeline.New(ext, newTestTransformer(), ldr, discardLogger(), newTestMetrics(), 50)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Equal(t, 1, ldr.calls)
	assert.False(t, commitCalled)
	assert.False(t, p.Ready())
}

func TestPipeline_Run_ExtractErrorStopsOnCancel(t *testing.T) {
	ext := &mockExtractor{err: errors.New("fetch failed")}
	ldr := &mockLoader{}

	p := pipeline.New(ext, newTestTransformer(), ldr, discardLogger(), newTestMetrics(), 50)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	require.NoError(t, p.Run(ctx))
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	commitCalled := false

	raw := makeRawEvent(t, "evt-5", 1.2, "2km N of Example City", 0)
	raw.Topic = "raw-quake-features"
	raw.Commit = func(_ context.Context) error {
		commitCalled = true
		return nil
	}

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, newTestTransformer(), ldr, discardLogger(), newTestMetrics(), 50)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.True(t, commitCalled)
}

func TestQuakeTransformer_Transform(t *testing.T) {
	occurred := time.Date(1984, time.March, 3, 16, 30, 0, 0, time.UTC)
	raw := makeRawEvent(t, "nc123", 5.04, "7km WSW of Example City", occurred.UnixMilli())

	row, err := newTestTransformer().Transform(context.Background(), raw)
	require.NoError(t, err)

	expected := domain.DisplayRow{
		ID:         "nc123",
		DetailURL:  "https://earthquake.usgs.gov/earthquakes/eventpage/nc123",
		OccurredAt: occurred,
		Display: domain.DisplayFields{
			MagnitudeText:    "5.0",
			ColorBucket:      domain.Magnitude5,
			OffsetText:       "7km WSW of ",
			NearestPlaceText: "Example City",
			DateText:         "Mar 03, 1984",
			TimeText:         "4:30 PM",
		},
		ProcessedAt: processedAt,
	}
	if diff := cmp.Diff(expected, row); diff != "" {
		t.Fatalf("display row mismatch (-want +got):\n%s", diff)
	}
}

func TestQuakeTransformer_Idempotent(t *testing.T) {
	raw := makeRawEvent(t, "us9", 6.66, "Near Coast of Example Country", 1700000000000)
	tfm := newTestTransformer()

	first, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)
	second, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestQuakeTransformer_InvalidMessage(t *testing.T) {
	_, err := newTestTransformer().Transform(context.Background(), domain.RawEvent{Value: []byte("not json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse quake feature")
}

// --- helpers ---

func makeRawEvent(t *testing.T, id string, mag float64, place string, timeMillis int64) domain.RawEvent {
	t.Helper()
	q, err := domain.NewQuake(id, mag, place, timeMillis, "https://earthquake.usgs.gov/earthquakes/eventpage/"+id)
	require.NoError(t, err)
	data, err := json.Marshal(domain.NewFeature(q))
	require.NoError(t, err)
	return domain.RawEvent{
		Key:   []byte(id),
		Value: data,
	}
}
