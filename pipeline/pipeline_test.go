package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"behaviorlytics/api/database"
	"behaviorlytics/api/metrics"
	"behaviorlytics/api/models"
	"behaviorlytics/api/store"
)

func setupStores(t *testing.T) (*store.SQLEventStore, *store.SQLPatternStore) {
	t.Helper()
	db, err := database.NewSQLDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(context.Background()))
	return store.NewSQLEventStore(db), store.NewSQLPatternStore(db)
}

// flakyStore fails every other query.
type flakyStore struct {
	store.EventStore
	calls atomic.Int32
}

func (f *flakyStore) Query(ctx context.Context, filter store.EventFilter) ([]models.InteractionEvent, error) {
	if f.calls.Add(1)%2 == 1 {
		return nil, models.ErrUpstreamUnavailable
	}
	return f.EventStore.Query(ctx, filter)
}

func seedSequence(t *testing.T, events *store.SQLEventStore) {
	t.Helper()
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	var batch []models.InteractionEvent
	for i, action := range []string{"view", "click", "buy", "view", "click", "buy"} {
		batch = append(batch, models.InteractionEvent{
			UserID:    "u1",
			Action:    action,
			Page:      "/shop",
			Timestamp: start.Add(time.Duration(i) * time.Minute),
		})
	}
	require.NoError(t, events.AppendBatch(context.Background(), batch))
}

func TestProcessBatchStoresUserPatterns(t *testing.T) {
	ctx := context.Background()
	events, patterns := setupStores(t)
	seedSequence(t, events)

	m := metrics.New()
	p := New(events, patterns, m, time.Minute, 1000)

	n, err := p.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := patterns.ListPatterns(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, models.PatternCommonSequence, stored[0].PatternType)
	assert.JSONEq(t, `{"type":"common_sequence","user_id":"u1","sequence":["view","click","buy"],"frequency":2,"confidence":0.97}`, string(stored[0].Details))

	// peak hour, peak day, sequence, favorite page
	assert.Equal(t, 4.0, testutil.ToFloat64(m.PatternsDetected))
}

func TestProcessBatchEmptyWindow(t *testing.T) {
	events, patterns := setupStores(t)
	p := New(events, patterns, metrics.New(), time.Minute, 1000)

	n, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunSurvivesFailedCycles(t *testing.T) {
	events, patterns := setupStores(t)
	seedSequence(t, events)

	m := metrics.New()
	p := New(&flakyStore{EventStore: events}, patterns, m, 5*time.Millisecond, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		s := p.Stats()
		return s.SuccessfulCycles >= 2 && s.FailedCycles >= 2
	}, 5*time.Second, 5*time.Millisecond)
	assert.True(t, p.Stats().Running)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not stop after cancel")
	}

	snap := p.Stats()
	assert.False(t, snap.Running)
	assert.NotNil(t, snap.LastRunAt)
	assert.Greater(t, snap.UptimePercentage, 0.0)
	assert.Less(t, snap.UptimePercentage, 100.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.PipelineCycles.WithLabelValues("failure")), 2.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.PipelineCycles.WithLabelValues("success")), 2.0)
}

func TestStatsUptime(t *testing.T) {
	var s Stats
	assert.Zero(t, s.snapshot().UptimePercentage)
	assert.Nil(t, s.snapshot().LastRunAt)

	now := time.Now()
	s.recordSuccess(now)
	s.recordSuccess(now)
	s.recordSuccess(now)
	pct := s.recordFailure(now, errors.New("boom"))

	assert.Equal(t, 75.0, pct)
	snap := s.snapshot()
	assert.Equal(t, 3, snap.SuccessfulCycles)
	assert.Equal(t, 1, snap.FailedCycles)
	assert.Equal(t, "boom", snap.LastError)
}
