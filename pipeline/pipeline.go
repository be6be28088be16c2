// Package pipeline re-runs pattern detection on a fixed interval and stores
// the user-scoped results.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"behaviorlytics/api/analytics"
	"behaviorlytics/api/metrics"
	"behaviorlytics/api/models"
	"behaviorlytics/api/store"
)

// UptimeTarget is the success ratio below which every failed cycle logs a warning.
const UptimeTarget = 99.0

type Pipeline struct {
	events   store.EventStore
	patterns store.PatternStore
	metrics  *metrics.Metrics
	interval time.Duration
	window   int
	stats    Stats
	running  atomic.Bool
	now      func() time.Time
}

func New(events store.EventStore, patterns store.PatternStore, m *metrics.Metrics, interval time.Duration, window int) *Pipeline {
	return &Pipeline{
		events:   events,
		patterns: patterns,
		metrics:  m,
		interval: interval,
		window:   window,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run processes one batch immediately and then one per interval until ctx is
// cancelled. A failed batch is logged and counted; it never stops the loop.
func (p *Pipeline) Run(ctx context.Context) {
	p.running.Store(true)
	defer p.running.Store(false)

	log.Printf("Pattern pipeline started - processing every %s", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.cycle(ctx)
		select {
		case <-ctx.Done():
			snap := p.Stats()
			log.Printf("Pattern pipeline stopped. Uptime: %.2f%%, successful cycles: %d, errors: %d",
				snap.UptimePercentage, snap.SuccessfulCycles, snap.FailedCycles)
			return
		case <-ticker.C:
		}
	}
}

func (p *Pipeline) cycle(ctx context.Context) {
	stored, err := p.ProcessBatch(ctx)
	if err != nil {
		p.metrics.PipelineCycles.WithLabelValues("failure").Inc()
		pct := p.stats.recordFailure(p.now(), err)
		log.Printf("Error in pattern pipeline: %v", err)
		if pct < UptimeTarget {
			log.Printf("WARNING: pipeline uptime dropped below %.0f%%: %.2f%%", UptimeTarget, pct)
		}
		return
	}
	p.metrics.PipelineCycles.WithLabelValues("success").Inc()
	p.stats.recordSuccess(p.now())
	log.Printf("Batch processing completed successfully, %d patterns stored", stored)
}

// ProcessBatch analyzes the most recent window of events and stores every
// pattern that belongs to a user. It returns the number of stored patterns.
func (p *Pipeline) ProcessBatch(ctx context.Context) (int, error) {
	window, err := p.events.Query(ctx, store.EventFilter{Limit: p.window})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch window: %w", err)
	}
	if len(window) == 0 {
		return 0, nil
	}
	log.Printf("Processing %d interactions...", len(window))

	patterns, err := analytics.Analyze(window, "")
	if err != nil {
		return 0, fmt.Errorf("failed to analyze window: %w", err)
	}
	p.metrics.PatternsDetected.Add(float64(len(patterns)))

	detectedAt := p.now()
	var records []models.BehaviorPattern
	for _, pattern := range patterns {
		if pattern.Owner() == "" {
			continue
		}
		record, err := models.NewBehaviorPattern(uuid.New().String(), pattern, detectedAt)
		if err != nil {
			return 0, err
		}
		records = append(records, record)
	}

	if err := p.patterns.SavePatterns(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to store patterns: %w", err)
	}
	return len(records), nil
}

// Stats returns the current cycle counters.
func (p *Pipeline) Stats() Snapshot {
	snap := p.stats.snapshot()
	snap.Running = p.running.Load()
	snap.IntervalSeconds = p.interval.Seconds()
	return snap
}
