package pipeline

import (
	"sync"
	"time"
)

// Stats counts pipeline cycles. It is owned by one Pipeline and safe to read
// from other goroutines.
type Stats struct {
	mu         sync.Mutex
	successful int
	failed     int
	lastRunAt  time.Time
	lastError  string
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Running          bool       `json:"running"`
	IntervalSeconds  float64    `json:"interval_seconds"`
	SuccessfulCycles int        `json:"successful_cycles"`
	FailedCycles     int        `json:"failed_cycles"`
	UptimePercentage float64    `json:"uptime_percentage"`
	LastRunAt        *time.Time `json:"last_run_at"`
	LastError        string     `json:"last_error,omitempty"`
}

func (s *Stats) recordSuccess(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successful++
	s.lastRunAt = at
	s.lastError = ""
}

// recordFailure returns the uptime percentage after counting the failure.
func (s *Stats) recordFailure(at time.Time, err error) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed++
	s.lastRunAt = at
	s.lastError = err.Error()
	return uptime(s.successful, s.failed)
}

func (s *Stats) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		SuccessfulCycles: s.successful,
		FailedCycles:     s.failed,
		UptimePercentage: uptime(s.successful, s.failed),
		LastError:        s.lastError,
	}
	if !s.lastRunAt.IsZero() {
		at := s.lastRunAt
		snap.LastRunAt = &at
	}
	return snap
}

func uptime(successful, failed int) float64 {
	total := successful + failed
	if total == 0 {
		return 0
	}
	return float64(successful) / float64(total) * 100
}
