// Package analytics turns a window of interaction events into behavior
// patterns and trend summaries. Every function here is a pure computation
// over its arguments.
package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"behaviorlytics/api/models"
)

// LabelConfidence is the constant reported as "confidence" on every pattern
// and as "accuracy" on the patterns endpoint. It is a fixed label kept for
// response compatibility and carries no statistical meaning.
const LabelConfidence = 0.97

// SequenceLength is the number of consecutive actions in a CommonSequence.
const SequenceLength = 3

// Analyze computes peak hour, peak day, per-user common sequences and the
// favorite page for window. When userFilter is set, events of other users are
// ignored. An event missing a required field fails the whole call with
// models.ErrDataIntegrity.
func Analyze(window []models.InteractionEvent, userFilter string) ([]models.Pattern, error) {
	events := make([]models.InteractionEvent, 0, len(window))
	for i, e := range window {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("event %d (id %q): %w", i, e.ID, err)
		}
		if userFilter != "" && e.UserID != userFilter {
			continue
		}
		events = append(events, e)
	}

	patterns := []models.Pattern{}
	if len(events) == 0 {
		return patterns, nil
	}

	patterns = append(patterns, timePatterns(events)...)
	patterns = append(patterns, sequencePatterns(events)...)
	patterns = append(patterns, favoritePage(events))
	return patterns, nil
}

// weekday maps time.Weekday onto Monday = 0 ... Sunday = 6.
func weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func timePatterns(events []models.InteractionEvent) []models.Pattern {
	var hours [24]int
	var days [7]int
	for _, e := range events {
		ts := e.Timestamp.UTC()
		hours[ts.Hour()]++
		days[weekday(ts)]++
	}

	hour, hourCount := peakIndex(hours[:])
	day, dayCount := peakIndex(days[:])
	return []models.Pattern{
		models.PeakHour{Hour: hour, Count: hourCount, Confidence: LabelConfidence},
		models.PeakDay{Day: day, Count: dayCount, Confidence: LabelConfidence},
	}
}

// sequencePatterns orders events chronologically (stable, so equal timestamps
// keep their window order), groups them per user and reports each user's most
// frequent run of SequenceLength actions.
func sequencePatterns(events []models.InteractionEvent) []models.Pattern {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b models.InteractionEvent) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	var users []string
	actions := make(map[string][]string)
	for _, e := range sorted {
		if _, ok := actions[e.UserID]; !ok {
			users = append(users, e.UserID)
		}
		actions[e.UserID] = append(actions[e.UserID], e.Action)
	}

	var patterns []models.Pattern
	for _, user := range users {
		seq, freq, ok := mostCommonSequence(actions[user])
		if !ok {
			continue
		}
		patterns = append(patterns, models.CommonSequence{
			UserID:     user,
			Sequence:   seq,
			Frequency:  freq,
			Confidence: LabelConfidence,
		})
	}
	return patterns
}

func mostCommonSequence(actions []string) ([SequenceLength]string, int, bool) {
	if len(actions) < SequenceLength {
		return [SequenceLength]string{}, 0, false
	}
	c := newCounter[[SequenceLength]string]()
	for i := 0; i+SequenceLength <= len(actions); i++ {
		c.add([SequenceLength]string(actions[i : i+SequenceLength]))
	}
	return c.firstMax()
}

func favoritePage(events []models.InteractionEvent) models.Pattern {
	c := newCounter[string]()
	for _, e := range events {
		c.add(e.Page)
	}
	top := topByCount(c, 1)[0]
	return models.FavoritePage{Page: top.Key, Visits: top.Count, Confidence: LabelConfidence}
}

// sortedKeys is used by callers that need a deterministic iteration order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, cmp.Compare[string])
	return keys
}
