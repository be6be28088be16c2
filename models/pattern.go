package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type PatternType string

const (
	PatternPeakHour       PatternType = "peak_activity_hour"
	PatternPeakDay        PatternType = "peak_activity_day"
	PatternCommonSequence PatternType = "common_sequence"
	PatternFavoritePage   PatternType = "favorite_page"
)

// Pattern is one finding produced by the aggregator. The concrete types are
// PeakHour, PeakDay, CommonSequence and FavoritePage.
type Pattern interface {
	Type() PatternType
	// Owner is the user the finding belongs to, or "" for window-wide findings.
	Owner() string
	// ConfidenceLabel is the fixed label reported with the finding. It is not
	// a measured probability.
	ConfidenceLabel() float64
}

// PeakHour is the hour of day (0-23, UTC) with the most events.
type PeakHour struct {
	Hour       int
	Count      int
	Confidence float64
}

func (p PeakHour) Type() PatternType { return PatternPeakHour }
func (p PeakHour) ConfidenceLabel() float64 { return p.Confidence }
func (p PeakHour) Owner() string { return "" }

func (p PeakHour) MarshalJSON() ([]byte, error) {
	return json.Marshal(bucketJSON{
		Type:        PatternPeakHour,
		Value:       p.Hour,
		Confidence:  p.Confidence,
		Description: fmt.Sprintf("Most active during hour %d", p.Hour),
	})
}

// PeakDay is the day of week with the most events, Monday = 0 through Sunday = 6.
type PeakDay struct {
	Day        int
	Count      int
	Confidence float64
}

func (p PeakDay) Type() PatternType { return PatternPeakDay }
func (p PeakDay) ConfidenceLabel() float64 { return p.Confidence }
func (p PeakDay) Owner() string { return "" }

func (p PeakDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(bucketJSON{
		Type:        PatternPeakDay,
		Value:       p.Day,
		Confidence:  p.Confidence,
		Description: fmt.Sprintf("Most active on day %d", p.Day),
	})
}

type bucketJSON struct {
	Type        PatternType `json:"type"`
	Value       int         `json:"value"`
	Confidence  float64     `json:"confidence"`
	Description string      `json:"description"`
}

// CommonSequence is the most repeated run of three consecutive actions for a user.
type CommonSequence struct {
	UserID     string
	Sequence   [3]string
	Frequency  int
	Confidence float64
}

func (p CommonSequence) Type() PatternType { return PatternCommonSequence }
func (p CommonSequence) ConfidenceLabel() float64 { return p.Confidence }
func (p CommonSequence) Owner() string { return p.UserID }

func (p CommonSequence) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       PatternType `json:"type"`
		UserID     string      `json:"user_id"`
		Sequence   [3]string   `json:"sequence"`
		Frequency  int         `json:"frequency"`
		Confidence float64     `json:"confidence"`
	}{PatternCommonSequence, p.UserID, p.Sequence, p.Frequency, p.Confidence})
}

// FavoritePage is the most visited page across the window.
type FavoritePage struct {
	Page       string
	Visits     int
	Confidence float64
}

func (p FavoritePage) Type() PatternType { return PatternFavoritePage }
func (p FavoritePage) ConfidenceLabel() float64 { return p.Confidence }
func (p FavoritePage) Owner() string { return "" }

func (p FavoritePage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        PatternType `json:"type"`
		Value       string      `json:"value"`
		Visits      int         `json:"visits"`
		Confidence  float64     `json:"confidence"`
		Description string      `json:"description"`
	}{PatternFavoritePage, p.Page, p.Visits, p.Confidence, "Most visited page: " + p.Page})
}

// BehaviorPattern is a pattern persisted by the pipeline.
type BehaviorPattern struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	PatternType PatternType     `json:"pattern_type"`
	Confidence  float64         `json:"confidence"`
	Details     json.RawMessage `json:"details"`
	DetectedAt  time.Time       `json:"detected_at"`
}

// NewBehaviorPattern snapshots p into a storable record.
func NewBehaviorPattern(id string, p Pattern, detectedAt time.Time) (BehaviorPattern, error) {
	details, err := json.Marshal(p)
	if err != nil {
		return BehaviorPattern{}, fmt.Errorf("failed to encode pattern details: %w", err)
	}
	return BehaviorPattern{
		ID:          id,
		UserID:      p.Owner(),
		PatternType: p.Type(),
		Confidence:  p.ConfidenceLabel(),
		Details:     details,
		DetectedAt:  detectedAt.UTC(),
	}, nil
}
