package models

import (
	"time"
)

// InteractionEvent is one tracked user interaction. Events are never updated
// after they are stored.
type InteractionEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Page      string    `json:"page"`
	Metadata  Metadata  `json:"metadata"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate reports a data integrity error when a stored event is missing a
// required field.
func (e InteractionEvent) Validate() error {
	switch {
	case e.UserID == "":
		return corruptField("user_id", "is empty")
	case e.Action == "":
		return corruptField("action", "is empty")
	case e.Page == "":
		return corruptField("page", "is empty")
	case e.Timestamp.IsZero():
		return corruptField("timestamp", "is missing")
	}
	return nil
}

// TrackRequest is the body accepted by POST /api/track.
type TrackRequest struct {
	UserID   string   `json:"user_id" binding:"required,max=100"`
	Action   string   `json:"action" binding:"required,max=100"`
	Page     string   `json:"page" binding:"required,max=200"`
	Metadata Metadata `json:"metadata"`
}

// Event builds the event to store for this request.
func (r TrackRequest) Event(id string, now time.Time) (InteractionEvent, error) {
	if err := r.Metadata.Validate(); err != nil {
		return InteractionEvent{}, err
	}
	metadata := r.Metadata
	if metadata == nil {
		metadata = Metadata{}
	}
	return InteractionEvent{
		ID:        id,
		UserID:    r.UserID,
		Action:    r.Action,
		Page:      r.Page,
		Metadata:  metadata,
		Timestamp: now.UTC(),
	}, nil
}
