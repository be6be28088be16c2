package store

import (
	"context"
	"fmt"
	"time"

	"behaviorlytics/api/models"
)

// EventFilter narrows an event query. Zero values mean "no restriction".
type EventFilter struct {
	UserID string
	Since  time.Time
	Limit  int
}

// EventStore is the append-only collection of interaction events.
type EventStore interface {
	// Append stores one event and returns its id. An empty ID is assigned by the store.
	Append(ctx context.Context, event models.InteractionEvent) (string, error)
	// AppendBatch stores events in one round trip.
	AppendBatch(ctx context.Context, events []models.InteractionEvent) error
	// Query returns matching events, newest first.
	Query(ctx context.Context, filter EventFilter) ([]models.InteractionEvent, error)
	// Count returns the number of stored events.
	Count(ctx context.Context) (int64, error)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrUpstreamUnavailable, err)
}

func corrupt(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrDataIntegrity, err)
}
