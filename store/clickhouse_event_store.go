package store

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"behaviorlytics/api/database"
	"behaviorlytics/api/models"
)

// ClickHouseEventStore keeps interactions in the interaction_events table.
type ClickHouseEventStore struct {
	DB *database.ClickHouseClient
}

func NewClickHouseEventStore(chClient *database.ClickHouseClient) *ClickHouseEventStore {
	return &ClickHouseEventStore{
		DB: chClient,
	}
}

func (s *ClickHouseEventStore) Append(ctx context.Context, event models.InteractionEvent) (string, error) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if err := s.AppendBatch(ctx, []models.InteractionEvent{event}); err != nil {
		return "", err
	}
	return event.ID, nil
}

func (s *ClickHouseEventStore) AppendBatch(ctx context.Context, events []models.InteractionEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO interaction_events (
			event_id, user_id, action, page, metadata, timestamp
		)
	`)
	if err != nil {
		return unavailable("failed to prepare batch insert", err)
	}

	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.New().String()
		}
		e := events[i]
		metadata, err := e.Metadata.Value()
		if err != nil {
			return fmt.Errorf("event %s: %w", e.ID, err)
		}
		if err := batch.Append(e.ID, e.UserID, e.Action, e.Page, metadata, e.Timestamp.UTC()); err != nil {
			return fmt.Errorf("failed to append event %s to batch: %w", e.ID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return unavailable("failed to send batch", err)
	}

	log.Printf("Successfully inserted %d interaction events.", len(events))
	return nil
}

func (s *ClickHouseEventStore) Query(ctx context.Context, filter EventFilter) ([]models.InteractionEvent, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if !filter.Since.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, filter.Since.UTC())
	}

	query := "SELECT event_id, user_id, action, page, metadata, timestamp FROM interaction_events"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp DESC, event_id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, unavailable("failed to query interaction events", err)
	}
	defer rows.Close()

	events := []models.InteractionEvent{}
	for rows.Next() {
		var (
			e        models.InteractionEvent
			metadata string
			ts       time.Time
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Page, &metadata, &ts); err != nil {
			return nil, corrupt("failed to scan interaction event", err)
		}
		if e.Metadata, err = models.ParseMetadata(metadata); err != nil {
			return nil, fmt.Errorf("interaction event %s: %w", e.ID, err)
		}
		e.Timestamp = ts.UTC()
		if err := e.Validate(); err != nil {
			log.Printf("Rejecting stored interaction event %s: %v", e.ID, err)
			return nil, fmt.Errorf("interaction event %s: %w", e.ID, err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("error iterating interaction events", err)
	}
	return events, nil
}

func (s *ClickHouseEventStore) Count(ctx context.Context) (int64, error) {
	var n uint64
	if err := s.DB.Conn.QueryRow(ctx, "SELECT count() FROM interaction_events").Scan(&n); err != nil {
		return 0, unavailable("failed to count interaction events", err)
	}
	return int64(n), nil
}
