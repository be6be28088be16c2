package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"behaviorlytics/api/database"
	"behaviorlytics/api/models"
)

// SQLEventStore keeps interactions in the user_interactions table of a
// Postgres or SQLite database.
type SQLEventStore struct {
	DB *database.DBClient
}

func NewSQLEventStore(db *database.DBClient) *SQLEventStore {
	return &SQLEventStore{DB: db}
}

func (s *SQLEventStore) Append(ctx context.Context, event models.InteractionEvent) (string, error) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if err := s.AppendBatch(ctx, []models.InteractionEvent{event}); err != nil {
		return "", err
	}
	return event.ID, nil
}

func (s *SQLEventStore) AppendBatch(ctx context.Context, events []models.InteractionEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.DB.DB.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("failed to begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.DB.Rebind(`
		INSERT INTO user_interactions (id, user_id, action, page, metadata, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return unavailable("failed to prepare insert", err)
	}
	defer stmt.Close()

	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.New().String()
		}
		e := events[i]
		if _, err := stmt.ExecContext(ctx, e.ID, e.UserID, e.Action, e.Page, e.Metadata, e.Timestamp.UTC()); err != nil {
			return unavailable(fmt.Sprintf("failed to insert interaction %s", e.ID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable("failed to commit interactions", err)
	}
	return nil
}

func (s *SQLEventStore) Query(ctx context.Context, filter EventFilter) ([]models.InteractionEvent, error) {
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

	query := "SELECT id, user_id, action, page, metadata, timestamp FROM user_interactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.DB.DB.QueryContext(ctx, s.DB.Rebind(query), args...)
	if err != nil {
		return nil, unavailable("failed to query interactions", err)
	}
	defer rows.Close()

	events := []models.InteractionEvent{}
	for rows.Next() {
		var (
			e  models.InteractionEvent
			ts time.Time
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Page, &e.Metadata, &ts); err != nil {
			if errors.Is(err, models.ErrDataIntegrity) {
				return nil, fmt.Errorf("failed to scan interaction: %w", err)
			}
			return nil, corrupt("failed to scan interaction", err)
		}
		e.Timestamp = ts.UTC()
		if err := e.Validate(); err != nil {
			log.Printf("Rejecting stored interaction %s: %v", e.ID, err)
			return nil, fmt.Errorf("interaction %s: %w", e.ID, err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("error iterating interactions", err)
	}
	return events, nil
}

func (s *SQLEventStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_interactions").Scan(&n); err != nil {
		return 0, unavailable("failed to count interactions", err)
	}
	return n, nil
}
