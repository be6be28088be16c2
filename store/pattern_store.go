package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"behaviorlytics/api/database"
	"behaviorlytics/api/models"
)

// PatternStore persists patterns detected by the pipeline.
type PatternStore interface {
	SavePatterns(ctx context.Context, patterns []models.BehaviorPattern) error
	ListPatterns(ctx context.Context, userID string, limit int) ([]models.BehaviorPattern, error)
}

type SQLPatternStore struct {
	db *database.DBClient
}

// NewSQLPatternStore creates a new SQLPatternStore instance.
func NewSQLPatternStore(db *database.DBClient) *SQLPatternStore {
	return &SQLPatternStore{db: db}
}

// SavePatterns inserts all patterns in one transaction.
func (s *SQLPatternStore) SavePatterns(ctx context.Context, patterns []models.BehaviorPattern) error {
	if len(patterns) == 0 {
		return nil
	}

	tx, err := s.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := s.db.Rebind(`
		INSERT INTO behavior_patterns (id, user_id, pattern_type, confidence, details, detected_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	for _, p := range patterns {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, query, p.ID, p.UserID, string(p.PatternType), p.Confidence, string(p.Details), p.DetectedAt.UTC())
		if err != nil {
			return unavailable(fmt.Sprintf("failed to insert pattern for user %s", p.UserID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable("failed to commit patterns", err)
	}
	return nil
}

// ListPatterns returns stored patterns newest first. An empty userID lists all users.
func (s *SQLPatternStore) ListPatterns(ctx context.Context, userID string, limit int) ([]models.BehaviorPattern, error) {
	query := `
		SELECT id, user_id, pattern_type, confidence, details, detected_at
		FROM behavior_patterns
	`
	var args []interface{}
	if userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY detected_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.DB.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, unavailable("failed to query behavior patterns", err)
	}
	defer rows.Close()

	patterns := []models.BehaviorPattern{}
	for rows.Next() {
		var (
			p           models.BehaviorPattern
			patternType string
			details     []byte
			detectedAt  time.Time
		)
		if err := rows.Scan(&p.ID, &p.UserID, &patternType, &p.Confidence, &details, &detectedAt); err != nil {
			return nil, corrupt("failed to scan behavior pattern", err)
		}
		p.PatternType = models.PatternType(patternType)
		p.Details = details
		p.DetectedAt = detectedAt.UTC()
		patterns = append(patterns, p)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("error iterating behavior patterns", err)
	}
	return patterns, nil
}
