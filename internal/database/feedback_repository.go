package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/lingofeed/pkg/models"
)

// FeedbackRepository handles persistence of generated feedback records.
// Writes are scoped to disjoint (learner, date) keys.
type FeedbackRepository struct{}

// NewFeedbackRepository creates a new repository instance.
func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{}
}

// ExistsForDate reports whether a feedback record already exists for the
// learner on the given date (formatted 2006-01-02).
func (r *FeedbackRepository) ExistsForDate(ctx context.Context, learnerID int64, date string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM feedback_records WHERE learner_id = $1 AND feedback_date = $2`
	if err := DB.GetContext(ctx, &count, query, learnerID, date); err != nil {
		return false, fmt.Errorf("failed to check feedback existence: %v", err)
	}
	return count > 0, nil
}

// Save inserts a new feedback record. The record is written in a single
// statement so it is either fully persisted or not at all.
func (r *FeedbackRepository) Save(ctx context.Context, rec *models.FeedbackRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if dbType == "sqlite" {
		query := `
			INSERT INTO feedback_records (learner_id, feedback_date, message, tags, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		result, err := DB.ExecContext(ctx, query, rec.LearnerID, rec.FeedbackDate, rec.Message, rec.Tags, rec.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to save feedback: %v", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %v", err)
		}
		rec.ID = id
		return nil
	}
	query := `
		INSERT INTO feedback_records (learner_id, feedback_date, message, tags, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := DB.QueryRowContext(ctx, query, rec.LearnerID, rec.FeedbackDate, rec.Message, rec.Tags, rec.CreatedAt).Scan(&rec.ID); err != nil {
		return fmt.Errorf("failed to save feedback: %v", err)
	}
	return nil
}

// Replace overwrites the record for (learner, date) in place, keeping its
// row identity. Used by forced re-runs only.
func (r *FeedbackRepository) Replace(ctx context.Context, rec *models.FeedbackRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	query := `
		UPDATE feedback_records SET message = $1, tags = $2, created_at = $3
		WHERE learner_id = $4 AND feedback_date = $5
	`
	result, err := DB.ExecContext(ctx, query, rec.Message, rec.Tags, rec.CreatedAt, rec.LearnerID, rec.FeedbackDate)
	if err != nil {
		return fmt.Errorf("failed to replace feedback: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// LatestForLearner returns the learner's most recently created record.
func (r *FeedbackRepository) LatestForLearner(ctx context.Context, learnerID int64) (*models.FeedbackRecord, error) {
	var rec models.FeedbackRecord
	query := `
		SELECT * FROM feedback_records
		WHERE learner_id = $1
		ORDER BY created_at DESC LIMIT 1
	`
	err := DB.GetContext(ctx, &rec, query, learnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest feedback: %v", err)
	}
	return &rec, nil
}

// ForDate returns the learner's record for one date (formatted 2006-01-02).
func (r *FeedbackRepository) ForDate(ctx context.Context, learnerID int64, date string) (*models.FeedbackRecord, error) {
	var rec models.FeedbackRecord
	query := `SELECT * FROM feedback_records WHERE learner_id = $1 AND feedback_date = $2`
	err := DB.GetContext(ctx, &rec, query, learnerID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %v", err)
	}
	return &rec, nil
}

// Recent returns the most recently created records across all learners.
func (r *FeedbackRepository) Recent(ctx context.Context, limit int) ([]models.FeedbackRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []models.FeedbackRecord
	query := `SELECT * FROM feedback_records ORDER BY created_at DESC LIMIT $1`
	if err := DB.SelectContext(ctx, &recs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent feedback: %v", err)
	}
	return recs, nil
}
