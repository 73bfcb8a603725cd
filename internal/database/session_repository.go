package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/lingofeed/pkg/models"
)

// SessionRepository handles read access to quiz sessions, which are written
// by the learner-facing quiz flow and are read-only inputs here.
type SessionRepository struct{}

// NewSessionRepository creates a new repository instance.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// ActiveLearnerIDs returns the distinct learners with at least one session
// starting inside [start, end).
func (r *SessionRepository) ActiveLearnerIDs(ctx context.Context, start, end time.Time) ([]int64, error) {
	var ids []int64
	query := `
		SELECT DISTINCT learner_id FROM quiz_sessions
		WHERE started_at >= $1 AND started_at < $2
		ORDER BY learner_id
	`
	if err := DB.SelectContext(ctx, &ids, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list active learners: %v", err)
	}
	return ids, nil
}

// SessionsInRange returns a learner's sessions starting inside [start, end).
func (r *SessionRepository) SessionsInRange(ctx context.Context, learnerID int64, start, end time.Time) ([]models.QuizSession, error) {
	var sessions []models.QuizSession
	query := `
		SELECT * FROM quiz_sessions
		WHERE learner_id = $1 AND started_at >= $2 AND started_at < $3
		ORDER BY started_at
	`
	if err := DB.SelectContext(ctx, &sessions, query, learnerID, start, end); err != nil {
		return nil, fmt.Errorf("failed to get sessions: %v", err)
	}
	return sessions, nil
}

// StageProgress returns the learner's cumulative correct-answer count per
// quiz set over all time, one row per set ordered by stage order. Sets the
// learner never touched still appear with a zero tally.
func (r *SessionRepository) StageProgress(ctx context.Context, learnerID int64) ([]models.StageProgress, error) {
	var rows []models.StageProgress
	query := `
		SELECT q.set_order, COALESCE(SUM(s.correct_items), 0) AS correct_total
		FROM quiz_sets q
		LEFT JOIN quiz_sessions s ON s.set_id = q.id AND s.learner_id = $1
		GROUP BY q.set_order
		ORDER BY q.set_order
	`
	if err := DB.SelectContext(ctx, &rows, query, learnerID); err != nil {
		return nil, fmt.Errorf("failed to get stage progress: %v", err)
	}
	return rows, nil
}

// CategoryStats aggregates the learner's same-day item counts per hashtag
// category for sessions starting inside [start, end).
func (r *SessionRepository) CategoryStats(ctx context.Context, learnerID int64, start, end time.Time) ([]models.CategoryStat, error) {
	var stats []models.CategoryStat
	query := `
		SELECT h.name,
		       MIN(q.set_order) AS first_order,
		       SUM(s.total_items) AS total,
		       SUM(s.correct_items) AS correct
		FROM quiz_sessions s
		JOIN quiz_sets q ON q.id = s.set_id
		JOIN quiz_set_hashtags qh ON qh.set_id = q.id
		JOIN hashtags h ON h.id = qh.hashtag_id
		WHERE s.learner_id = $1 AND s.started_at >= $2 AND s.started_at < $3
		GROUP BY h.name
		ORDER BY first_order, h.name
	`
	if err := DB.SelectContext(ctx, &stats, query, learnerID, start, end); err != nil {
		return nil, fmt.Errorf("failed to get category stats: %v", err)
	}
	return stats, nil
}
