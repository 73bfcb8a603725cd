package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/lingofeed/pkg/models"
)

// LearnerRepository handles database operations for learners.
type LearnerRepository struct{}

// NewLearnerRepository creates a new repository instance.
func NewLearnerRepository() *LearnerRepository {
	return &LearnerRepository{}
}

// GetByID returns a learner by primary key.
func (r *LearnerRepository) GetByID(ctx context.Context, id int64) (*models.Learner, error) {
	var learner models.Learner
	err := DB.GetContext(ctx, &learner, "SELECT * FROM learners WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %v", err)
	}
	return &learner, nil
}

// ChatID returns the learner's Telegram chat id, 0 when none is set.
func (r *LearnerRepository) ChatID(ctx context.Context, id int64) (int64, error) {
	var chatID int64
	err := DB.GetContext(ctx, &chatID, "SELECT chat_id FROM learners WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get learner chat id: %v", err)
	}
	return chatID, nil
}

// Create inserts a new learner.
func (r *LearnerRepository) Create(ctx context.Context, learner *models.Learner) error {
	if dbType == "sqlite" {
		result, err := DB.ExecContext(ctx,
			`INSERT INTO learners (auth_type, auth_ref, nickname, chat_id) VALUES ($1, $2, $3, $4)`,
			learner.AuthType, learner.AuthRef, learner.Nickname, learner.ChatID)
		if err != nil {
			return fmt.Errorf("failed to create learner: %v", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %v", err)
		}
		learner.ID = id
		return nil
	}
	err := DB.QueryRowContext(ctx,
		`INSERT INTO learners (auth_type, auth_ref, nickname, chat_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		learner.AuthType, learner.AuthRef, learner.Nickname, learner.ChatID).Scan(&learner.ID)
	if err != nil {
		return fmt.Errorf("failed to create learner: %v", err)
	}
	return nil
}
