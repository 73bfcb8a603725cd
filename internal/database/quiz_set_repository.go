package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/lingofeed/pkg/models"
)

// QuizSetRepository handles database operations for quiz sets and items.
// Sets, items and units are seeded content, effectively immutable at
// runtime; the create methods exist for the content importer.
type QuizSetRepository struct{}

// NewQuizSetRepository creates a new repository instance.
func NewQuizSetRepository() *QuizSetRepository {
	return &QuizSetRepository{}
}

// GetByOrder returns the quiz set at the given stage order.
func (r *QuizSetRepository) GetByOrder(ctx context.Context, order int) (*models.QuizSet, error) {
	var set models.QuizSet
	err := DB.GetContext(ctx, &set, "SELECT * FROM quiz_sets WHERE set_order = $1", order)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz set: %v", err)
	}
	return &set, nil
}

// All returns every quiz set in stage order.
func (r *QuizSetRepository) All(ctx context.Context) ([]models.QuizSet, error) {
	var sets []models.QuizSet
	if err := DB.SelectContext(ctx, &sets, "SELECT * FROM quiz_sets ORDER BY set_order"); err != nil {
		return nil, fmt.Errorf("failed to list quiz sets: %v", err)
	}
	return sets, nil
}

// ItemsForSet returns a set's items.
func (r *QuizSetRepository) ItemsForSet(ctx context.Context, setID int64) ([]models.QuizItem, error) {
	var items []models.QuizItem
	if err := DB.SelectContext(ctx, &items, "SELECT * FROM quiz_items WHERE set_id = $1 ORDER BY id", setID); err != nil {
		return nil, fmt.Errorf("failed to list quiz items: %v", err)
	}
	return items, nil
}

// Create inserts a new quiz set.
func (r *QuizSetRepository) Create(ctx context.Context, set *models.QuizSet) error {
	if dbType == "sqlite" {
		result, err := DB.ExecContext(ctx,
			`INSERT INTO quiz_sets (title, type, set_order, item_count) VALUES ($1, $2, $3, $4)`,
			set.Title, set.Type, set.Order, set.ItemCount)
		if err != nil {
			return fmt.Errorf("failed to create quiz set: %v", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %v", err)
		}
		set.ID = id
		return nil
	}
	err := DB.QueryRowContext(ctx,
		`INSERT INTO quiz_sets (title, type, set_order, item_count) VALUES ($1, $2, $3, $4) RETURNING id`,
		set.Title, set.Type, set.Order, set.ItemCount).Scan(&set.ID)
	if err != nil {
		return fmt.Errorf("failed to create quiz set: %v", err)
	}
	return nil
}

// CreateItem inserts a new quiz item.
func (r *QuizSetRepository) CreateItem(ctx context.Context, item *models.QuizItem) error {
	if dbType == "sqlite" {
		result, err := DB.ExecContext(ctx,
			`INSERT INTO quiz_items (set_id, type, prompt1, prompt2, answer1, answer2, answer_sq, answer_ox)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.SetID, item.Type, item.Prompt1, item.Prompt2, item.Answer1, item.Answer2, item.AnswerSQ, item.AnswerOX)
		if err != nil {
			return fmt.Errorf("failed to create quiz item: %v", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %v", err)
		}
		item.ID = id
		return nil
	}
	err := DB.QueryRowContext(ctx,
		`INSERT INTO quiz_items (set_id, type, prompt1, prompt2, answer1, answer2, answer_sq, answer_ox)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		item.SetID, item.Type, item.Prompt1, item.Prompt2, item.Answer1, item.Answer2, item.AnswerSQ, item.AnswerOX).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create quiz item: %v", err)
	}
	return nil
}

// UpdateItemCount refreshes a set's expected item count.
func (r *QuizSetRepository) UpdateItemCount(ctx context.Context, setID int64, count int) error {
	_, err := DB.ExecContext(ctx, "UPDATE quiz_sets SET item_count = $1 WHERE id = $2", count, setID)
	if err != nil {
		return fmt.Errorf("failed to update item count: %v", err)
	}
	return nil
}

// LinkHashtag attaches a hashtag to a quiz set, ignoring duplicates.
func (r *QuizSetRepository) LinkHashtag(ctx context.Context, setID, hashtagID int64) error {
	var count int
	err := DB.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM quiz_set_hashtags WHERE set_id = $1 AND hashtag_id = $2", setID, hashtagID)
	if err != nil {
		return fmt.Errorf("failed to check hashtag link: %v", err)
	}
	if count > 0 {
		return nil
	}
	_, err = DB.ExecContext(ctx,
		"INSERT INTO quiz_set_hashtags (set_id, hashtag_id) VALUES ($1, $2)", setID, hashtagID)
	if err != nil {
		return fmt.Errorf("failed to link hashtag: %v", err)
	}
	return nil
}
