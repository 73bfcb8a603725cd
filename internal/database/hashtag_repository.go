package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/lingofeed/pkg/models"
)

// HashtagRepository handles database operations for hashtags.
type HashtagRepository struct{}

// NewHashtagRepository creates a new repository instance.
func NewHashtagRepository() *HashtagRepository {
	return &HashtagRepository{}
}

// GetOrCreate returns the hashtag with the given name, creating it first
// when missing.
func (r *HashtagRepository) GetOrCreate(ctx context.Context, name string) (*models.Hashtag, error) {
	var tag models.Hashtag
	err := DB.GetContext(ctx, &tag, "SELECT * FROM hashtags WHERE name = $1", name)
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get hashtag: %v", err)
	}

	tag = models.Hashtag{Name: name}
	if dbType == "sqlite" {
		result, err := DB.ExecContext(ctx, "INSERT INTO hashtags (code, name) VALUES ($1, $2)", tag.Code, tag.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create hashtag: %v", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get last insert ID: %v", err)
		}
		tag.ID = id
		return &tag, nil
	}
	err = DB.QueryRowContext(ctx, "INSERT INTO hashtags (code, name) VALUES ($1, $2) RETURNING id", tag.Code, tag.Name).Scan(&tag.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create hashtag: %v", err)
	}
	return &tag, nil
}

// All returns every hashtag.
func (r *HashtagRepository) All(ctx context.Context) ([]models.Hashtag, error) {
	var tags []models.Hashtag
	if err := DB.SelectContext(ctx, &tags, "SELECT * FROM hashtags ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to list hashtags: %v", err)
	}
	return tags, nil
}
