package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/lingofeed/pkg/models"
)

// UnitRepository handles database operations for learning units.
type UnitRepository struct{}

// NewUnitRepository creates a new repository instance.
func NewUnitRepository() *UnitRepository {
	return &UnitRepository{}
}

// GetByID returns a learning unit by primary key.
func (r *UnitRepository) GetByID(ctx context.Context, id int64) (*models.LearningUnit, error) {
	var unit models.LearningUnit
	err := DB.GetContext(ctx, &unit, "SELECT * FROM learning_units WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learning unit: %v", err)
	}
	return &unit, nil
}

// All returns every learning unit.
func (r *UnitRepository) All(ctx context.Context) ([]models.LearningUnit, error) {
	var units []models.LearningUnit
	if err := DB.SelectContext(ctx, &units, "SELECT * FROM learning_units ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to list learning units: %v", err)
	}
	return units, nil
}

// Create inserts a new learning unit.
func (r *UnitRepository) Create(ctx context.Context, unit *models.LearningUnit) error {
	if dbType == "sqlite" {
		result, err := DB.ExecContext(ctx,
			`INSERT INTO learning_units (kind, text, url_normal, url_slow, remark) VALUES ($1, $2, $3, $4, $5)`,
			unit.Kind, unit.Text, unit.URLNormal, unit.URLSlow, unit.Remark)
		if err != nil {
			return fmt.Errorf("failed to create learning unit: %v", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %v", err)
		}
		unit.ID = id
		return nil
	}
	err := DB.QueryRowContext(ctx,
		`INSERT INTO learning_units (kind, text, url_normal, url_slow, remark) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		unit.Kind, unit.Text, unit.URLNormal, unit.URLSlow, unit.Remark).Scan(&unit.ID)
	if err != nil {
		return fmt.Errorf("failed to create learning unit: %v", err)
	}
	return nil
}

// LinkHashtag attaches a hashtag to a learning unit, ignoring duplicates.
func (r *UnitRepository) LinkHashtag(ctx context.Context, unitID, hashtagID int64) error {
	var count int
	err := DB.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM unit_hashtags WHERE unit_id = $1 AND hashtag_id = $2", unitID, hashtagID)
	if err != nil {
		return fmt.Errorf("failed to check hashtag link: %v", err)
	}
	if count > 0 {
		return nil
	}
	_, err = DB.ExecContext(ctx,
		"INSERT INTO unit_hashtags (unit_id, hashtag_id) VALUES ($1, $2)", unitID, hashtagID)
	if err != nil {
		return fmt.Errorf("failed to link hashtag: %v", err)
	}
	return nil
}
