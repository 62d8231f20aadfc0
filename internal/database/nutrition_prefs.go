package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NutritionPrefsRepository handles nutrition preference database operations
type NutritionPrefsRepository struct {
	db *DB
}

// NewNutritionPrefsRepository creates a new nutrition preferences repository
func NewNutritionPrefsRepository(db *DB) *NutritionPrefsRepository {
	return &NutritionPrefsRepository{db: db}
}

// SelectedTemplateKey returns the user's selected meal template key, or
// an empty string if no template is selected
func (r *NutritionPrefsRepository) SelectedTemplateKey(ctx context.Context, userID uuid.UUID) (string, error) {
	query := `
		SELECT selected_meal_template
		FROM nutrition_prefs
		WHERE user_id = $1
	`

	var key sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query nutrition preferences: %w", err)
	}

	if !key.Valid {
		return "", nil
	}
	return key.String, nil
}

// SetSelectedTemplateKey upserts the user's selected meal template key.
// An empty key clears the selection.
func (r *NutritionPrefsRepository) SetSelectedTemplateKey(ctx context.Context, userID uuid.UUID, templateKey string) error {
	query := `
		INSERT INTO nutrition_prefs (user_id, selected_meal_template, updated_at)
		VALUES ($1, NULLIF($2, ''), $3)
		ON CONFLICT (user_id) DO UPDATE SET
			selected_meal_template = EXCLUDED.selected_meal_template,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, userID, templateKey, time.Now()); err != nil {
		return fmt.Errorf("failed to set selected meal template: %w", err)
	}
	return nil
}
