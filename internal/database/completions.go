package database

import (
	"context"
	"fmt"
	"time"

	"github.com/biohackher/vitality-api/internal/models"
	"github.com/google/uuid"
)

// CompletionRepository handles the append-only completion log. Three
// completion kinds share the same shape: one row per (user, item, date).
type CompletionRepository struct {
	db *DB
}

// NewCompletionRepository creates a new completion repository
func NewCompletionRepository(db *DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// ListProtocolCompletions retrieves protocol item completions for a user and date
func (r *CompletionRepository) ListProtocolCompletions(ctx context.Context, userID uuid.UUID, date string) ([]*models.ProtocolCompletion, error) {
	query := `
		SELECT user_id, protocol_item_id, date, created_at
		FROM protocol_completions
		WHERE user_id = $1 AND date = $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query protocol completions: %w", err)
	}
	defer rows.Close()

	var completions []*models.ProtocolCompletion
	for rows.Next() {
		c := &models.ProtocolCompletion{}
		if err := rows.Scan(&c.UserID, &c.ProtocolItemID, &c.Date, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan protocol completion: %w", err)
		}
		completions = append(completions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating protocol completions: %w", err)
	}

	return completions, nil
}

// ListMealCompletions retrieves meal completions for a user and date
func (r *CompletionRepository) ListMealCompletions(ctx context.Context, userID uuid.UUID, date string) ([]*models.MealCompletion, error) {
	query := `
		SELECT user_id, meal_type, date, created_at
		FROM meal_completions
		WHERE user_id = $1 AND date = $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal completions: %w", err)
	}
	defer rows.Close()

	var completions []*models.MealCompletion
	for rows.Next() {
		c := &models.MealCompletion{}
		if err := rows.Scan(&c.UserID, &c.MealType, &c.Date, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal completion: %w", err)
		}
		completions = append(completions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meal completions: %w", err)
	}

	return completions, nil
}

// ListEssentialsCompletions retrieves daily-essential completions for a user and date
func (r *CompletionRepository) ListEssentialsCompletions(ctx context.Context, userID uuid.UUID, date string) ([]*models.EssentialCompletion, error) {
	query := `
		SELECT user_id, essential_id, date, created_at
		FROM essential_completions
		WHERE user_id = $1 AND date = $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query essential completions: %w", err)
	}
	defer rows.Close()

	var completions []*models.EssentialCompletion
	for rows.Next() {
		c := &models.EssentialCompletion{}
		if err := rows.Scan(&c.UserID, &c.EssentialID, &c.Date, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan essential completion: %w", err)
		}
		completions = append(completions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating essential completions: %w", err)
	}

	return completions, nil
}

// ToggleProtocolCompletion inserts or removes a protocol item completion
// row for a date. Returns the resulting completed state.
func (r *CompletionRepository) ToggleProtocolCompletion(ctx context.Context, userID, protocolItemID uuid.UUID, date string) (bool, error) {
	deleteQuery := `
		DELETE FROM protocol_completions
		WHERE user_id = $1 AND protocol_item_id = $2 AND date = $3
	`
	result, err := r.db.ExecContext(ctx, deleteQuery, userID, protocolItemID, date)
	if err != nil {
		return false, fmt.Errorf("failed to delete protocol completion: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected > 0 {
		return false, nil
	}

	insertQuery := `
		INSERT INTO protocol_completions (user_id, protocol_item_id, date, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, protocol_item_id, date) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insertQuery, userID, protocolItemID, date, time.Now()); err != nil {
		return false, fmt.Errorf("failed to insert protocol completion: %w", err)
	}
	return true, nil
}

// ToggleMealCompletion inserts or removes a meal completion row for a date
func (r *CompletionRepository) ToggleMealCompletion(ctx context.Context, userID uuid.UUID, mealType models.MealType, date string) (bool, error) {
	deleteQuery := `
		DELETE FROM meal_completions
		WHERE user_id = $1 AND meal_type = $2 AND date = $3
	`
	result, err := r.db.ExecContext(ctx, deleteQuery, userID, mealType, date)
	if err != nil {
		return false, fmt.Errorf("failed to delete meal completion: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected > 0 {
		return false, nil
	}

	insertQuery := `
		INSERT INTO meal_completions (user_id, meal_type, date, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, meal_type, date) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insertQuery, userID, mealType, date, time.Now()); err != nil {
		return false, fmt.Errorf("failed to insert meal completion: %w", err)
	}
	return true, nil
}

// ToggleEssentialCompletion inserts or removes an essential completion row for a date
func (r *CompletionRepository) ToggleEssentialCompletion(ctx context.Context, userID uuid.UUID, essentialID, date string) (bool, error) {
	deleteQuery := `
		DELETE FROM essential_completions
		WHERE user_id = $1 AND essential_id = $2 AND date = $3
	`
	result, err := r.db.ExecContext(ctx, deleteQuery, userID, essentialID, date)
	if err != nil {
		return false, fmt.Errorf("failed to delete essential completion: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected > 0 {
		return false, nil
	}

	insertQuery := `
		INSERT INTO essential_completions (user_id, essential_id, date, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, essential_id, date) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insertQuery, userID, essentialID, date, time.Now()); err != nil {
		return false, fmt.Errorf("failed to insert essential completion: %w", err)
	}
	return true, nil
}
