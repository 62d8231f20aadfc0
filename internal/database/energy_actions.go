package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/biohackher/vitality-api/internal/models"
	"github.com/google/uuid"
)

// EnergyActionRepository handles energy-loop database operations
type EnergyActionRepository struct {
	db *DB
}

// NewEnergyActionRepository creates a new energy action repository
func NewEnergyActionRepository(db *DB) *EnergyActionRepository {
	return &EnergyActionRepository{db: db}
}

// ListEnergyActions retrieves all of a user's energy actions, oldest first
func (r *EnergyActionRepository) ListEnergyActions(ctx context.Context, userID uuid.UUID) ([]*models.EnergyAction, error) {
	query := `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM energy_actions
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query energy actions: %w", err)
	}
	defer rows.Close()

	var actions []*models.EnergyAction
	for rows.Next() {
		a := &models.EnergyAction{}
		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Title,
			&a.Description,
			&a.Completed,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan energy action: %w", err)
		}
		actions = append(actions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating energy actions: %w", err)
	}

	return actions, nil
}

// LatestEnergyMetric returns the most recent 0-100 energy score for a
// user, or nil if none has been logged yet
func (r *EnergyActionRepository) LatestEnergyMetric(ctx context.Context, userID uuid.UUID) (*float64, error) {
	query := `
		SELECT score
		FROM energy_metrics
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	var score float64
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&score)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest energy metric: %w", err)
	}

	return &score, nil
}
