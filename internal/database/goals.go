package database

import (
	"context"
	"fmt"

	"github.com/biohackher/vitality-api/internal/models"
	"github.com/google/uuid"
)

// GoalRepository handles goal database operations
type GoalRepository struct {
	db *DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// ListActiveGoals retrieves a user's active goals, oldest first
func (r *GoalRepository) ListActiveGoals(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	query := `
		SELECT id, user_id, title, description, status, created_at, updated_at
		FROM goals
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, models.GoalStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		g := &models.Goal{}
		err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.Title,
			&g.Description,
			&g.Status,
			&g.CreatedAt,
			&g.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}
