package database

import (
	"context"
	"fmt"

	"github.com/biohackher/vitality-api/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProtocolRepository handles protocol and protocol item database operations
type ProtocolRepository struct {
	db *DB
}

// NewProtocolRepository creates a new protocol repository
func NewProtocolRepository(db *DB) *ProtocolRepository {
	return &ProtocolRepository{db: db}
}

// ListActiveProtocols retrieves all active protocols for a user, oldest first
func (r *ProtocolRepository) ListActiveProtocols(ctx context.Context, userID uuid.UUID) ([]*models.Protocol, error) {
	query := `
		SELECT id, user_id, name, is_active, created_at, updated_at
		FROM protocols
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query protocols: %w", err)
	}
	defer rows.Close()

	var protocols []*models.Protocol
	for rows.Next() {
		p := &models.Protocol{}
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Name,
			&p.IsActive,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan protocol: %w", err)
		}
		protocols = append(protocols, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating protocols: %w", err)
	}

	return protocols, nil
}

// ListProtocolItems retrieves all items of a protocol, oldest first.
// Ordering must be deterministic: the weekly builder's rotation indexes
// into this list.
func (r *ProtocolRepository) ListProtocolItems(ctx context.Context, protocolID uuid.UUID) ([]*models.ProtocolItem, error) {
	query := `
		SELECT id, protocol_id, name, description, item_type, is_active, included_in_plan, frequency, time_of_day, created_at, updated_at
		FROM protocol_items
		WHERE protocol_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, protocolID)
	if err != nil {
		return nil, fmt.Errorf("failed to query protocol items: %w", err)
	}
	defer rows.Close()

	var items []*models.ProtocolItem
	for rows.Next() {
		item := &models.ProtocolItem{}
		var timeOfDay pq.StringArray

		err := rows.Scan(
			&item.ID,
			&item.ProtocolID,
			&item.Name,
			&item.Description,
			&item.ItemType,
			&item.IsActive,
			&item.IncludedInPlan,
			&item.Frequency,
			&timeOfDay,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan protocol item: %w", err)
		}

		for _, t := range timeOfDay {
			item.TimeOfDay = append(item.TimeOfDay, models.TimeOfDay(t))
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating protocol items: %w", err)
	}

	return items, nil
}
