// Package planner implements the personalized action plan engine: it fuses
// protocol items, goals, energy-loop actions, meal templates, daily
// essentials, and completion logs into a ranked daily action list and a
// deterministic Monday-anchored weekly calendar.
//
// The engine is a pure function of its inputs plus the read-only source
// stores. It mutates nothing; plans are derived snapshots rebuilt in full
// on every build.
package planner

import (
	"context"
	"time"

	"github.com/biohackher/vitality-api/internal/models"
	"github.com/google/uuid"
)

// ProtocolSource reads active protocols and their items
type ProtocolSource interface {
	ListActiveProtocols(ctx context.Context, userID uuid.UUID) ([]*models.Protocol, error)
	ListProtocolItems(ctx context.Context, protocolID uuid.UUID) ([]*models.ProtocolItem, error)
}

// GoalSource reads active goals
type GoalSource interface {
	ListActiveGoals(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error)
}

// EnergySource reads energy-loop actions and the latest energy metric
type EnergySource interface {
	ListEnergyActions(ctx context.Context, userID uuid.UUID) ([]*models.EnergyAction, error)
	// LatestEnergyMetric returns the most recent 0-100 energy score,
	// or nil if the user has never logged one.
	LatestEnergyMetric(ctx context.Context, userID uuid.UUID) (*float64, error)
}

// NutritionSource reads the user's selected meal template key.
// An empty key means no template is selected and no meal actions are built.
type NutritionSource interface {
	SelectedTemplateKey(ctx context.Context, userID uuid.UUID) (string, error)
}

// MealCatalog resolves a template key and weekday to that day's meal slots
type MealCatalog interface {
	DayMeals(templateKey string, day time.Weekday) *models.DayMeals
}

// CompletionSource reads the append-only completion log, scoped by date
type CompletionSource interface {
	ListProtocolCompletions(ctx context.Context, userID uuid.UUID, date string) ([]*models.ProtocolCompletion, error)
	ListMealCompletions(ctx context.Context, userID uuid.UUID, date string) ([]*models.MealCompletion, error)
	ListEssentialsCompletions(ctx context.Context, userID uuid.UUID, date string) ([]*models.EssentialCompletion, error)
}

// Sources bundles every store the plan engine reads from
type Sources struct {
	Protocols   ProtocolSource
	Goals       GoalSource
	Energy      EnergySource
	Nutrition   NutritionSource
	Meals       MealCatalog
	Completions CompletionSource
}
