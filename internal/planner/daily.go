package planner

import (
	"context"
	"math"
	"time"

	"github.com/biohackher/vitality-api/internal/logger"
	"github.com/biohackher/vitality-api/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const top3Size = 3

// DailyBuilder produces today's ranked, deduplicated action list.
//
// Failure policy: the builder always returns a best-effort plan. A source
// that fails to read contributes nothing and is logged; a completion-log
// failure degrades to nothing-completed. Only context cancellation aborts
// the build.
type DailyBuilder struct {
	sources Sources
	log     *zap.Logger
}

// NewDailyBuilder creates a daily plan builder
func NewDailyBuilder(sources Sources, log *zap.Logger) *DailyBuilder {
	return &DailyBuilder{sources: sources, log: log}
}

// Build computes the daily plan for a user and date
func (b *DailyBuilder) Build(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DailyPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dateKey := models.DateKey(date)
	var warnings []string
	var actions []models.Action

	// Protocol items, merged across every active protocol. More than one
	// active protocol is a data-integrity anomaly but never drops data.
	protocols, err := b.sources.Protocols.ListActiveProtocols(ctx, userID)
	if err != nil {
		b.log.Warn("failed_to_list_active_protocols",
			zap.String("user_id", logger.SanitizeUserID(userID.String())),
			zap.Error(err),
		)
		protocols = nil
	}
	if len(protocols) > 1 {
		b.log.Warn("multiple_active_protocols_found",
			zap.String("user_id", logger.SanitizeUserID(userID.String())),
			zap.Int("count", len(protocols)),
		)
		warnings = append(warnings, "multiple active protocols found; items from all of them are included")
	}
	for _, p := range protocols {
		items, err := b.sources.Protocols.ListProtocolItems(ctx, p.ID)
		if err != nil {
			b.log.Warn("failed_to_list_protocol_items",
				zap.String("protocol_id", p.ID.String()),
				zap.Error(err),
			)
			continue
		}
		for _, item := range items {
			if !item.InPlan() {
				continue
			}
			actions = append(actions, NormalizeProtocolItem(item))
		}
	}

	// One synthetic "work on goal" action per active goal.
	goals, err := b.sources.Goals.ListActiveGoals(ctx, userID)
	if err != nil {
		b.log.Warn("failed_to_list_active_goals",
			zap.String("user_id", logger.SanitizeUserID(userID.String())),
			zap.Error(err),
		)
		goals = nil
	}
	for _, g := range goals {
		actions = append(actions, NormalizeGoal(g))
	}

	// Energy actions are one-shot nudges: they stay on the plan until the
	// user marks them done in the energy-loop program, with no per-day
	// completion join.
	energyActions, err := b.sources.Energy.ListEnergyActions(ctx, userID)
	if err != nil {
		b.log.Warn("failed_to_list_energy_actions",
			zap.String("user_id", logger.SanitizeUserID(userID.String())),
			zap.Error(err),
		)
		energyActions = nil
	}
	for _, ea := range energyActions {
		if ea.Completed {
			continue
		}
		actions = append(actions, NormalizeEnergyAction(ea))
	}

	// Meals, only when a template is selected.
	templateKey, err := b.sources.Nutrition.SelectedTemplateKey(ctx, userID)
	if err != nil {
		b.log.Warn("failed_to_read_nutrition_preferences",
			zap.String("user_id", logger.SanitizeUserID(userID.String())),
			zap.Error(err),
		)
		templateKey = ""
	}
	if templateKey != "" {
		day := b.sources.Meals.DayMeals(templateKey, date.Weekday())
		actions = append(actions, normalizeMealsForDay(day, dateKey)...)
	}

	b.joinCompletions(ctx, userID, dateKey, actions)

	metric, err := b.sources.Energy.LatestEnergyMetric(ctx, userID)
	if err != nil {
		b.log.Warn("failed_to_read_latest_energy_metric",
			zap.String("user_id", logger.SanitizeUserID(userID.String())),
			zap.Error(err),
		)
		metric = nil
	}

	rankActions(actions, NewScoreContext(metric))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan := &models.DailyPlan{
		UserID:      userID.String(),
		Date:        dateKey,
		Actions:     actions,
		TotalCount:  len(actions),
		Warnings:    warnings,
		GeneratedAt: time.Now().UTC(),
	}
	for _, a := range actions {
		if a.Completed {
			plan.CompletedCount++
		}
		switch a.Category {
		case models.CategoryQuickWin:
			plan.QuickWins = append(plan.QuickWins, a)
		case models.CategoryEnergyBooster:
			plan.EnergyBoosters = append(plan.EnergyBoosters, a)
		case models.CategoryDeepPractice:
			plan.DeepPractices = append(plan.DeepPractices, a)
		}
	}
	if plan.TotalCount > 0 {
		plan.CompletionPercentage = int(math.Round(float64(plan.CompletedCount) / float64(plan.TotalCount) * 100))
	}
	if len(actions) > top3Size {
		plan.Top3 = actions[:top3Size]
	} else {
		plan.Top3 = actions
	}

	return plan, nil
}

// joinCompletions resolves per-action completion flags against the
// completion log. A failed fetch degrades to nothing-completed.
func (b *DailyBuilder) joinCompletions(ctx context.Context, userID uuid.UUID, dateKey string, actions []models.Action) {
	protocolDone := make(map[string]bool)
	if rows, err := b.sources.Completions.ListProtocolCompletions(ctx, userID, dateKey); err != nil {
		b.log.Warn("failed_to_list_protocol_completions",
			zap.String("user_id", logger.SanitizeUserID(userID.String())),
			zap.String("date", dateKey),
			zap.Error(err),
		)
	} else {
		for _, c := range rows {
			protocolDone[c.ProtocolItemID.String()] = true
		}
	}

	mealDone := make(map[models.MealType]bool)
	if rows, err := b.sources.Completions.ListMealCompletions(ctx, userID, dateKey); err != nil {
		b.log.Warn("failed_to_list_meal_completions",
			zap.String("user_id", logger.SanitizeUserID(userID.String())),
			zap.String("date", dateKey),
			zap.Error(err),
		)
	} else {
		for _, c := range rows {
			mealDone[c.MealType] = true
		}
	}

	for i := range actions {
		switch actions[i].Type {
		case models.ActionTypeProtocol:
			if actions[i].ProtocolItemID != nil {
				actions[i].Completed = protocolDone[*actions[i].ProtocolItemID]
			}
		case models.ActionTypeMeal:
			if actions[i].MealType != nil {
				actions[i].Completed = mealDone[*actions[i].MealType]
			}
		}
	}
}
