package planner

import (
	"context"
	"sort"
	"time"

	"github.com/biohackher/vitality-api/internal/logger"
	"github.com/biohackher/vitality-api/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const daysPerWeek = 7

// WeeklyBuilder produces the Monday-anchored 7-day plan grid. Cyclic item
// types (exercise, therapy) rotate deterministically by day-of-week, so
// the same calendar weekday maps to the same catalog entry across weeks
// as long as the catalog is unchanged.
type WeeklyBuilder struct {
	sources Sources
	log     *zap.Logger
}

// NewWeeklyBuilder creates a weekly plan builder
func NewWeeklyBuilder(sources Sources, log *zap.Logger) *WeeklyBuilder {
	return &WeeklyBuilder{sources: sources, log: log}
}

// MondayOnOrBefore returns the Monday on or before t, truncated to a date
func MondayOnOrBefore(t time.Time) time.Time {
	shift := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -shift)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// weekItems holds the protocol items partitioned for weekly scheduling
type weekItems struct {
	supplements []*models.ProtocolItem
	exercises   []*models.ProtocolItem
	therapies   []*models.ProtocolItem
	habits      []*models.ProtocolItem
}

// Build computes the weekly plan covering the 7 days starting at the
// Monday on or before anchor. Failure policy mirrors the daily builder:
// best-effort, per-source degradation, only cancellation aborts.
func (b *WeeklyBuilder) Build(ctx context.Context, userID uuid.UUID, anchor time.Time) (*models.WeeklyPlanData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	weekStart := MondayOnOrBefore(anchor)
	var warnings []string

	items, multiProtocol := b.collectItems(ctx, userID)
	if multiProtocol {
		warnings = append(warnings, "multiple active protocols found; items from all of them are included")
	}

	templateKey, err := b.sources.Nutrition.SelectedTemplateKey(ctx, userID)
	if err != nil {
		b.log.Warn("failed_to_read_nutrition_preferences",
			zap.String("user_id", logger.SanitizeUserID(userID.String())),
			zap.Error(err),
		)
		templateKey = ""
	}

	plan := &models.WeeklyPlanData{
		UserID:      userID.String(),
		WeekStart:   models.DateKey(weekStart),
		Days:        make([]models.WeeklyDay, 0, daysPerWeek),
		Warnings:    warnings,
		GeneratedAt: time.Now().UTC(),
	}

	for i := 0; i < daysPerWeek; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date := weekStart.AddDate(0, 0, i)
		plan.Days = append(plan.Days, b.buildDay(ctx, userID, date, items, templateKey))
	}

	return plan, nil
}

// collectItems loads and partitions in-plan protocol items across all
// active protocols. The second return reports the multiple-active-protocol
// anomaly.
func (b *WeeklyBuilder) collectItems(ctx context.Context, userID uuid.UUID) (weekItems, bool) {
	var items weekItems

	protocols, err := b.sources.Protocols.ListActiveProtocols(ctx, userID)
	if err != nil {
		b.log.Warn("failed_to_list_active_protocols",
			zap.String("user_id", logger.SanitizeUserID(userID.String())),
			zap.Error(err),
		)
		return items, false
	}
	if len(protocols) > 1 {
		b.log.Warn("multiple_active_protocols_found",
			zap.String("user_id", logger.SanitizeUserID(userID.String())),
			zap.Int("count", len(protocols)),
		)
	}

	for _, p := range protocols {
		list, err := b.sources.Protocols.ListProtocolItems(ctx, p.ID)
		if err != nil {
			b.log.Warn("failed_to_list_protocol_items",
				zap.String("protocol_id", p.ID.String()),
				zap.Error(err),
			)
			continue
		}
		for _, item := range list {
			if !item.InPlan() {
				continue
			}
			switch item.ItemType {
			case models.ItemTypeSupplement:
				items.supplements = append(items.supplements, item)
			case models.ItemTypeExercise:
				items.exercises = append(items.exercises, item)
			case models.ItemTypeTherapy:
				items.therapies = append(items.therapies, item)
			case models.ItemTypeHabit:
				items.habits = append(items.habits, item)
			}
		}
	}

	return items, len(protocols) > 1
}

// buildDay assembles one day of the weekly grid
func (b *WeeklyBuilder) buildDay(ctx context.Context, userID uuid.UUID, date time.Time, items weekItems, templateKey string) models.WeeklyDay {
	dateKey := models.DateKey(date)
	dayOfWeek := int(date.Weekday())

	protocolDone, mealDone, essentialDone := b.dayCompletions(ctx, userID, dateKey)

	var actions []models.Action

	actions = append(actions, groupSupplements(items.supplements, dateKey, protocolDone)...)

	// Sunday is always a rest day: no exercise is scheduled. Other days
	// pick exactly one exercise, round-robin keyed by day-of-week rather
	// than by absolute date so rotation is stable across weeks.
	if dayOfWeek != 0 && len(items.exercises) > 0 {
		item := items.exercises[dayOfWeek%len(items.exercises)]
		actions = append(actions, weeklyItemAction(item, dateKey, protocolDone))
	}

	// Therapies rotate the same way but run every day.
	if len(items.therapies) > 0 {
		item := items.therapies[dayOfWeek%len(items.therapies)]
		actions = append(actions, weeklyItemAction(item, dateKey, protocolDone))
	}

	// Every active habit appears every day.
	for _, item := range items.habits {
		actions = append(actions, weeklyItemAction(item, dateKey, protocolDone))
	}

	for _, e := range DailyEssentials {
		a := normalizeEssential(e, dateKey)
		a.Completed = essentialDone[e.ID]
		actions = append(actions, a)
	}

	if templateKey != "" {
		for _, a := range normalizeMealsForDay(b.sources.Meals.DayMeals(templateKey, date.Weekday()), dateKey) {
			if a.MealType != nil {
				a.Completed = mealDone[*a.MealType]
			}
			actions = append(actions, a)
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actionTimeRank(actions[i]) < actionTimeRank(actions[j])
	})

	day := models.WeeklyDay{
		Date:       dateKey,
		DayOfWeek:  dayOfWeek,
		Actions:    actions,
		TotalCount: len(actions),
	}
	for _, a := range actions {
		if a.Completed {
			day.CompletedCount++
		}
	}
	return day
}

// dayCompletions loads all three completion kinds for one date. Each
// failed fetch degrades that kind to nothing-completed.
func (b *WeeklyBuilder) dayCompletions(ctx context.Context, userID uuid.UUID, dateKey string) (map[string]bool, map[models.MealType]bool, map[string]bool) {
	protocolDone := make(map[string]bool)
	if rows, err := b.sources.Completions.ListProtocolCompletions(ctx, userID, dateKey); err != nil {
		b.log.Warn("failed_to_list_protocol_completions",
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
			zap.String("date", dateKey),
			zap.Error(err),
		)
	} else {
		for _, c := range rows {
			mealDone[c.MealType] = true
		}
	}

	essentialDone := make(map[string]bool)
	if rows, err := b.sources.Completions.ListEssentialsCompletions(ctx, userID, dateKey); err != nil {
		b.log.Warn("failed_to_list_essentials_completions",
			zap.String("date", dateKey),
			zap.Error(err),
		)
	} else {
		for _, c := range rows {
			essentialDone[c.EssentialID] = true
		}
	}

	return protocolDone, mealDone, essentialDone
}

// groupSupplements emits one aggregate action per time bucket that has
// supplements, in morning/afternoon/evening order. The group counts as
// completed only when every constituent item is completed that day.
func groupSupplements(supplements []*models.ProtocolItem, dateKey string, protocolDone map[string]bool) []models.Action {
	buckets := make(map[models.TimeOfDay][]*models.ProtocolItem)
	for _, item := range supplements {
		bucket := item.FirstTimeOfDay()
		buckets[bucket] = append(buckets[bucket], item)
	}

	var actions []models.Action
	for _, bucket := range []models.TimeOfDay{models.TimeOfDayMorning, models.TimeOfDayAfternoon, models.TimeOfDayEvening} {
		group := buckets[bucket]
		if len(group) == 0 {
			continue
		}

		allDone := true
		minutes := 0
		children := make([]models.ChildItem, 0, len(group))
		for _, item := range group {
			done := protocolDone[item.ID.String()]
			if !done {
				allDone = false
			}
			minutes += ItemMinutes(item.ItemType)
			children = append(children, models.ChildItem{
				ProtocolItemID: item.ID.String(),
				Title:          item.Name,
				Completed:      done,
			})
		}

		actions = append(actions, models.Action{
			ID:               "supplements-" + string(bucket) + "-" + dateKey,
			Type:             models.ActionTypeProtocol,
			Title:            supplementGroupTitle(bucket),
			Category:         models.CategoryQuickWin,
			EstimatedMinutes: minutes,
			TimeOfDay:        []models.TimeOfDay{bucket},
			Completed:        allDone,
			ChildItems:       children,
		})
	}
	return actions
}

func supplementGroupTitle(bucket models.TimeOfDay) string {
	switch bucket {
	case models.TimeOfDayMorning:
		return "Morning supplements"
	case models.TimeOfDayAfternoon:
		return "Afternoon supplements"
	default:
		return "Evening supplements"
	}
}

// weeklyItemAction builds a per-day action for one protocol item. The day
// key joins the id so the same item yields distinct ids across the week.
func weeklyItemAction(item *models.ProtocolItem, dateKey string, protocolDone map[string]bool) models.Action {
	a := NormalizeProtocolItem(item)
	a.ID = a.ID + "-" + dateKey
	if len(a.TimeOfDay) == 0 {
		a.TimeOfDay = []models.TimeOfDay{models.TimeOfDayMorning}
	}
	a.Completed = protocolDone[item.ID.String()]
	return a
}

// actionTimeRank orders a day's actions by their first time bucket
func actionTimeRank(a models.Action) int {
	if len(a.TimeOfDay) == 0 {
		return 0
	}
	return models.TimeOfDayRank(a.TimeOfDay[0])
}
