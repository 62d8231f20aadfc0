package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/biohackher/vitality-api/internal/models"
	"github.com/google/uuid"
)

func TestMondayOnOrBefore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		anchor time.Time
		want   string
	}{
		{"wednesday anchors to its monday", time.Date(2026, 9, 2, 15, 30, 0, 0, time.UTC), "2026-08-31"},
		{"monday anchors to itself", time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), "2026-08-31"},
		{"sunday anchors to the previous monday", time.Date(2026, 9, 6, 23, 0, 0, 0, time.UTC), "2026-08-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MondayOnOrBefore(tt.anchor)
			if models.DateKey(got) != tt.want {
				t.Errorf("MondayOnOrBefore() = %s, want %s", models.DateKey(got), tt.want)
			}
			if got.Weekday() != time.Monday {
				t.Errorf("result is a %s, want Monday", got.Weekday())
			}
		})
	}
}

func TestWeeklyBuilder_GridShape(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	f := newFakeSources()
	b := NewWeeklyBuilder(f.bundle(), testLogger())

	plan, err := b.Build(context.Background(), userID, wednesday)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(plan.Days) != 7 {
		t.Fatalf("got %d days, want 7", len(plan.Days))
	}
	if plan.WeekStart != "2026-08-31" {
		t.Errorf("week start = %s, want 2026-08-31", plan.WeekStart)
	}
	if plan.Days[0].DayOfWeek != 1 {
		t.Errorf("first day of week = %d, want 1 (Monday)", plan.Days[0].DayOfWeek)
	}
	if plan.Days[6].DayOfWeek != 0 {
		t.Errorf("last day of week = %d, want 0 (Sunday)", plan.Days[6].DayOfWeek)
	}
	// Even an empty protocol still yields the 4 daily essentials.
	for _, day := range plan.Days {
		if day.TotalCount != len(DailyEssentials) {
			t.Errorf("day %s has %d actions, want %d essentials", day.Date, day.TotalCount, len(DailyEssentials))
		}
	}
}

func TestWeeklyBuilder_SundayRestDay(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	f := newFakeSources()
	f.addProtocol(userID,
		newItem("Strength A", models.ItemTypeExercise),
		newItem("Strength B", models.ItemTypeExercise),
		newItem("Yoga", models.ItemTypeExercise),
	)

	b := NewWeeklyBuilder(f.bundle(), testLogger())
	plan, err := b.Build(context.Background(), userID, wednesday)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, day := range plan.Days {
		exercises := 0
		for _, a := range day.Actions {
			if a.Type == models.ActionTypeProtocol && a.ProtocolItemID != nil && a.Category == models.CategoryDeepPractice {
				exercises++
			}
		}
		if day.DayOfWeek == 0 && exercises != 0 {
			t.Errorf("Sunday (%s) has %d exercises, want 0", day.Date, exercises)
		}
		if day.DayOfWeek != 0 && exercises != 1 {
			t.Errorf("day %s has %d exercises, want exactly 1", day.Date, exercises)
		}
	}
}

func TestWeeklyBuilder_RotationStableAcrossWeeks(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	f := newFakeSources()
	f.addProtocol(userID,
		newItem("A", models.ItemTypeExercise),
		newItem("B", models.ItemTypeExercise),
		newItem("C", models.ItemTypeExercise),
	)

	b := NewWeeklyBuilder(f.bundle(), testLogger())

	thisWeek, err := b.Build(context.Background(), userID, wednesday)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	nextWeek, err := b.Build(context.Background(), userID, wednesday.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Wednesday is index 2 in a Monday-anchored grid; dayOfWeek 3 with 3
	// exercises picks exercises[0] = A in every week.
	first := exerciseTitle(t, thisWeek.Days[2])
	second := exerciseTitle(t, nextWeek.Days[2])
	if first != "A" {
		t.Errorf("wednesday exercise = %q, want A (exercises[3 %% 3])", first)
	}
	if first != second {
		t.Errorf("rotation not stable across weeks: %q vs %q", first, second)
	}
}

func exerciseTitle(t *testing.T, day models.WeeklyDay) string {
	t.Helper()
	for _, a := range day.Actions {
		if a.Category == models.CategoryDeepPractice && a.ProtocolItemID != nil {
			return a.Title
		}
	}
	t.Fatalf("no exercise found on %s", day.Date)
	return ""
}

func TestWeeklyBuilder_TherapiesRunEveryDay(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	f := newFakeSources()
	f.addProtocol(userID,
		newItem("Sauna", models.ItemTypeTherapy),
		newItem("Red light", models.ItemTypeTherapy),
	)

	b := NewWeeklyBuilder(f.bundle(), testLogger())
	plan, err := b.Build(context.Background(), userID, wednesday)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, day := range plan.Days {
		therapies := 0
		for _, a := range day.Actions {
			if a.ProtocolItemID != nil && a.Category == models.CategoryDeepPractice {
				therapies++
			}
		}
		if therapies != 1 {
			t.Errorf("day %s has %d therapies, want 1 (no rest day for therapies)", day.Date, therapies)
		}
	}
}

func TestWeeklyBuilder_SupplementGroupANDJoin(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	f := newFakeSources()
	s1 := newItem("Vitamin D3", models.ItemTypeSupplement, models.TimeOfDayMorning)
	s2 := newItem("Omega 3", models.ItemTypeSupplement, models.TimeOfDayMorning)
	f.addProtocol(userID, s1, s2)

	// Monday: both completed. Tuesday: only one.
	f.protocolDone["2026-08-31"] = []*models.ProtocolCompletion{
		{UserID: userID, ProtocolItemID: s1.ID, Date: "2026-08-31"},
		{UserID: userID, ProtocolItemID: s2.ID, Date: "2026-08-31"},
	}
	f.protocolDone["2026-09-01"] = []*models.ProtocolCompletion{
		{UserID: userID, ProtocolItemID: s1.ID, Date: "2026-09-01"},
	}

	b := NewWeeklyBuilder(f.bundle(), testLogger())
	plan, err := b.Build(context.Background(), userID, wednesday)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	monday := supplementGroup(t, plan.Days[0])
	if !monday.Completed {
		t.Error("group with every item completed should be completed")
	}
	if len(monday.ChildItems) != 2 {
		t.Errorf("child items = %d, want 2", len(monday.ChildItems))
	}

	tuesday := supplementGroup(t, plan.Days[1])
	if tuesday.Completed {
		t.Error("group missing one completion row must be incomplete")
	}
	doneChildren := 0
	for _, c := range tuesday.ChildItems {
		if c.Completed {
			doneChildren++
		}
	}
	if doneChildren != 1 {
		t.Errorf("completed children = %d, want 1", doneChildren)
	}
}

func supplementGroup(t *testing.T, day models.WeeklyDay) models.Action {
	t.Helper()
	for _, a := range day.Actions {
		if len(a.ChildItems) > 0 {
			return a
		}
	}
	t.Fatalf("no supplement group found on %s", day.Date)
	return models.Action{}
}

func TestWeeklyBuilder_SupplementBucketsByFirstTimeOfDay(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	f := newFakeSources()
	f.addProtocol(userID,
		newItem("Morning stack", models.ItemTypeSupplement, models.TimeOfDayMorning),
		newItem("Untagged defaults to morning", models.ItemTypeSupplement),
		newItem("Evening magnesium", models.ItemTypeSupplement, models.TimeOfDayEvening),
	)

	b := NewWeeklyBuilder(f.bundle(), testLogger())
	plan, err := b.Build(context.Background(), userID, wednesday)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var groups []models.Action
	for _, a := range plan.Days[0].Actions {
		if len(a.ChildItems) > 0 {
			groups = append(groups, a)
		}
	}
	if len(groups) != 2 {
		t.Fatalf("got %d supplement groups, want 2 (morning, evening)", len(groups))
	}
	if len(groups[0].ChildItems) != 2 {
		t.Errorf("morning group children = %d, want 2", len(groups[0].ChildItems))
	}
	if groups[1].TimeOfDay[0] != models.TimeOfDayEvening {
		t.Errorf("second group bucket = %s, want evening", groups[1].TimeOfDay[0])
	}
}

func TestWeeklyBuilder_DaySortedByTimeOfDay(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	f := newFakeSources()
	f.addProtocol(userID,
		newItem("Evening magnesium", models.ItemTypeSupplement, models.TimeOfDayEvening),
		newItem("Morning stack", models.ItemTypeSupplement, models.TimeOfDayMorning),
	)
	f.templateKey = "gut_repair"
	f.templates["gut_repair"] = map[time.Weekday]*models.DayMeals{
		time.Monday: {
			Breakfast: &models.Meal{Name: "Kefir bowl", Calories: 320, Protein: 16},
			Dinner:    &models.Meal{Name: "Baked fish", Calories: 520, Protein: 32},
		},
	}

	b := NewWeeklyBuilder(f.bundle(), testLogger())
	plan, err := b.Build(context.Background(), userID, wednesday)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	lastRank := -1
	for _, a := range plan.Days[0].Actions {
		rank := models.TimeOfDayRank(a.TimeOfDay[0])
		if rank < lastRank {
			t.Fatalf("day not sorted by time of day: %v", actionTimes(plan.Days[0].Actions))
		}
		lastRank = rank
	}
}

func actionTimes(actions []models.Action) []models.TimeOfDay {
	out := make([]models.TimeOfDay, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.TimeOfDay[0])
	}
	return out
}

func TestWeeklyBuilder_EssentialsCompletionJoin(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	f := newFakeSources()
	f.essentialDone["2026-08-31"] = []*models.EssentialCompletion{
		{UserID: userID, EssentialID: "hydration", Date: "2026-08-31"},
	}

	b := NewWeeklyBuilder(f.bundle(), testLogger())
	plan, err := b.Build(context.Background(), userID, wednesday)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if plan.Days[0].CompletedCount != 1 {
		t.Errorf("monday completed = %d, want 1", plan.Days[0].CompletedCount)
	}
	if plan.Days[1].CompletedCount != 0 {
		t.Errorf("tuesday completed = %d, want 0", plan.Days[1].CompletedCount)
	}
}

func TestWeeklyBuilder_CompletionFetchFailureDegrades(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	f := newFakeSources()
	f.addProtocol(userID, newItem("Vitamin D3", models.ItemTypeSupplement))
	f.completionsErr = errors.New("log unavailable")

	b := NewWeeklyBuilder(f.bundle(), testLogger())
	plan, err := b.Build(context.Background(), userID, wednesday)
	if err != nil {
		t.Fatalf("Build() should degrade, not fail: %v", err)
	}

	for _, day := range plan.Days {
		if day.CompletedCount != 0 {
			t.Errorf("day %s completed = %d, want 0 after log failure", day.Date, day.CompletedCount)
		}
	}
}

func TestWeeklyBuilder_MealsPerTemplateDay(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	f := newFakeSources()
	f.templateKey = "hormone_balance"
	f.templates["hormone_balance"] = map[time.Weekday]*models.DayMeals{
		time.Monday: {
			Breakfast: &models.Meal{Name: "Yogurt", Calories: 340, Protein: 24},
			Lunch:     &models.Meal{Name: "Lentil salad", Calories: 520, Protein: 22},
			Dinner:    &models.Meal{Name: "Salmon", Calories: 610, Protein: 38},
		},
		time.Tuesday: {
			Lunch: &models.Meal{Name: "Wrap", Calories: 540, Protein: 32},
		},
	}

	b := NewWeeklyBuilder(f.bundle(), testLogger())
	plan, err := b.Build(context.Background(), userID, wednesday)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got := mealCount(plan.Days[0]); got != 3 {
		t.Errorf("monday meals = %d, want 3", got)
	}
	if got := mealCount(plan.Days[1]); got != 1 {
		t.Errorf("tuesday meals = %d, want 1 (absent slots yield no action)", got)
	}
	if got := mealCount(plan.Days[2]); got != 0 {
		t.Errorf("wednesday meals = %d, want 0 (no template entry)", got)
	}
}

func mealCount(day models.WeeklyDay) int {
	n := 0
	for _, a := range day.Actions {
		if a.Type == models.ActionTypeMeal {
			n++
		}
	}
	return n
}
