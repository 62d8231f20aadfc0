package mealplan

import (
	"testing"
	"time"

	"github.com/biohackher/vitality-api/internal/models"
)

func TestLoadDefault(t *testing.T) {
	t.Parallel()

	catalog, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}

	for _, key := range []string{"hormone_balance", "energy_reset", "gut_repair"} {
		if !catalog.HasTemplate(key) {
			t.Errorf("expected built-in template %q", key)
		}
	}
	if catalog.HasTemplate("keto_extreme") {
		t.Error("unexpected template keto_extreme")
	}
	if got := len(catalog.TemplateKeys()); got != 3 {
		t.Errorf("TemplateKeys() returned %d keys, want 3", got)
	}
}

func TestCatalog_DayMeals(t *testing.T) {
	t.Parallel()

	catalog, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}

	tests := []struct {
		name     string
		template string
		day      time.Weekday
		wantNil  bool
	}{
		{"monday meals present", "hormone_balance", time.Monday, false},
		{"sunday meals present", "energy_reset", time.Sunday, false},
		{"unknown template", "keto_extreme", time.Monday, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			meals := catalog.DayMeals(tt.template, tt.day)
			if tt.wantNil {
				if meals != nil {
					t.Errorf("DayMeals(%s, %s) = %+v, want nil", tt.template, tt.day, meals)
				}
				return
			}
			if meals == nil {
				t.Fatalf("DayMeals(%s, %s) = nil", tt.template, tt.day)
			}
			for _, slot := range []models.MealType{models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner} {
				meal := meals.Slot(slot)
				if meal == nil {
					t.Errorf("template %s %s has no %s", tt.template, tt.day, slot)
					continue
				}
				if meal.Name == "" || meal.Calories <= 0 {
					t.Errorf("%s %s %s: incomplete meal record %+v", tt.template, tt.day, slot, meal)
				}
			}
		})
	}
}

func TestWeekdayKey(t *testing.T) {
	t.Parallel()

	if got := WeekdayKey(time.Monday); got != "monday" {
		t.Errorf("WeekdayKey(Monday) = %q", got)
	}
	if got := WeekdayKey(time.Sunday); got != "sunday" {
		t.Errorf("WeekdayKey(Sunday) = %q", got)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	if _, err := Load([]byte("not: [valid")); err == nil {
		t.Error("expected error for malformed catalog")
	}
}
