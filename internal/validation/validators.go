package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/biohackher/vitality-api/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("meal_type", validateMealType); err != nil {
		panic(fmt.Sprintf("failed to register meal_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("item_type", validateItemType); err != nil {
		panic(fmt.Sprintf("failed to register item_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("goal_status", validateGoalStatus); err != nil {
		panic(fmt.Sprintf("failed to register goal_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("plan_date", validatePlanDate); err != nil {
		panic(fmt.Sprintf("failed to register plan_date validator: %v", err))
	}
}

// validateMealType validates that a string is a valid MealType enum value
func validateMealType(fl validator.FieldLevel) bool {
	return ValidateMealType(fl.Field().String()) == nil
}

// validateItemType validates that a string is a valid protocol item type
func validateItemType(fl validator.FieldLevel) bool {
	return ValidateItemType(fl.Field().String()) == nil
}

// validateGoalStatus validates that a string is a valid GoalStatus enum value
func validateGoalStatus(fl validator.FieldLevel) bool {
	return ValidateGoalStatus(fl.Field().String()) == nil
}

// validatePlanDate validates that a string is a calendar date in YYYY-MM-DD form
func validatePlanDate(fl validator.FieldLevel) bool {
	return ValidatePlanDate(fl.Field().String()) == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateMealType validates a MealType string value
func ValidateMealType(value string) error {
	switch models.MealType(value) {
	case models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner:
		return nil
	default:
		return fmt.Errorf("invalid meal_type: %s (must be 'breakfast', 'lunch', or 'dinner')", value)
	}
}

// ValidateItemType validates a protocol item type string value
func ValidateItemType(value string) error {
	switch models.ProtocolItemType(value) {
	case models.ItemTypeSupplement, models.ItemTypeDiet, models.ItemTypeHabit,
		models.ItemTypeExercise, models.ItemTypeTherapy:
		return nil
	default:
		return fmt.Errorf("invalid item_type: %s (must be 'supplement', 'diet', 'habit', 'exercise', or 'therapy')", value)
	}
}

// ValidateGoalStatus validates a GoalStatus string value
func ValidateGoalStatus(value string) error {
	switch models.GoalStatus(value) {
	case models.GoalStatusActive, models.GoalStatusCompleted, models.GoalStatusPaused, models.GoalStatusArchived:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'active', 'completed', 'paused', or 'archived')", value)
	}
}

// ValidatePlanDate validates a YYYY-MM-DD date string
func ValidatePlanDate(value string) error {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("invalid date: %s (must be YYYY-MM-DD)", value)
	}
	return nil
}
