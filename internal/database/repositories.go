package database

import (
	"github.com/biohackher/vitality-api/internal/planner"
)

// Compile-time checks that the concrete repositories satisfy the planner's
// source interfaces.
var (
	_ planner.ProtocolSource   = (*ProtocolRepository)(nil)
	_ planner.GoalSource       = (*GoalRepository)(nil)
	_ planner.EnergySource     = (*EnergyActionRepository)(nil)
	_ planner.NutritionSource  = (*NutritionPrefsRepository)(nil)
	_ planner.CompletionSource = (*CompletionRepository)(nil)
)
