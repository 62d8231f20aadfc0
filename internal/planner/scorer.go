package planner

import (
	"sort"
	"strings"

	"github.com/biohackher/vitality-api/internal/models"
)

// Scoring weights. The completion penalty dominates by construction: the
// maximum positive sum is +12, so no bonus combination can lift a
// completed action above an incomplete one.
const (
	lowEnergyThreshold = 60.0

	boostEnergyNutrient = 4.0
	boostEnergyKeyword  = 3.0
	boostShortTask      = 2.0
	penaltyLongTask     = -1.0
	boostGoalAlignment  = 3.0
	boostQuickWin       = 2.0
	boostProtocol       = 1.5
	boostEnergyBooster  = 2.0
	penaltyCompleted    = -100.0

	shortTaskMinutes = 10
	longTaskMinutes  = 30
)

// energyNutrients are title keywords that mark energy-supporting protocol
// items. The match is a single OR across all keywords: a title matching
// several of them still earns the bonus once.
var energyNutrients = []string{"iron", "b12", "coq10"}

// ScoreContext carries the physiological state that biases prioritization
type ScoreContext struct {
	LowEnergy   bool
	EnergyScore *float64
}

// NewScoreContext derives a scoring context from the latest energy metric.
// A nil metric means the user has never logged energy and no low-energy
// biasing applies.
func NewScoreContext(metric *float64) ScoreContext {
	return ScoreContext{
		LowEnergy:   metric != nil && *metric < lowEnergyThreshold,
		EnergyScore: metric,
	}
}

// Score computes an action's priority. All rules are evaluated for every
// action, in a fixed order, and their contributions are additive.
func Score(a models.Action, sc ScoreContext) float64 {
	score := 0.0
	title := strings.ToLower(a.Title)

	if sc.LowEnergy {
		if a.Type == models.ActionTypeProtocol && containsAny(title, energyNutrients) {
			score += boostEnergyNutrient
		}
		if strings.Contains(title, "energy") {
			score += boostEnergyKeyword
		}
		if a.EstimatedMinutes <= shortTaskMinutes {
			score += boostShortTask
		}
		if a.EstimatedMinutes > longTaskMinutes {
			score += penaltyLongTask
		}
	}

	if a.Type == models.ActionTypeGoal {
		score += boostGoalAlignment
	}
	if a.Category == models.CategoryQuickWin {
		score += boostQuickWin
	}
	if a.Type == models.ActionTypeProtocol {
		score += boostProtocol
	}
	if sc.EnergyScore != nil && *sc.EnergyScore < lowEnergyThreshold && a.Category == models.CategoryEnergyBooster {
		score += boostEnergyBooster
	}
	if a.Completed {
		score += penaltyCompleted
	}

	return score
}

// rankActions scores every action in place and sorts by priority
// descending. The sort is stable, so ties keep normalizer emission order
// (protocols, then goals, then energy actions, then meals).
func rankActions(actions []models.Action, sc ScoreContext) {
	for i := range actions {
		actions[i].Priority = Score(actions[i], sc)
	}
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Priority > actions[j].Priority
	})
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
