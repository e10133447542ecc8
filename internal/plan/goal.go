// Package plan holds the diet plan domain model: goals, the per-goal
// calorie multiplier tables, and the plan calculator.
package plan

import (
	"fmt"
	"strings"
)

// Goal is the user's stated fitness objective. The raw values match what is
// stored in the users table.
type Goal string

const (
	GoalExtremeWeightLoss  Goal = "EXTREME_WEIGHT_LOSS"
	GoalModerateWeightLoss Goal = "MODERATE_WEIGHT_LOSS"
	GoalMaintenance        Goal = "MAINTENANCE"
	GoalModerateWeightGain Goal = "MODERATE_WEIGHT_GAIN"
	GoalExtremeWeightGain  Goal = "EXTREME_WEIGHT_GAIN"
)

// Goals returns all goals in menu order.
func Goals() []Goal {
	return []Goal{
		GoalExtremeWeightLoss,
		GoalModerateWeightLoss,
		GoalMaintenance,
		GoalModerateWeightGain,
		GoalExtremeWeightGain,
	}
}

// Title returns the human-readable menu label, e.g. "Extreme Weight Loss".
func (g Goal) Title() string {
	words := strings.Split(string(g), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = string(w[0]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// ParseGoal resolves either the raw name or the menu label to a Goal.
func ParseGoal(input string) (Goal, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(input), " ", "_"))
	g := Goal(normalized)
	if _, ok := multipliers[g]; !ok {
		return "", &UnknownGoalError{Input: input}
	}
	return g, nil
}

// Unit is the weight unit the user reports their weight in.
type Unit string

const (
	UnitKG  Unit = "kg"
	UnitLBS Unit = "lbs"
)

// ParseUnit resolves a unit token; anything but "kg" or "lbs" is rejected.
func ParseUnit(input string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "kg":
		return UnitKG, nil
	case "lbs":
		return UnitLBS, nil
	}
	return "", fmt.Errorf("unknown weight unit %q", input)
}
