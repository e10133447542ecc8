package plan

import (
	"fmt"
	"sort"
)

// multipliers maps (goal, level) to the calories-per-pound factor.
// Levels within a goal step the factor by one; the bands do not overlap
// across goals, ranging from 7 (extreme loss, level 1) to 21 (extreme
// gain, level 3).
var multipliers = map[Goal]map[int]int{
	GoalExtremeWeightLoss:  {1: 7, 2: 8, 3: 9},
	GoalModerateWeightLoss: {1: 10, 2: 11, 3: 12},
	GoalMaintenance:        {1: 13, 2: 14, 3: 15},
	GoalModerateWeightGain: {1: 16, 2: 17, 3: 18},
	GoalExtremeWeightGain:  {1: 19, 2: 20, 3: 21},
}

func init() {
	if err := validateTables(); err != nil {
		panic(err)
	}
}

// validateTables fails fast on an inconsistent multiplier table so a bad
// edit cannot ship a goal with missing levels or a non-positive factor.
func validateTables() error {
	if len(multipliers) == 0 {
		return fmt.Errorf("plan: empty multiplier table")
	}
	for _, goal := range Goals() {
		rows, ok := multipliers[goal]
		if !ok {
			return fmt.Errorf("plan: goal %s has no multiplier row", goal)
		}
		if len(rows) == 0 {
			return fmt.Errorf("plan: goal %s declares no levels", goal)
		}
		for level, mult := range rows {
			if level <= 0 {
				return fmt.Errorf("plan: goal %s declares non-positive level %d", goal, level)
			}
			if mult <= 0 {
				return fmt.Errorf("plan: goal %s level %d has non-positive multiplier %d", goal, level, mult)
			}
		}
	}
	return nil
}

// Levels returns the ordered set of valid levels for the goal.
func Levels(goal Goal) []int {
	rows, ok := multipliers[goal]
	if !ok {
		return nil
	}
	levels := make([]int, 0, len(rows))
	for level := range rows {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

// Multiplier returns the calorie multiplier for the (goal, level) pair.
func Multiplier(goal Goal, level int) (int, error) {
	rows, ok := multipliers[goal]
	if !ok {
		return 0, &UnknownGoalError{Input: string(goal)}
	}
	mult, ok := rows[level]
	if !ok {
		return 0, &InvalidLevelError{Goal: goal, Level: level}
	}
	return mult, nil
}
