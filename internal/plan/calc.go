package plan

import "math"

// LbsPerKG is the fixed kg-to-pounds conversion factor.
const LbsPerKG = 2.20462

// Result is the derived daily calorie/protein target for a completed
// questionnaire. It is recomputed on demand and never stored.
type Result struct {
	Calories int
	Protein  int
}

// Compute derives the daily targets from weight, unit, goal and level.
//
// The weight is normalized to pounds, calories are weight times the
// (goal, level) multiplier, protein is one gram per pound. Both targets
// round half away from zero (math.Round); the exact values are pinned in
// the package tests.
func Compute(weight float64, unit Unit, goal Goal, level int) (Result, error) {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return Result{}, &InvalidWeightError{Weight: weight}
	}

	mult, err := Multiplier(goal, level)
	if err != nil {
		return Result{}, err
	}

	lbs := weight
	if unit == UnitKG {
		lbs = weight * LbsPerKG
	}

	return Result{
		Calories: int(math.Round(lbs * float64(mult))),
		Protein:  int(math.Round(lbs)),
	}, nil
}
