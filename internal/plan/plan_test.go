package plan

import (
	"errors"
	"math"
	"testing"
)

func TestMultiplierTablePinned(t *testing.T) {
	expected := map[Goal][3]int{
		GoalExtremeWeightLoss:  {7, 8, 9},
		GoalModerateWeightLoss: {10, 11, 12},
		GoalMaintenance:        {13, 14, 15},
		GoalModerateWeightGain: {16, 17, 18},
		GoalExtremeWeightGain:  {19, 20, 21},
	}
	for goal, mults := range expected {
		levels := Levels(goal)
		if len(levels) != 3 {
			t.Fatalf("goal %s: expected 3 levels, got %v", goal, levels)
		}
		for i, level := range levels {
			if level != i+1 {
				t.Fatalf("goal %s: expected level %d at position %d, got %d", goal, i+1, i, level)
			}
			got, err := Multiplier(goal, level)
			if err != nil {
				t.Fatalf("goal %s level %d: %v", goal, level, err)
			}
			if got != mults[i] {
				t.Fatalf("goal %s level %d: multiplier = %d, want %d", goal, level, got, mults[i])
			}
		}
	}
}

func TestMultiplierInvalidLevel(t *testing.T) {
	for _, level := range []int{0, 4, -1, 99} {
		_, err := Multiplier(GoalMaintenance, level)
		var invalid *InvalidLevelError
		if !errors.As(err, &invalid) {
			t.Fatalf("level %d: expected InvalidLevelError, got %v", level, err)
		}
		if invalid.Code() != "INVALID_LEVEL" {
			t.Fatalf("unexpected error code %s", invalid.Code())
		}
	}
}

func TestComputeMaintenanceLBS(t *testing.T) {
	// 180 lbs, maintenance level 2 -> multiplier 14.
	got, err := Compute(180, UnitLBS, GoalMaintenance, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got.Calories != 2520 {
		t.Fatalf("calories = %d, want 2520", got.Calories)
	}
	if got.Protein != 180 {
		t.Fatalf("protein = %d, want 180", got.Protein)
	}
}

func TestComputeExtremeGainKG(t *testing.T) {
	// 80 kg = 176.37 lbs, extreme gain level 3 -> multiplier 21.
	got, err := Compute(80, UnitKG, GoalExtremeWeightGain, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.Calories != 3704 {
		t.Fatalf("calories = %d, want 3704", got.Calories)
	}
	if got.Protein != 176 {
		t.Fatalf("protein = %d, want 176", got.Protein)
	}
}

func TestComputeDeterministic(t *testing.T) {
	first, err := Compute(72.5, UnitKG, GoalModerateWeightLoss, 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Compute(72.5, UnitKG, GoalModerateWeightLoss, 1)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
}

func TestComputeUnitRoundTrip(t *testing.T) {
	kg, err := Compute(70, UnitKG, GoalMaintenance, 2)
	if err != nil {
		t.Fatal(err)
	}
	lbs, err := Compute(70*LbsPerKG, UnitLBS, GoalMaintenance, 2)
	if err != nil {
		t.Fatal(err)
	}
	if kg != lbs {
		t.Fatalf("kg path %+v differs from lbs path %+v", kg, lbs)
	}
}

func TestComputeInvalidWeight(t *testing.T) {
	for _, w := range []float64{0, -1, -80.5, math.NaN(), math.Inf(1)} {
		_, err := Compute(w, UnitLBS, GoalMaintenance, 2)
		var invalid *InvalidWeightError
		if !errors.As(err, &invalid) {
			t.Fatalf("weight %v: expected InvalidWeightError, got %v", w, err)
		}
	}
}

func TestParseGoal(t *testing.T) {
	cases := []struct {
		input string
		want  Goal
	}{
		{"Extreme Weight Loss", GoalExtremeWeightLoss},
		{"MAINTENANCE", GoalMaintenance},
		{"moderate weight gain", GoalModerateWeightGain},
		{"EXTREME_WEIGHT_GAIN", GoalExtremeWeightGain},
	}
	for _, tc := range cases {
		got, err := ParseGoal(tc.input)
		if err != nil {
			t.Fatalf("ParseGoal(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseGoal(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}

	if _, err := ParseGoal("get swole"); err == nil {
		t.Fatal("expected error for unknown goal")
	}
}

func TestGoalTitle(t *testing.T) {
	if got := GoalExtremeWeightLoss.Title(); got != "Extreme Weight Loss" {
		t.Fatalf("Title() = %q", got)
	}
	if got := GoalMaintenance.Title(); got != "Maintenance" {
		t.Fatalf("Title() = %q", got)
	}
}

func TestParseUnit(t *testing.T) {
	if u, err := ParseUnit(" KG "); err != nil || u != UnitKG {
		t.Fatalf("ParseUnit(kg) = %v, %v", u, err)
	}
	if u, err := ParseUnit("lbs"); err != nil || u != UnitLBS {
		t.Fatalf("ParseUnit(lbs) = %v, %v", u, err)
	}
	if _, err := ParseUnit("stone"); err == nil {
		t.Fatal("expected error for unsupported unit")
	}
}
