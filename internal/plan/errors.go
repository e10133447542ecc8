package plan

import "fmt"

// UnknownGoalError indicates input that does not resolve to any declared goal.
type UnknownGoalError struct {
	Input string
}

func (e *UnknownGoalError) Error() string {
	return fmt.Sprintf("unknown goal %q", e.Input)
}

// Code identifies the error class for structured logs.
func (e *UnknownGoalError) Code() string { return "UNKNOWN_GOAL" }

// InvalidLevelError indicates a level outside the set declared for the goal.
type InvalidLevelError struct {
	Goal  Goal
	Level int
}

func (e *InvalidLevelError) Error() string {
	return fmt.Sprintf("level %d is not valid for goal %s", e.Level, e.Goal)
}

// Code identifies the error class for structured logs.
func (e *InvalidLevelError) Code() string { return "INVALID_LEVEL" }

// InvalidWeightError indicates a non-positive or non-numeric weight.
type InvalidWeightError struct {
	Weight float64
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("invalid weight %v", e.Weight)
}

// Code identifies the error class for structured logs.
func (e *InvalidWeightError) Code() string { return "INVALID_WEIGHT" }
