// Package session defines the per-user questionnaire record and its stores.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/fauzaanu/diet/internal/plan"
)

// Session accumulates a single user's questionnaire answers. Fields are
// filled strictly in order: unit, weight, goal, level. Foods are collected
// after the plan is delivered and are not persisted.
type Session struct {
	UserID      int64     `db:"user_id"`
	WeightUnit  plan.Unit `db:"weight_unit"`
	Weight      float64   `db:"weight"`
	Goal        plan.Goal `db:"goal"`
	Level       int       `db:"level"`
	LastUpdated time.Time `db:"last_updated"`

	Foods []string `db:"-"`
}

// Complete reports whether every persisted questionnaire field is filled.
func (s *Session) Complete() bool {
	return s != nil && s.WeightUnit != "" && s.Weight > 0 && s.Goal != "" && s.Level > 0
}

// Plan recomputes the calorie/protein targets from the stored answers.
func (s *Session) Plan() (plan.Result, error) {
	return plan.Compute(s.Weight, s.WeightUnit, s.Goal, s.Level)
}

// Store persists completed sessions keyed by user id. Save is an upsert,
// last write wins; a single row is written atomically.
type Store interface {
	Load(ctx context.Context, userID int64) (*Session, bool, error)
	Save(ctx context.Context, s *Session) error
}

// PersistenceError wraps a store failure. The conversation keeps its
// in-memory progress; the user sees a generic failure message.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("session store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Code identifies the error class for structured logs.
func (e *PersistenceError) Code() string { return "PERSISTENCE_ERROR" }
