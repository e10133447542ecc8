package session

import (
	"context"
	"errors"
	"testing"

	"github.com/fauzaanu/diet/internal/plan"
)

func TestMemoryStoreLoadAbsent(t *testing.T) {
	store := NewMemoryStore()
	s, ok, err := store.Load(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if ok || s != nil {
		t.Fatalf("expected absent session, got %+v", s)
	}
}

func TestMemoryStoreUpsertLastWriteWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := &Session{UserID: 7, WeightUnit: plan.UnitLBS, Weight: 180, Goal: plan.GoalMaintenance, Level: 2}
	if err := store.Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := &Session{UserID: 7, WeightUnit: plan.UnitKG, Weight: 80, Goal: plan.GoalExtremeWeightGain, Level: 3}
	if err := store.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	if store.Len() != 1 {
		t.Fatalf("expected a single row per user, got %d", store.Len())
	}
	got, ok, err := store.Load(ctx, 7)
	if err != nil || !ok {
		t.Fatalf("load: %v ok=%v", err, ok)
	}
	if got.Goal != plan.GoalExtremeWeightGain || got.Level != 3 {
		t.Fatalf("expected last write to win, got %+v", got)
	}
	if got.LastUpdated.IsZero() {
		t.Fatal("expected LastUpdated to be set on save")
	}
}

func TestMemoryStoreSaveFailure(t *testing.T) {
	store := NewMemoryStore()
	store.FailSaves = errors.New("connection refused")

	err := store.Save(context.Background(), &Session{UserID: 1})
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if perr.Code() != "PERSISTENCE_ERROR" {
		t.Fatalf("unexpected code %s", perr.Code())
	}
}

func TestSessionComplete(t *testing.T) {
	s := &Session{UserID: 1}
	if s.Complete() {
		t.Fatal("empty session reported complete")
	}
	s.WeightUnit = plan.UnitKG
	s.Weight = 70
	s.Goal = plan.GoalMaintenance
	if s.Complete() {
		t.Fatal("session without level reported complete")
	}
	s.Level = 2
	if !s.Complete() {
		t.Fatal("filled session reported incomplete")
	}

	result, err := s.Plan()
	if err != nil {
		t.Fatal(err)
	}
	if result.Protein != 154 {
		t.Fatalf("protein = %d, want 154", result.Protein)
	}
}
