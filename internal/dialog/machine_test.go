package dialog

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fauzaanu/diet/internal/plan"
	"github.com/fauzaanu/diet/internal/session"
)

func newTestMachine(t *testing.T, opts Options) (*Machine, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	return New(store, opts), store
}

func feed(t *testing.T, m *Machine, userID int64, text string) Reply {
	t.Helper()
	r, err := m.Input(context.Background(), userID, text)
	if err != nil {
		t.Fatalf("input %q: %v", text, err)
	}
	return r
}

func TestHappyPathPounds(t *testing.T) {
	m, store := newTestMachine(t, Options{})
	ctx := context.Background()

	r, err := m.Start(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if m.State(7) != StateAwaitingUnit {
		t.Fatalf("state after start = %s", m.State(7))
	}
	if len(r.Options) == 0 {
		t.Fatal("start reply should offer the unit keyboard")
	}

	feed(t, m, 7, "lbs")
	if m.State(7) != StateAwaitingWeight {
		t.Fatalf("state after unit = %s", m.State(7))
	}
	feed(t, m, 7, "180")
	if m.State(7) != StateAwaitingGoal {
		t.Fatalf("state after weight = %s", m.State(7))
	}
	feed(t, m, 7, "Maintenance")
	if m.State(7) != StateAwaitingLevel {
		t.Fatalf("state after goal = %s", m.State(7))
	}

	r = feed(t, m, 7, "2")
	if m.State(7) != StateCompleted {
		t.Fatalf("state after level = %s", m.State(7))
	}
	if r.Plan == nil {
		t.Fatal("level acceptance should deliver the plan")
	}
	if r.Plan.Calories != 2520 || r.Plan.Protein != 180 {
		t.Fatalf("plan = %d cal / %dg, want 2520 / 180", r.Plan.Calories, r.Plan.Protein)
	}

	saved, ok, err := store.Load(ctx, 7)
	if err != nil || !ok {
		t.Fatalf("load saved session: %v ok=%v", err, ok)
	}
	if saved.Goal != plan.GoalMaintenance || saved.Level != 2 || saved.Weight != 180 {
		t.Fatalf("saved session = %+v", saved)
	}
}

func TestHappyPathKilograms(t *testing.T) {
	m, _ := newTestMachine(t, Options{})
	if _, err := m.Start(context.Background(), 9); err != nil {
		t.Fatal(err)
	}

	feed(t, m, 9, "kg")
	feed(t, m, 9, "80")
	feed(t, m, 9, "Extreme Weight Gain")
	r := feed(t, m, 9, "3")

	if r.Plan == nil {
		t.Fatal("expected a plan")
	}
	if r.Plan.Calories != 3704 || r.Plan.Protein != 176 {
		t.Fatalf("plan = %d cal / %dg, want 3704 / 176", r.Plan.Calories, r.Plan.Protein)
	}
}

func TestInvalidInputsReprompt(t *testing.T) {
	m, store := newTestMachine(t, Options{})
	if _, err := m.Start(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	if r := feed(t, m, 1, "stone"); r.Text != promptInvalidUnit {
		t.Fatalf("unit reprompt = %q", r.Text)
	}
	if m.State(1) != StateAwaitingUnit {
		t.Fatal("invalid unit must not advance")
	}
	feed(t, m, 1, "kg")

	for _, bad := range []string{"abc", "-5", "0", "NaN", "nan", "Inf", "+Inf", "-Inf", "Infinity"} {
		if r := feed(t, m, 1, bad); r.Text != promptInvalidNum {
			t.Fatalf("weight %q reprompt = %q", bad, r.Text)
		}
		if m.State(1) != StateAwaitingWeight {
			t.Fatalf("weight %q advanced the state", bad)
		}
	}
	feed(t, m, 1, "70")

	if r := feed(t, m, 1, "get swole"); r.Text != promptInvalidGoal {
		t.Fatalf("goal reprompt = %q", r.Text)
	}
	feed(t, m, 1, "Moderate Weight Loss")

	for _, bad := range []string{"0", "4", "two"} {
		feed(t, m, 1, bad)
		if m.State(1) != StateAwaitingLevel {
			t.Fatalf("level %q advanced the state", bad)
		}
	}
	if store.Len() != 0 {
		t.Fatal("nothing should be persisted before level acceptance")
	}
}

func TestNonFiniteWeightNeverPersisted(t *testing.T) {
	m, store := newTestMachine(t, Options{})
	ctx := context.Background()
	if _, err := m.Start(ctx, 13); err != nil {
		t.Fatal(err)
	}
	feed(t, m, 13, "kg")

	// ParseFloat accepts these spellings, the questionnaire must not.
	for _, bad := range []string{"Inf", "Infinity", "NaN"} {
		if r := feed(t, m, 13, bad); r.Text != promptInvalidNum {
			t.Fatalf("weight %q reply = %q", bad, r.Text)
		}
		if m.State(13) != StateAwaitingWeight {
			t.Fatalf("weight %q advanced the machine to %s", bad, m.State(13))
		}
	}

	// A real weight afterwards completes the flow and persists finite values.
	feed(t, m, 13, "80")
	feed(t, m, 13, "Maintenance")
	r := feed(t, m, 13, "2")
	if r.Plan == nil || m.State(13) != StateCompleted {
		t.Fatal("valid weight after rejected input should complete the flow")
	}
	saved, ok, err := store.Load(ctx, 13)
	if err != nil || !ok {
		t.Fatalf("load saved session: %v ok=%v", err, ok)
	}
	if math.IsNaN(saved.Weight) || math.IsInf(saved.Weight, 0) || saved.Weight != 80 {
		t.Fatalf("saved weight = %v, want 80", saved.Weight)
	}
}

func TestSaveFailureKeepsProgress(t *testing.T) {
	m, store := newTestMachine(t, Options{})
	if _, err := m.Start(context.Background(), 4); err != nil {
		t.Fatal(err)
	}
	feed(t, m, 4, "lbs")
	feed(t, m, 4, "200")
	feed(t, m, 4, "Maintenance")

	store.FailSaves = errors.New("connection refused")
	_, err := m.Input(context.Background(), 4, "1")
	var perr *session.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if m.State(4) != StateAwaitingLevel {
		t.Fatalf("state after failed save = %s", m.State(4))
	}

	// The store recovers and the same answer goes through.
	store.FailSaves = nil
	r := feed(t, m, 4, "1")
	if r.Plan == nil || m.State(4) != StateCompleted {
		t.Fatal("retry after store recovery should complete the flow")
	}
}

func TestCancelDiscardsProgressOnly(t *testing.T) {
	m, store := newTestMachine(t, Options{})
	ctx := context.Background()

	// A completed run first, so there is a stored snapshot to protect.
	if _, err := m.Start(ctx, 2); err != nil {
		t.Fatal(err)
	}
	feed(t, m, 2, "lbs")
	feed(t, m, 2, "180")
	feed(t, m, 2, "Maintenance")
	feed(t, m, 2, "2")

	// Second run, cancelled midway.
	if _, err := m.Restart(ctx, 2); err != nil {
		t.Fatal(err)
	}
	feed(t, m, 2, "kg")
	feed(t, m, 2, "95")

	r := m.Cancel(ctx, 2)
	if r.Text != promptCancelled {
		t.Fatalf("cancel reply = %q", r.Text)
	}
	if m.State(2) != StateCancelled {
		t.Fatalf("state after cancel = %s", m.State(2))
	}
	if m.InProgress(2) {
		t.Fatal("cancelled conversation still reports in progress")
	}

	saved, ok, err := store.Load(ctx, 2)
	if err != nil || !ok {
		t.Fatalf("load after cancel: %v ok=%v", err, ok)
	}
	if saved.Weight != 180 || saved.WeightUnit != plan.UnitLBS {
		t.Fatalf("cancel touched the stored snapshot: %+v", saved)
	}

	// Terminal state ignores stray text.
	if r := feed(t, m, 2, "hello"); !r.Empty() {
		t.Fatalf("cancelled conversation replied %q", r.Text)
	}
}

func TestStartWithSavedPlanOffersChoice(t *testing.T) {
	m, _ := newTestMachine(t, Options{})
	ctx := context.Background()

	if _, err := m.Start(ctx, 5); err != nil {
		t.Fatal(err)
	}
	feed(t, m, 5, "lbs")
	feed(t, m, 5, "180")
	feed(t, m, 5, "Maintenance")
	feed(t, m, 5, "2")

	r, err := m.Start(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if m.State(5) != StateAwaitingResume {
		t.Fatalf("state on re-entry = %s", m.State(5))
	}
	if r.Text != promptResumeChoice {
		t.Fatalf("re-entry prompt = %q", r.Text)
	}

	r = feed(t, m, 5, ChoiceResume)
	if r.Plan == nil || r.Plan.Calories != 2520 {
		t.Fatalf("resume did not recompute the plan: %+v", r.Plan)
	}
	if m.State(5) != StateCompleted {
		t.Fatalf("state after resume = %s", m.State(5))
	}

	// Re-enter again and restart instead.
	if _, err := m.Start(ctx, 5); err != nil {
		t.Fatal(err)
	}
	r = feed(t, m, 5, ChoiceRestart)
	if m.State(5) != StateAwaitingUnit {
		t.Fatalf("state after restart choice = %s", m.State(5))
	}
	if len(r.Options) == 0 {
		t.Fatal("restart should offer the unit keyboard")
	}
}

func TestResumeWithoutSavedPlanStartsFresh(t *testing.T) {
	m, _ := newTestMachine(t, Options{})
	r, err := m.Resume(context.Background(), 11)
	if err != nil {
		t.Fatal(err)
	}
	if r.Text != promptNoSaved {
		t.Fatalf("resume without data replied %q", r.Text)
	}
	if m.State(11) != StateAwaitingUnit {
		t.Fatalf("state = %s", m.State(11))
	}
}

func TestUnknownUserInputIgnored(t *testing.T) {
	m, _ := newTestMachine(t, Options{})
	if r := feed(t, m, 99, "hello"); !r.Empty() {
		t.Fatalf("idle user got reply %q", r.Text)
	}
	if m.State(99) != StateIdle {
		t.Fatalf("state = %s", m.State(99))
	}
}

func TestFoodsStepAnswered(t *testing.T) {
	m, _ := newTestMachine(t, Options{FoodsStep: true, FoodsWindow: time.Minute})
	if _, err := m.Start(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	feed(t, m, 3, "lbs")
	feed(t, m, 3, "180")
	feed(t, m, 3, "Maintenance")

	r := feed(t, m, 3, "2")
	if r.Plan == nil {
		t.Fatal("plan must be delivered before the foods question")
	}
	if m.State(3) != StateAwaitingFoods {
		t.Fatalf("state after level = %s", m.State(3))
	}

	if r := feed(t, m, 3, " , ,"); r.Text != promptFoodsEmpty {
		t.Fatalf("empty foods reply = %q", r.Text)
	}
	if m.State(3) != StateAwaitingFoods {
		t.Fatal("empty foods list must not advance")
	}

	r = feed(t, m, 3, "chicken, rice , eggs")
	if m.State(3) != StateCompleted {
		t.Fatalf("state after foods = %s", m.State(3))
	}
	want := "maintenance recipes 2520 calories 180g protein with chicken rice eggs"
	if r.SearchQuery != want {
		t.Fatalf("search query = %q, want %q", r.SearchQuery, want)
	}
	if !strings.Contains(r.Text, want) {
		t.Fatalf("reply does not carry the search query: %q", r.Text)
	}
}

func TestFoodsWindowExpires(t *testing.T) {
	notified := make(chan Reply, 1)
	m, _ := newTestMachine(t, Options{
		FoodsStep:   true,
		FoodsWindow: 20 * time.Millisecond,
		Notify:      func(_ int64, r Reply) { notified <- r },
	})
	if _, err := m.Start(context.Background(), 6); err != nil {
		t.Fatal(err)
	}
	feed(t, m, 6, "kg")
	feed(t, m, 6, "80")
	feed(t, m, 6, "Maintenance")
	feed(t, m, 6, "2")

	select {
	case r := <-notified:
		if r.Text != promptFoodsExpired {
			t.Fatalf("timeout notice = %q", r.Text)
		}
	case <-time.After(time.Second):
		t.Fatal("foods window never expired")
	}
	if m.State(6) != StateCompleted {
		t.Fatalf("state after expiry = %s", m.State(6))
	}

	// A late answer is ignored; the plan already closed out.
	if r := feed(t, m, 6, "chicken"); !r.Empty() {
		t.Fatalf("late foods answer got reply %q", r.Text)
	}
}

func TestReentryDuringFoodsWindowStopsTimer(t *testing.T) {
	var expired atomic.Int32
	m, _ := newTestMachine(t, Options{
		FoodsStep:   true,
		FoodsWindow: 50 * time.Millisecond,
		Notify:      func(int64, Reply) { expired.Add(1) },
	})
	ctx := context.Background()
	if _, err := m.Start(ctx, 12); err != nil {
		t.Fatal(err)
	}
	feed(t, m, 12, "kg")
	feed(t, m, 12, "80")
	feed(t, m, 12, "Maintenance")
	feed(t, m, 12, "2")
	if m.State(12) != StateAwaitingFoods {
		t.Fatalf("state before re-entry = %s", m.State(12))
	}

	// The session was persisted on level acceptance, so re-entry offers the
	// resume choice and must retire the open foods window with it.
	if _, err := m.Start(ctx, 12); err != nil {
		t.Fatal(err)
	}
	if m.State(12) != StateAwaitingResume {
		t.Fatalf("state after re-entry = %s", m.State(12))
	}

	time.Sleep(120 * time.Millisecond)
	if expired.Load() != 0 {
		t.Fatal("stale foods timer fired after re-entry")
	}
	if m.State(12) != StateAwaitingResume {
		t.Fatalf("state after timer window = %s", m.State(12))
	}
}

func TestFinishBeatsFoodsTimer(t *testing.T) {
	var expired atomic.Int32
	m, _ := newTestMachine(t, Options{
		FoodsStep:   true,
		FoodsWindow: 50 * time.Millisecond,
		Notify:      func(int64, Reply) { expired.Add(1) },
	})
	if _, err := m.Start(context.Background(), 8); err != nil {
		t.Fatal(err)
	}
	feed(t, m, 8, "kg")
	feed(t, m, 8, "80")
	feed(t, m, 8, "Maintenance")
	feed(t, m, 8, "2")
	feed(t, m, 8, "salmon")

	time.Sleep(120 * time.Millisecond)
	if expired.Load() != 0 {
		t.Fatal("timeout notice sent after the user already answered")
	}
}
