// Package dialog implements the questionnaire state machine. It is
// transport-agnostic: callers feed it user text and deliver the returned
// replies, the machine owns per-user conversation state and the session
// store side effects.
package dialog

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fauzaanu/diet/internal/logger"
	"github.com/fauzaanu/diet/internal/plan"
	"github.com/fauzaanu/diet/internal/poll"
	"github.com/fauzaanu/diet/internal/session"
	"log/slog"
)

// State identifies a questionnaire step.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle           State = "idle"
	StateAwaitingResume State = "awaiting_resume"
	StateAwaitingUnit   State = "awaiting_unit"
	StateAwaitingWeight State = "awaiting_weight"
	StateAwaitingGoal   State = "awaiting_goal"
	StateAwaitingLevel  State = "awaiting_level"
	StateAwaitingFoods  State = "awaiting_foods"
	StateCompleted      State = "completed"
	StateCancelled      State = "cancelled"
)

// Reply is what the machine wants said to the user after a turn.
type Reply struct {
	Text string
	// Options are reply-keyboard rows; empty means remove the keyboard.
	Options [][]string
	// Plan is set on the turn that delivers the calorie/protein targets.
	Plan *plan.Result
	// SearchQuery is the recipe search artifact built from food preferences.
	SearchQuery string
}

// Empty reports whether the reply carries nothing to send.
func (r Reply) Empty() bool {
	return r.Text == "" && r.Plan == nil
}

// Options tune the machine.
type Options struct {
	// FoodsStep enables the favorite-foods question after plan delivery.
	FoodsStep bool
	// FoodsWindow bounds how long the foods question stays open.
	FoodsWindow time.Duration
	// Notify delivers timer-driven replies outside a user turn.
	Notify func(userID int64, r Reply)
}

type conversation struct {
	state   State
	session *session.Session
	window  *poll.Window
}

// Machine walks users through the questionnaire one input at a time.
type Machine struct {
	mu    sync.Mutex
	store session.Store
	opts  Options
	convs map[int64]*conversation
}

// New constructs a Machine backed by the given session store.
func New(store session.Store, opts Options) *Machine {
	return &Machine{
		store: store,
		opts:  opts,
		convs: make(map[int64]*conversation),
	}
}

// State returns the user's current questionnaire step.
func (m *Machine) State(userID int64) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conv, ok := m.convs[userID]; ok {
		return conv.state
	}
	return StateIdle
}

// InProgress reports whether the user has an active (non-terminal) conversation.
func (m *Machine) InProgress(userID int64) bool {
	switch m.State(userID) {
	case StateAwaitingResume, StateAwaitingUnit, StateAwaitingWeight,
		StateAwaitingGoal, StateAwaitingLevel, StateAwaitingFoods:
		return true
	}
	return false
}

// Start begins a conversation. A user with a previously completed stored
// session gets the restart/resume choice; everyone else starts fresh.
func (m *Machine) Start(ctx context.Context, userID int64) (Reply, error) {
	stored, ok, err := m.store.Load(ctx, userID)
	if err != nil {
		// Resume is a convenience; a broken store must not block a fresh run.
		logger.Warn(ctx, "dialog", "start.load_failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil && ok && stored.Complete() {
		if old, live := m.convs[userID]; live && old.window != nil {
			old.window.Finish()
		}
		m.convs[userID] = &conversation{state: StateAwaitingResume, session: stored}
		return Reply{Text: promptResumeChoice, Options: resumeKeyboard()}, nil
	}
	return m.freshLocked(userID, promptWelcome), nil
}

// Restart drops any stored progress and begins the questionnaire anew.
func (m *Machine) Restart(_ context.Context, userID int64) (Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.freshLocked(userID, promptWelcome), nil
}

// Resume re-derives the plan from the stored session without re-asking.
func (m *Machine) Resume(ctx context.Context, userID int64) (Reply, error) {
	stored, ok, err := m.store.Load(ctx, userID)
	if err != nil {
		return Reply{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !ok || !stored.Complete() {
		return m.freshLocked(userID, promptNoSaved), nil
	}

	result, err := stored.Plan()
	if err != nil {
		// A stored row that no longer matches the tables is a config bug.
		logger.Error(ctx, "service.plans", "plan.recompute",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("goal", string(stored.Goal)),
			slog.Int("level_choice", stored.Level),
			slog.String("err", err.Error()),
		)
		return Reply{}, err
	}
	m.convs[userID] = &conversation{state: StateCompleted, session: stored}
	return Reply{Text: planText(result), Plan: &result}, nil
}

// Cancel discards the in-progress conversation. The stored snapshot, if
// any, is left untouched.
func (m *Machine) Cancel(_ context.Context, userID int64) Reply {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conv, ok := m.convs[userID]; ok {
		if conv.window != nil {
			conv.window.Finish()
		}
		conv.state = StateCancelled
		conv.session = nil
		conv.window = nil
	} else {
		m.convs[userID] = &conversation{state: StateCancelled}
	}
	return Reply{Text: promptCancelled}
}

// Input advances the conversation with one user message. Invalid input
// re-prompts without changing state or mutating the session; only store
// failures surface as errors.
func (m *Machine) Input(ctx context.Context, userID int64, text string) (Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.convs[userID]
	if !ok {
		return Reply{}, nil
	}
	text = strings.TrimSpace(text)

	switch conv.state {
	case StateAwaitingResume:
		return m.handleResumeChoice(ctx, userID, conv, text)
	case StateAwaitingUnit:
		return m.handleUnit(conv, text), nil
	case StateAwaitingWeight:
		return m.handleWeight(conv, text), nil
	case StateAwaitingGoal:
		return m.handleGoal(conv, text), nil
	case StateAwaitingLevel:
		return m.handleLevel(ctx, userID, conv, text)
	case StateAwaitingFoods:
		return m.handleFoods(ctx, userID, conv, text), nil
	default:
		// Terminal states ignore input until the next start signal.
		return Reply{}, nil
	}
}

func (m *Machine) freshLocked(userID int64, prompt string) Reply {
	if old, ok := m.convs[userID]; ok && old.window != nil {
		old.window.Finish()
	}
	m.convs[userID] = &conversation{
		state:   StateAwaitingUnit,
		session: &session.Session{UserID: userID},
	}
	return Reply{Text: prompt, Options: unitKeyboard()}
}

func (m *Machine) handleResumeChoice(ctx context.Context, userID int64, conv *conversation, text string) (Reply, error) {
	switch text {
	case ChoiceRestart:
		return m.freshLocked(userID, promptWelcome), nil
	case ChoiceResume:
		result, err := conv.session.Plan()
		if err != nil {
			return Reply{}, err
		}
		conv.state = StateCompleted
		logger.Debug(ctx, "dialog", "resume",
			slog.Int64("user_id", userID),
			slog.String("goal", string(conv.session.Goal)),
		)
		return Reply{Text: planText(result), Plan: &result}, nil
	}
	return Reply{Text: promptResumeChoice, Options: resumeKeyboard()}, nil
}

func (m *Machine) handleUnit(conv *conversation, text string) Reply {
	unit, err := plan.ParseUnit(text)
	if err != nil {
		return Reply{Text: promptInvalidUnit, Options: unitKeyboard()}
	}
	conv.session.WeightUnit = unit
	conv.state = StateAwaitingWeight
	return Reply{Text: promptWeight(unit)}
}

func (m *Machine) handleWeight(conv *conversation, text string) Reply {
	weight, err := strconv.ParseFloat(text, 64)
	// ParseFloat accepts "NaN" and "Inf" spellings; neither is a weight.
	if err != nil || math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return Reply{Text: promptInvalidNum}
	}
	conv.session.Weight = weight
	conv.state = StateAwaitingGoal
	return Reply{Text: promptGoal, Options: goalKeyboard()}
}

func (m *Machine) handleGoal(conv *conversation, text string) Reply {
	goal, err := plan.ParseGoal(text)
	if err != nil {
		return Reply{Text: promptInvalidGoal, Options: goalKeyboard()}
	}
	conv.session.Goal = goal
	conv.state = StateAwaitingLevel
	return Reply{Text: promptLevel(goal), Options: levelKeyboard(goal)}
}

func (m *Machine) handleLevel(ctx context.Context, userID int64, conv *conversation, text string) (Reply, error) {
	level, err := strconv.Atoi(text)
	if err != nil {
		return Reply{Text: promptLevel(conv.session.Goal), Options: levelKeyboard(conv.session.Goal)}, nil
	}
	if _, err := plan.Multiplier(conv.session.Goal, level); err != nil {
		return Reply{Text: promptLevel(conv.session.Goal), Options: levelKeyboard(conv.session.Goal)}, nil
	}
	conv.session.Level = level

	// Persist the completed answers before delivering the plan. On failure
	// the in-memory progress is kept so the user can retry the level.
	if err := m.store.Save(ctx, conv.session); err != nil {
		conv.session.Level = 0
		return Reply{}, err
	}

	result, err := conv.session.Plan()
	if err != nil {
		return Reply{}, err
	}
	logger.Info(ctx, "service.plans", "plan.computed",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("weight_unit", string(conv.session.WeightUnit)),
		slog.String("goal", string(conv.session.Goal)),
		slog.Int("level_choice", conv.session.Level),
		slog.Int("calories", result.Calories),
		slog.Int("protein", result.Protein),
	)

	if !m.opts.FoodsStep {
		conv.state = StateCompleted
		return Reply{Text: planText(result), Plan: &result}, nil
	}

	conv.state = StateAwaitingFoods
	conv.window = poll.New(m.opts.FoodsWindow, func() {
		m.expireFoods(userID)
	})
	return Reply{Text: planText(result) + "\n\n" + promptFoods, Plan: &result}, nil
}

func (m *Machine) handleFoods(ctx context.Context, userID int64, conv *conversation, text string) Reply {
	foods := splitFoods(text)
	if len(foods) == 0 {
		return Reply{Text: promptFoodsEmpty}
	}

	if conv.window != nil {
		conv.window.Finish()
		conv.window = nil
	}
	conv.session.Foods = foods
	conv.state = StateCompleted

	result, err := conv.session.Plan()
	if err != nil {
		// Unreachable after handleLevel validated the pair; degrade politely.
		return Reply{Text: promptCancelled}
	}
	query := buildSearchQuery(conv.session.Goal, result, foods)
	logger.Debug(ctx, "dialog", "foods.collected",
		slog.Int64("user_id", userID),
		slog.String("foods", strings.Join(foods, ", ")),
	)
	return Reply{Text: foodsDoneText(query), SearchQuery: query}
}

// expireFoods is the timer side of the foods-question race. It only acts
// when the conversation is still waiting on foods.
func (m *Machine) expireFoods(userID int64) {
	m.mu.Lock()
	conv, ok := m.convs[userID]
	if !ok || conv.state != StateAwaitingFoods {
		m.mu.Unlock()
		return
	}
	conv.state = StateCompleted
	conv.window = nil
	m.mu.Unlock()

	if m.opts.Notify != nil {
		m.opts.Notify(userID, Reply{Text: promptFoodsExpired})
	}
}

func splitFoods(text string) []string {
	parts := strings.Split(text, ",")
	foods := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			foods = append(foods, trimmed)
		}
	}
	return foods
}
