// Package basket owns a couple's goal basket: it validates incoming goals,
// runs the analyzers on every change, persists a snapshot and tells
// observers what changed.
//
// A Basket is not safe for concurrent use.
package basket

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stefanpenner/tandem/pkg/analysis"
	"github.com/stefanpenner/tandem/pkg/store"
	"go.uber.org/zap"
)

// Basket is an ordered set of goals, unique by id.
type Basket struct {
	kv  store.KV
	key string
	log *zap.Logger
	now func() time.Time

	goals   []store.Goal
	subs    []subscription
	nextSub uint64
}

// Option configures a Basket.
type Option func(*Basket)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(b *Basket) {
		if l != nil {
			b.log = l
		}
	}
}

// WithKey sets the storage key for the snapshot.
func WithKey(key string) Option {
	return func(b *Basket) {
		if key != "" {
			b.key = key
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Basket) {
		if now != nil {
			b.now = now
		}
	}
}

// New returns an empty basket persisting to kv. A nil kv keeps the snapshot
// in memory. Call Load to pick up a previously saved basket.
func New(kv store.KV, opts ...Option) *Basket {
	if kv == nil {
		kv = store.NewMemoryKV()
	}
	b := &Basket{
		kv:  kv,
		key: DefaultKey,
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load replaces the in-memory goals with the stored snapshot and notifies
// observers. A missing snapshot leaves an empty basket.
func (b *Basket) Load() error {
	data, err := b.kv.Get(b.key)
	if errors.Is(err, store.ErrNotFound) {
		b.goals = nil
		b.notify(b.State())
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading basket: %w", err)
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}
	if snap.Version != SnapshotVersion {
		b.log.Warn("basket snapshot version differs, loading as-is",
			zap.String("version", snap.Version),
			zap.String("expected", SnapshotVersion))
	}

	goals := make([]store.Goal, 0, len(snap.Goals))
	seen := make(map[string]bool, len(snap.Goals))
	for _, g := range snap.Goals {
		if g.ID == "" || seen[g.ID] {
			b.log.Warn("skipping goal with missing or duplicate id", zap.String("goal_id", g.ID))
			continue
		}
		valid, err := store.ValidateStored(g)
		if err != nil {
			b.log.Warn("skipping invalid stored goal", zap.String("goal_id", g.ID), zap.Error(err))
			continue
		}
		g = valid
		seen[g.ID] = true
		if g.Tasks == nil {
			g.Tasks = []store.Task{}
		}
		goals = append(goals, g)
	}
	b.goals = goals

	b.log.Debug("basket loaded", zap.Int("goals", len(goals)), zap.Int64("last_saved", snap.LastSaved))
	b.notify(b.State())
	return nil
}

// AddGoal validates in, analyzes how it fits the current basket and appends
// it. The returned Result carries the fit analysis and fresh suggestions.
func (b *Basket) AddGoal(in store.GoalInput) Result {
	now := b.now()
	g, err := store.NormalizeGoal(in, now)
	if err != nil {
		b.log.Debug("rejected goal", zap.Error(err))
		return failure(fmt.Errorf("invalid goal: %w", err))
	}
	if b.index(g.ID) >= 0 {
		return failure(fmt.Errorf("%w: %s", ErrDuplicateGoal, g.ID))
	}

	fit := analysis.AnalyzeGoalFit(g, b.goals)
	fit.AnalyzedAt = now
	g.AIAnalysis = &fit
	b.goals = append(b.goals, g)

	b.log.Info("goal added",
		zap.String("goal_id", g.ID),
		zap.String("category", string(g.Category)),
		zap.Int("conflicts", len(fit.Conflicts)),
		zap.Int("synergies", len(fit.Synergies)))

	state := b.commit()
	return b.success(g, state)
}

// Preview analyzes in against the basket without adding it.
func (b *Basket) Preview(in store.GoalInput) Result {
	now := b.now()
	g, err := store.NormalizeGoal(in, now)
	if err != nil {
		return failure(fmt.Errorf("invalid goal: %w", err))
	}
	if b.index(g.ID) >= 0 {
		return failure(fmt.Errorf("%w: %s", ErrDuplicateGoal, g.ID))
	}

	fit := analysis.AnalyzeGoalFit(g, b.goals)
	fit.AnalyzedAt = now
	g.AIAnalysis = &fit

	candidate := append(cloneGoals(b.goals), g)
	return Result{
		Success:     true,
		Goal:        &g,
		Analysis:    ptr(fit.Clone()),
		Suggestions: analysis.BasketSuggestions(candidate, analysis.ComputeStats(candidate)),
	}
}

// RemoveGoal drops the goal with id. Other goals keep their cached analysis.
func (b *Basket) RemoveGoal(id string) Result {
	i := b.index(id)
	if i < 0 {
		return failure(fmt.Errorf("%w: %s", ErrGoalNotFound, id))
	}

	removed := b.goals[i]
	b.goals = append(b.goals[:i:i], b.goals[i+1:]...)
	b.log.Info("goal removed", zap.String("goal_id", id))

	state := b.commit()
	return Result{Success: true, Goal: ptr(removed.Clone()), Suggestions: state.Suggestions}
}

// UpdateGoal merges patch into the goal with id and re-analyzes it against
// the rest of the basket. An invalid patch leaves the goal untouched.
func (b *Basket) UpdateGoal(id string, patch store.GoalPatch) Result {
	i := b.index(id)
	if i < 0 {
		return failure(fmt.Errorf("%w: %s", ErrGoalNotFound, id))
	}

	now := b.now()
	updated, err := store.ApplyPatch(b.goals[i], patch, now)
	if err != nil {
		return failure(fmt.Errorf("invalid update: %w", err))
	}

	others := make([]store.Goal, 0, len(b.goals)-1)
	others = append(others, b.goals[:i]...)
	others = append(others, b.goals[i+1:]...)

	fit := analysis.AnalyzeGoalFit(updated, others)
	fit.AnalyzedAt = now
	updated.AIAnalysis = &fit
	b.goals[i] = updated

	b.log.Info("goal updated", zap.String("goal_id", id))

	state := b.commit()
	return b.success(updated, state)
}

// Clear removes every goal.
func (b *Basket) Clear() Result {
	n := len(b.goals)
	b.goals = nil
	b.log.Info("basket cleared", zap.Int("removed", n))

	state := b.commit()
	return Result{Success: true, Suggestions: state.Suggestions}
}

// Stats recomputes the whole-basket analysis.
func (b *Basket) Stats() analysis.Stats {
	return analysis.ComputeStats(b.goals)
}

// State is what observers would be handed right now.
func (b *Basket) State() State {
	stats := b.Stats()
	return State{
		Goals:       cloneGoals(b.goals),
		Stats:       stats,
		Suggestions: analysis.BasketSuggestions(b.goals, stats),
	}
}

// CreateRoadmap turns the basket into milestones in the suggested order,
// scheduled back to back. The basket itself is unchanged.
func (b *Basket) CreateRoadmap() RoadmapResult {
	if len(b.goals) == 0 {
		return RoadmapResult{Error: ErrEmptyBasket.Error(), Err: ErrEmptyBasket}
	}

	now := b.now()
	stats := b.Stats()
	byID := make(map[string]store.Goal, len(b.goals))
	for _, g := range b.goals {
		byID[g.ID] = g
	}

	milestones := make([]store.Milestone, 0, len(stats.Timeline.Entries))
	for i, entry := range stats.Timeline.Entries {
		g := byID[entry.GoalID]
		milestones = append(milestones, store.Milestone{
			ID:             uuid.NewString(),
			GoalID:         g.ID,
			Title:          g.Title,
			Category:       g.Category,
			Budget:         g.EstimatedCost,
			Duration:       g.Duration,
			DurationMonths: entry.Months,
			Order:          i + 1,
			StartMonth:     entry.StartMonth,
			TargetMonth:    entry.EndMonth,
			DependsOn:      stats.DependencyGraph.Prerequisites(g.ID),
			Status:         "planned",
			CreatedAt:      now,
			Tasks:          append([]store.Task{}, g.Tasks...),
			Notes:          g.Description,
		})
	}

	b.log.Info("roadmap created", zap.Int("milestones", len(milestones)))
	return RoadmapResult{Success: true, Milestones: milestones}
}

// Save writes the snapshot now, reporting failure in the Result.
func (b *Basket) Save() Result {
	if err := b.persist(); err != nil {
		return failure(err)
	}
	return Result{Success: true}
}

// Goals returns copies of the goals in basket order.
func (b *Basket) Goals() []store.Goal {
	return cloneGoals(b.goals)
}

// Len returns the number of goals.
func (b *Basket) Len() int {
	return len(b.goals)
}

// Goal returns a copy of the goal with id.
func (b *Basket) Goal(id string) (store.Goal, bool) {
	i := b.index(id)
	if i < 0 {
		return store.Goal{}, false
	}
	return b.goals[i].Clone(), true
}

// commit persists best-effort and notifies observers. A failed write is
// logged; the in-memory change stands.
func (b *Basket) commit() State {
	if err := b.persist(); err != nil {
		b.log.Warn("failed to persist basket", zap.Error(err))
	}
	state := b.State()
	b.notify(state)
	return state
}

func (b *Basket) persist() error {
	data, err := EncodeSnapshot(Snapshot{
		Goals:     b.goals,
		LastSaved: b.now().UnixMilli(),
		Version:   SnapshotVersion,
		Stats:     b.Stats(),
	})
	if err != nil {
		return err
	}
	if err := b.kv.Set(b.key, data); err != nil {
		return fmt.Errorf("saving basket: %w", err)
	}
	return nil
}

func (b *Basket) success(g store.Goal, state State) Result {
	return Result{
		Success:     true,
		Goal:        ptr(g.Clone()),
		Analysis:    ptr(g.AIAnalysis.Clone()),
		Suggestions: state.Suggestions,
	}
}

func (b *Basket) index(id string) int {
	for i, g := range b.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func cloneGoals(goals []store.Goal) []store.Goal {
	out := make([]store.Goal, len(goals))
	for i, g := range goals {
		out[i] = g.Clone()
	}
	return out
}

func ptr[T any](v T) *T { return &v }
