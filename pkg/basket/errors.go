package basket

import (
	"errors"

	"github.com/stefanpenner/tandem/pkg/store"
)

var (
	ErrDuplicateGoal = errors.New("goal already in basket")
	ErrGoalNotFound  = errors.New("goal not found")
	ErrEmptyBasket   = errors.New("basket is empty")
)

// Result is what every basket operation reports. Domain failures never panic
// or return an error value; callers check Success before reading Goal or
// Analysis.
type Result struct {
	Success     bool               `json:"success"`
	Error       string             `json:"error,omitempty"`
	Err         error              `json:"-"`
	Goal        *store.Goal        `json:"goal,omitempty"`
	Analysis    *store.FitAnalysis `json:"analysis,omitempty"`
	Suggestions []string           `json:"suggestions,omitempty"`
}

// RoadmapResult carries the milestones produced by CreateRoadmap.
type RoadmapResult struct {
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	Err        error             `json:"-"`
	Milestones []store.Milestone `json:"milestones,omitempty"`
}

func failure(err error) Result {
	return Result{Error: err.Error(), Err: err}
}
