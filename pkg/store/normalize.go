package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidationError is a single rejected goal field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every problem found in one goal.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// GoalInput is loosely shaped goal data from a template, the CLI or a form.
// Zero values mean "not provided" and are filled by NormalizeGoal.
type GoalInput struct {
	ID            string   `json:"id,omitempty"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Category      string   `json:"category,omitempty"`
	EstimatedCost *float64 `json:"estimatedCost,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	Tasks         []Task   `json:"tasks,omitempty"`
	Source        string   `json:"source,omitempty"`
	TemplateID    string   `json:"templateId,omitempty"`
	Status        string   `json:"status,omitempty"`
}

// GoalPatch holds the fields to change on an existing goal. Nil fields are left alone.
type GoalPatch struct {
	Title         *string  `json:"title,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Category      *string  `json:"category,omitempty"`
	EstimatedCost *float64 `json:"estimatedCost,omitempty"`
	Duration      *string  `json:"duration,omitempty"`
	Tasks         *[]Task  `json:"tasks,omitempty"`
	Status        *string  `json:"status,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p GoalPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.EstimatedCost == nil && p.Duration == nil && p.Tasks == nil && p.Status == nil
}

// NormalizeGoal turns input into a Goal, filling defaults for missing optional
// fields. Malformed input is rejected with ValidationErrors; nothing is coerced.
func NormalizeGoal(in GoalInput, now time.Time) (Goal, error) {
	var errs ValidationErrors

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		errs = append(errs, ValidationError{Field: "title", Value: in.Title, Message: "must not be empty"})
	}

	category, err := ParseCategory(in.Category)
	if err != nil {
		errs = append(errs, *err)
	}

	var cost float64
	if in.EstimatedCost != nil {
		cost = *in.EstimatedCost
		if verr := validateCost(cost); verr != nil {
			errs = append(errs, *verr)
		}
	}

	source := Source(strings.ToLower(strings.TrimSpace(in.Source)))
	switch source {
	case "":
		source = SourceCustom
	case SourceCustom, SourceTemplate:
	default:
		errs = append(errs, ValidationError{Field: "source", Value: in.Source, Message: "must be template or custom"})
	}

	status, serr := ParseStatus(in.Status)
	if serr != nil {
		errs = append(errs, *serr)
	}

	if len(errs) > 0 {
		return Goal{}, errs
	}

	tasks := cloneSlice(in.Tasks)
	if tasks == nil {
		tasks = []Task{}
	}

	return Goal{
		ID:            id,
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		Category:      category,
		EstimatedCost: cost,
		Duration:      strings.TrimSpace(in.Duration),
		Tasks:         tasks,
		Source:        source,
		TemplateID:    strings.TrimSpace(in.TemplateID),
		Status:        status,
		AddedAt:       now,
		UpdatedAt:     now,
	}, nil
}

// ApplyPatch returns a copy of g with the patch merged in. The id is immutable.
func ApplyPatch(g Goal, p GoalPatch, now time.Time) (Goal, error) {
	var errs ValidationErrors
	out := g.Clone()

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			errs = append(errs, ValidationError{Field: "title", Value: *p.Title, Message: "must not be empty"})
		}
		out.Title = title
	}
	if p.Description != nil {
		out.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		category, err := ParseCategory(*p.Category)
		if err != nil {
			errs = append(errs, *err)
		}
		out.Category = category
	}
	if p.EstimatedCost != nil {
		if verr := validateCost(*p.EstimatedCost); verr != nil {
			errs = append(errs, *verr)
		}
		out.EstimatedCost = *p.EstimatedCost
	}
	if p.Duration != nil {
		out.Duration = strings.TrimSpace(*p.Duration)
	}
	if p.Tasks != nil {
		out.Tasks = cloneSlice(*p.Tasks)
		if out.Tasks == nil {
			out.Tasks = []Task{}
		}
	}
	if p.Status != nil {
		status, err := ParseStatus(*p.Status)
		if err != nil {
			errs = append(errs, *err)
		}
		out.Status = status
	}

	if len(errs) > 0 {
		return g, errs
	}
	out.UpdatedAt = now
	return out, nil
}

// ParseCategory lowercases and checks a category name. Empty means custom.
func ParseCategory(s string) (Category, *ValidationError) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return CategoryCustom, nil
	}
	if !c.IsValid() {
		return "", &ValidationError{Field: "category", Value: s, Message: "unknown category"}
	}
	return c, nil
}

// ParseStatus checks a status name. Empty means planned.
func ParseStatus(s string) (GoalStatus, *ValidationError) {
	st := GoalStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case "":
		return StatusPlanned, nil
	case StatusPlanned, StatusInProgress, StatusComplete:
		return st, nil
	default:
		return "", &ValidationError{Field: "status", Value: s, Message: "must be planned, in-progress or complete"}
	}
}

// NextStatus cycles planned → in-progress → complete → planned.
func NextStatus(s GoalStatus) GoalStatus {
	switch s {
	case StatusPlanned:
		return StatusInProgress
	case StatusInProgress:
		return StatusComplete
	default:
		return StatusPlanned
	}
}

// ParseCost reads a typed amount: a number with an optional leading '$' and
// '_' or ',' digit separators, e.g. "$25,000".
func ParseCost(s string) (float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.NewReplacer("_", "", ",", "").Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ValidationError{Field: "estimatedCost", Value: s, Message: "must be a number"}
	}
	if verr := validateCost(v); verr != nil {
		return 0, verr
	}
	return v, nil
}

// ValidateStored checks a goal read back from storage. Empty category and
// status get their defaults; anything NormalizeGoal would reject is an error.
func ValidateStored(g Goal) (Goal, error) {
	var errs ValidationErrors
	category, err := ParseCategory(string(g.Category))
	if err != nil {
		errs = append(errs, *err)
	}
	status, err := ParseStatus(string(g.Status))
	if err != nil {
		errs = append(errs, *err)
	}
	if verr := validateCost(g.EstimatedCost); verr != nil {
		errs = append(errs, *verr)
	}
	if len(errs) > 0 {
		return g, errs
	}
	g.Category = category
	g.Status = status
	return g, nil
}

// MaxCost is the largest estimated cost accepted for a single goal.
const MaxCost = 1e12

func validateCost(cost float64) *ValidationError {
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return &ValidationError{Field: "estimatedCost", Value: cost, Message: "must be a finite number"}
	}
	if cost < 0 {
		return &ValidationError{Field: "estimatedCost", Value: cost, Message: "must not be negative"}
	}
	if cost > MaxCost {
		return &ValidationError{Field: "estimatedCost", Value: cost, Message: "must not exceed 1,000,000,000,000"}
	}
	return nil
}
