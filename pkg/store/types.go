package store

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Category classifies a goal. The set is closed; use CategoryCustom for anything else.
type Category string

const (
	CategoryWedding      Category = "wedding"
	CategoryHome         Category = "home"
	CategoryBusiness     Category = "business"
	CategoryFinancial    Category = "financial"
	CategoryTravel       Category = "travel"
	CategoryRelationship Category = "relationship"
	CategoryCreative     Category = "creative"
	CategoryHealth       Category = "health"
	CategoryLearning     Category = "learning"
	CategoryFamily       Category = "family"
	CategoryCareer       Category = "career"
	CategoryCustom       Category = "custom"
)

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryWedding, CategoryHome, CategoryBusiness, CategoryFinancial,
		CategoryTravel, CategoryRelationship, CategoryCreative, CategoryHealth,
		CategoryLearning, CategoryFamily, CategoryCareer, CategoryCustom,
	}
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Source records where a goal came from.
type Source string

const (
	SourceTemplate Source = "template"
	SourceCustom   Source = "custom"
)

// GoalStatus represents the lifecycle state of a goal.
type GoalStatus string

const (
	StatusPlanned    GoalStatus = "planned"
	StatusInProgress GoalStatus = "in-progress"
	StatusComplete   GoalStatus = "complete"
)

// Severity grades conflicts, issues and risks.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Weight orders severities for sorting; higher is worse.
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ImpactLevel is the budget impact of adding a goal to a basket.
type ImpactLevel string

const (
	ImpactManageable ImpactLevel = "manageable"
	ImpactMedium     ImpactLevel = "medium"
	ImpactHigh       ImpactLevel = "high"
)

// Task is a sub-item of a goal. Tasks are carried through analysis untouched.
type Task struct {
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed,omitempty"`
}

// UnmarshalYAML accepts either a plain string or a {title, completed} mapping.
func (t *Task) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		t.Title = value.Value
		return nil
	}
	type plain Task
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*t = Task(p)
	return nil
}

// Goal is a single life objective in a basket (a "dream" or "milestone" elsewhere).
type Goal struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Category      Category     `json:"category"`
	EstimatedCost float64      `json:"estimatedCost"`
	Duration      string       `json:"duration"`
	Tasks         []Task       `json:"tasks"`
	Source        Source       `json:"source"`
	TemplateID    string       `json:"templateId,omitempty"`
	Status        GoalStatus   `json:"status"`
	AIAnalysis    *FitAnalysis `json:"aiAnalysis,omitempty"`
	AddedAt       time.Time    `json:"addedAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// IsComplete returns true if the goal is marked complete.
func (g *Goal) IsComplete() bool {
	return g.Status == StatusComplete
}

// IsInProgress returns true if the goal is in progress.
func (g *Goal) IsInProgress() bool {
	return g.Status == StatusInProgress
}

// Clone returns a deep copy of g.
func (g Goal) Clone() Goal {
	c := g
	c.Tasks = cloneSlice(g.Tasks)
	if g.AIAnalysis != nil {
		a := g.AIAnalysis.Clone()
		c.AIAnalysis = &a
	}
	return c
}

// Conflict is a negative interaction between a goal and the rest of its basket.
type Conflict struct {
	Type          string   `json:"type"`
	Severity      Severity `json:"severity"`
	Message       string   `json:"message"`
	Suggestion    string   `json:"suggestion"`
	RelatedGoalID string   `json:"relatedGoalId,omitempty"`
}

// Synergy is a positive interaction between two goals.
type Synergy struct {
	Type          string `json:"type"`
	Message       string `json:"message"`
	Suggestion    string `json:"suggestion"`
	RelatedGoalID string `json:"relatedGoalId,omitempty"`
}

// BudgetImpact summarises how a goal changes the basket's combined budget.
type BudgetImpact struct {
	Level          ImpactLevel `json:"level"`
	Message        string      `json:"message"`
	Recommendation string      `json:"recommendation"`
	TotalBudget    float64     `json:"totalBudget"`
}

// DependencyEdge says goal From should come before goal To.
type DependencyEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// FitAnalysis is the cached result of fitting one goal into its basket.
type FitAnalysis struct {
	Conflicts      []Conflict       `json:"conflicts"`
	Synergies      []Synergy        `json:"synergies"`
	BudgetImpact   BudgetImpact     `json:"budgetImpact"`
	SuggestedOrder []string         `json:"suggestedOrder"`
	Dependencies   []DependencyEdge `json:"dependencies"`
	AnalyzedAt     time.Time        `json:"analyzedAt"`
}

// Clone returns a deep copy of a.
func (a FitAnalysis) Clone() FitAnalysis {
	c := a
	c.Conflicts = cloneSlice(a.Conflicts)
	c.Synergies = cloneSlice(a.Synergies)
	c.SuggestedOrder = cloneSlice(a.SuggestedOrder)
	c.Dependencies = cloneSlice(a.Dependencies)
	return c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// Milestone is a roadmap entry produced from a committed basket.
type Milestone struct {
	ID             string    `json:"id" yaml:"id"`
	GoalID         string    `json:"goalId" yaml:"goal_id"`
	Title          string    `json:"title" yaml:"title"`
	Category       Category  `json:"category" yaml:"category"`
	Budget         float64   `json:"budget" yaml:"budget"`
	Duration       string    `json:"duration" yaml:"duration,omitempty"`
	DurationMonths int       `json:"durationMonths" yaml:"duration_months"`
	Order          int       `json:"order" yaml:"order"`
	StartMonth     int       `json:"startMonth" yaml:"start_month"`
	TargetMonth    int       `json:"targetMonth" yaml:"target_month"`
	DependsOn      []string  `json:"dependsOn,omitempty" yaml:"depends_on,omitempty"`
	Status         string    `json:"status" yaml:"status"`
	CreatedAt      time.Time `json:"createdAt" yaml:"created"`

	// Rendered as a checklist in the markdown body, not in frontmatter.
	Tasks []Task `json:"tasks" yaml:"-"`
	Notes string `json:"notes,omitempty" yaml:"-"`
}
