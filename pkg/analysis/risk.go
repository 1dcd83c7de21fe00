package analysis

import (
	"fmt"
	"slices"

	"github.com/stefanpenner/tandem/pkg/store"
)

// RiskType names an entry in the risk catalog.
type RiskType string

const (
	RiskAggressiveTimeline RiskType = "aggressive_timeline"
	RiskLargeCommitment    RiskType = "large_commitment"
	RiskUndefinedTimeline  RiskType = "undefined_timeline"
	RiskLongHorizon        RiskType = "long_horizon"
	RiskUnbudgeted         RiskType = "unbudgeted"
	RiskOvercommitted      RiskType = "overcommitted"
	RiskParallelLongGoals  RiskType = "parallel_long_goals"
)

const (
	maxComfortableGoals = 5
	maxLongGoals        = 2
	longGoalMonths      = 12
	longHorizonMonths   = 36
	shortTimelineMonths = 6
)

// Risk is one catalog entry matched against the basket. GoalID is empty for
// basket-wide risks.
type Risk struct {
	GoalID      string         `json:"goalId,omitempty"`
	Type        RiskType       `json:"type"`
	Description string         `json:"description"`
	Severity    store.Severity `json:"severity"`
}

// AnalyzeRisks matches every goal, then the basket as a whole, against the
// risk catalog. Per-goal risks come first in basket order.
func AnalyzeRisks(goals []store.Goal) []Risk {
	risks := []Risk{}
	longGoals := 0

	for _, g := range goals {
		months := ParseDurationMonths(g.Duration)
		if months >= longGoalMonths {
			longGoals++
		}

		if g.EstimatedCost > BudgetMediumThreshold && months > 0 && months <= shortTimelineMonths {
			risks = append(risks, Risk{
				GoalID:      g.ID,
				Type:        RiskAggressiveTimeline,
				Description: fmt.Sprintf("%q needs %s in %d months", g.Title, FormatMoney(g.EstimatedCost), months),
				Severity:    store.SeverityHigh,
			})
		}
		if g.EstimatedCost > BudgetHighThreshold {
			risks = append(risks, Risk{
				GoalID:      g.ID,
				Type:        RiskLargeCommitment,
				Description: fmt.Sprintf("%q alone costs more than %s", g.Title, FormatMoney(BudgetHighThreshold)),
				Severity:    store.SeverityMedium,
			})
		}
		if months == 0 {
			risks = append(risks, Risk{
				GoalID:      g.ID,
				Type:        RiskUndefinedTimeline,
				Description: fmt.Sprintf("%q has no timeline", g.Title),
				Severity:    store.SeverityLow,
			})
		}
		if months > longHorizonMonths {
			risks = append(risks, Risk{
				GoalID:      g.ID,
				Type:        RiskLongHorizon,
				Description: fmt.Sprintf("%q stretches over %d months; motivation may fade", g.Title, months),
				Severity:    store.SeverityMedium,
			})
		}
		if g.EstimatedCost == 0 && costBearing[g.Category] {
			risks = append(risks, Risk{
				GoalID:      g.ID,
				Type:        RiskUnbudgeted,
				Description: fmt.Sprintf("%q is a %s goal without a cost estimate", g.Title, g.Category),
				Severity:    store.SeverityLow,
			})
		}
	}

	if len(goals) > maxComfortableGoals {
		risks = append(risks, Risk{
			Type:        RiskOvercommitted,
			Description: fmt.Sprintf("%d goals at once is a lot to keep moving", len(goals)),
			Severity:    store.SeverityMedium,
		})
	}
	if longGoals > maxLongGoals {
		risks = append(risks, Risk{
			Type:        RiskParallelLongGoals,
			Description: fmt.Sprintf("%d goals each take a year or more", longGoals),
			Severity:    store.SeverityMedium,
		})
	}
	return risks
}

// OverallRiskLevel is high if any risk is high, medium if more than one is
// medium, and low otherwise.
func OverallRiskLevel(risks []Risk) store.Severity {
	mediums := 0
	for _, r := range risks {
		switch r.Severity {
		case store.SeverityHigh:
			return store.SeverityHigh
		case store.SeverityMedium:
			mediums++
		}
	}
	if mediums > 1 {
		return store.SeverityMedium
	}
	return store.SeverityLow
}

// WorstFirst returns a copy of risks ordered by severity, highest first.
// Risks of equal severity keep their relative order.
func WorstFirst(risks []Risk) []Risk {
	out := slices.Clone(risks)
	slices.SortStableFunc(out, func(a, b Risk) int {
		return b.Severity.Weight() - a.Severity.Weight()
	})
	return out
}
