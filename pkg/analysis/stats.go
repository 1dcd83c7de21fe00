package analysis

import (
	"fmt"

	"github.com/stefanpenner/tandem/pkg/store"
)

// Stats is the whole-basket analysis. It is always recomputed from the goals.
type Stats struct {
	TotalGoals      int                    `json:"totalGoals"`
	TotalBudget     float64                `json:"totalBudget"`
	AverageCost     float64                `json:"averageCost"`
	ByCategory      map[store.Category]int `json:"byCategory"`
	Budget          BudgetDistribution     `json:"budget"`
	Timeline        Timeline               `json:"timeline"`
	DependencyGraph DependencyGraph        `json:"dependencyGraph"`
	OptimalOrder    []string               `json:"optimalOrder"`
	Risks           []Risk                 `json:"risks"`
	RiskLevel       store.Severity         `json:"riskLevel"`
	SynergyCount    int                    `json:"synergyCount"`
	ConflictCount   int                    `json:"conflictCount"`
}

// ComputeStats runs every basket-level analyzer over goals.
func ComputeStats(goals []store.Goal) Stats {
	budget := AnalyzeBudgetDistribution(goals)
	graph := BuildDependencyGraph(goals)
	order := OptimalGoalOrder(goals, graph)
	risks := AnalyzeRisks(goals)

	stats := Stats{
		TotalGoals:      len(goals),
		TotalBudget:     budget.TotalBudget,
		ByCategory:      make(map[store.Category]int),
		Budget:          budget,
		Timeline:        AnalyzeTimeline(goals, order),
		DependencyGraph: graph,
		OptimalOrder:    order,
		Risks:           risks,
		RiskLevel:       OverallRiskLevel(risks),
	}
	if len(goals) > 0 {
		stats.AverageCost = budget.TotalBudget / float64(len(goals))
	}
	for _, g := range goals {
		stats.ByCategory[g.Category]++
	}

	// Each unordered pair is counted once.
	for i := range goals {
		for j := i + 1; j < len(goals); j++ {
			stats.ConflictCount += len(pairConflicts(goals[i], goals[j]))
			stats.SynergyCount += len(pairSynergies(goals[i], goals[j]))
		}
	}
	if BudgetLevel(budget.TotalBudget) == store.ImpactHigh {
		stats.ConflictCount++
	}
	return stats
}

// BasketSuggestions turns stats into short guidance for the couple.
func BasketSuggestions(goals []store.Goal, stats Stats) []string {
	if len(goals) == 0 {
		return []string{"Start by picking a goal from the templates or adding your own"}
	}

	var suggestions []string
	if stats.RiskLevel == store.SeverityHigh {
		suggestions = append(suggestions, "Your basket carries high risk; give the biggest goals more time or phase their costs")
	}
	suggestions = append(suggestions, stats.Budget.OptimizationSuggestions...)
	if stats.SynergyCount > 0 {
		suggestions = append(suggestions, fmt.Sprintf("%d goal pairings reinforce each other; plan them together", stats.SynergyCount))
	}
	if stats.ConflictCount > 0 {
		suggestions = append(suggestions, fmt.Sprintf("%d conflicts need a decision on ordering or budget", stats.ConflictCount))
	}
	if len(stats.OptimalOrder) > 1 {
		first := stats.OptimalOrder[0]
		for _, g := range goals {
			if g.ID != first {
				continue
			}
			if hasDependents(stats.DependencyGraph, first) {
				suggestions = append(suggestions, fmt.Sprintf("Start with %q; other goals build on it", g.Title))
			} else {
				suggestions = append(suggestions, fmt.Sprintf("Suggested first goal: %q", g.Title))
			}
			break
		}
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions
}

func hasDependents(g DependencyGraph, id string) bool {
	for _, e := range g.Edges {
		if e.From == id {
			return true
		}
	}
	return false
}
