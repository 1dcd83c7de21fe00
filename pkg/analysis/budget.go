package analysis

import (
	"fmt"
	"sort"

	"github.com/stefanpenner/tandem/pkg/store"
)

// Category share thresholds, in percent, above which a basket is over-concentrated.
const (
	concentrationMedium = 60.0
	concentrationHigh   = 80.0
)

// costBearing categories are expected to carry a cost estimate.
var costBearing = map[store.Category]bool{
	store.CategoryWedding:  true,
	store.CategoryHome:     true,
	store.CategoryBusiness: true,
	store.CategoryTravel:   true,
	store.CategoryFamily:   true,
}

// BudgetIssue flags a problem with how a basket's budget is spread.
type BudgetIssue struct {
	Severity store.Severity `json:"severity"`
	Category store.Category `json:"category,omitempty"`
	Message  string         `json:"message"`
}

// BudgetDistribution is the per-category breakdown of a basket's costs.
type BudgetDistribution struct {
	TotalBudget             float64                    `json:"totalBudget"`
	ByCategory              map[store.Category]float64 `json:"byCategory"`
	Shares                  map[store.Category]float64 `json:"shares"`
	Issues                  []BudgetIssue              `json:"issues"`
	OptimizationSuggestions []string                   `json:"optimizationSuggestions"`
}

// AnalyzeBudgetDistribution aggregates costs per category and flags
// concentration, an oversized total and goals with no estimate. The result
// does not depend on the order of goals.
func AnalyzeBudgetDistribution(goals []store.Goal) BudgetDistribution {
	byCategory, total := aggregateCosts(goals)
	dist := BudgetDistribution{
		TotalBudget:             total,
		ByCategory:              byCategory,
		Shares:                  Shares(byCategory, total),
		Issues:                  []BudgetIssue{},
		OptimizationSuggestions: []string{},
	}

	unbudgeted := make(map[store.Category]int)
	for _, g := range goals {
		if g.EstimatedCost == 0 && costBearing[g.Category] {
			unbudgeted[g.Category]++
		}
	}

	if len(goals) >= 2 && total > 0 {
		for _, cat := range sortedCategories(byCategory) {
			amount := byCategory[cat]
			share := amount / total * 100
			if share <= concentrationMedium {
				continue
			}
			severity := store.SeverityMedium
			if share > concentrationHigh {
				severity = store.SeverityHigh
			}
			dist.Issues = append(dist.Issues, BudgetIssue{
				Severity: severity,
				Category: cat,
				Message:  fmt.Sprintf("%s takes %.1f%% of the combined budget", cat, Percentage(amount, total)),
			})

			// Trimming x from the category also shrinks the total:
			// (amount-x)/(total-x) = 0.6.
			trim := (amount - concentrationMedium/100*total) / (1 - concentrationMedium/100)
			dist.OptimizationSuggestions = append(dist.OptimizationSuggestions,
				fmt.Sprintf("Trim %s by about %s to bring it near %.0f%% of the budget", cat, FormatMoney(trim), concentrationMedium))
		}
	}

	if total > BudgetHighThreshold {
		dist.Issues = append(dist.Issues, BudgetIssue{
			Severity: store.SeverityHigh,
			Message:  fmt.Sprintf("Combined budget of %s exceeds %s", FormatMoney(total), FormatMoney(BudgetHighThreshold)),
		})
	}
	if total > BudgetMediumThreshold {
		dist.OptimizationSuggestions = append(dist.OptimizationSuggestions,
			"Phase goals over time so the biggest costs don't land in the same year")
	}

	for _, cat := range sortedCategories(unbudgeted) {
		n := unbudgeted[cat]
		noun := "goal has"
		if n > 1 {
			noun = "goals have"
		}
		dist.Issues = append(dist.Issues, BudgetIssue{
			Severity: store.SeverityLow,
			Category: cat,
			Message:  fmt.Sprintf("%d %s %s no cost estimate", n, cat, noun),
		})
	}
	if len(unbudgeted) > 0 {
		dist.OptimizationSuggestions = append(dist.OptimizationSuggestions,
			"Add cost estimates to unbudgeted goals so the totals reflect reality")
	}

	return dist
}

// aggregateCosts sums costs per category and overall. Floating point addition
// is not associative, so each category is summed in sorted order and the total
// is summed over sorted categories; any permutation of goals gives the same bits.
func aggregateCosts(goals []store.Goal) (map[store.Category]float64, float64) {
	costs := make(map[store.Category][]float64)
	for _, g := range goals {
		costs[g.Category] = append(costs[g.Category], g.EstimatedCost)
	}

	byCategory := make(map[store.Category]float64, len(costs))
	for cat, values := range costs {
		sort.Float64s(values)
		var sum float64
		for _, v := range values {
			sum += v
		}
		byCategory[cat] = sum
	}

	var total float64
	for _, cat := range sortedCategories(byCategory) {
		total += byCategory[cat]
	}
	return byCategory, total
}

func sumCosts(goals []store.Goal) float64 {
	_, total := aggregateCosts(goals)
	return total
}
