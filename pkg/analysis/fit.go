package analysis

import (
	"fmt"

	"github.com/stefanpenner/tandem/pkg/store"
)

// Budget thresholds on the combined cost of a basket. Both are exclusive.
const (
	BudgetMediumThreshold = 50_000.0
	BudgetHighThreshold   = 100_000.0
)

// Timeline overlap, in months, at which two goals start competing for attention.
const (
	timelineConflictMonths = 6
	timelineHighMonths     = 12
)

// Conflict types.
const (
	ConflictTimeline = "timeline"
	ConflictBudget   = "budget"
	ConflictCategory = "category"
)

// sequencingSensitive categories can't sensibly run two at once.
var sequencingSensitive = map[store.Category]bool{
	store.CategoryBusiness: true,
	store.CategoryHome:     true,
}

type synergyRule struct {
	kind       string
	message    string
	suggestion string
}

// unorderedPair holds two categories with lo <= hi; build it with pairKey.
type unorderedPair struct {
	lo, hi store.Category
}

var synergyRules = map[unorderedPair]synergyRule{
	pairKey(store.CategoryWedding, store.CategoryHome): {
		kind:       "natural_sequence",
		message:    "A home naturally follows the wedding",
		suggestion: "Plan the home search to start once the wedding budget is settled",
	},
	pairKey(store.CategoryWedding, store.CategoryTravel): {
		kind:       "shared_experience",
		message:    "The trip can double as a honeymoon",
		suggestion: "Book travel alongside wedding vendors to share planning effort",
	},
	pairKey(store.CategoryFinancial, store.CategoryHome): {
		kind:       "financial_foundation",
		message:    "Savings goals build the down payment",
		suggestion: "Direct part of the savings goal toward the home purchase",
	},
	pairKey(store.CategoryFinancial, store.CategoryBusiness): {
		kind:       "financial_foundation",
		message:    "A financial cushion de-risks starting a business",
		suggestion: "Finish the savings goal before committing capital to the business",
	},
	pairKey(store.CategoryLearning, store.CategoryBusiness): {
		kind:       "skill_building",
		message:    "New skills feed directly into the business",
		suggestion: "Choose courses that cover gaps in the business plan",
	},
	pairKey(store.CategoryLearning, store.CategoryCareer): {
		kind:       "skill_building",
		message:    "Learning supports the career move",
		suggestion: "Time the learning goal to finish before job applications start",
	},
	pairKey(store.CategoryHealth, store.CategoryRelationship): {
		kind:       "shared_habit",
		message:    "Working on health together strengthens the relationship",
		suggestion: "Pick shared activities that count toward both goals",
	},
	pairKey(store.CategoryTravel, store.CategoryRelationship): {
		kind:       "shared_experience",
		message:    "Travelling together is quality time as a couple",
		suggestion: "Plan the trip around relationship milestones",
	},
	pairKey(store.CategoryCreative, store.CategoryLearning): {
		kind:       "skill_building",
		message:    "Learning and creative projects reinforce each other",
		suggestion: "Use the creative project as practice for what you are learning",
	},
	pairKey(store.CategoryFamily, store.CategoryHome): {
		kind:       "natural_sequence",
		message:    "A growing family and a home go hand in hand",
		suggestion: "Size the home search for the family you are planning",
	},
}

func pairKey(a, b store.Category) unorderedPair {
	if b < a {
		a, b = b, a
	}
	return unorderedPair{lo: a, hi: b}
}

// AnalyzeGoalFit reports how newGoal interacts with the goals already in a
// basket. It has no side effects; AnalyzedAt is left for the caller to stamp.
func AnalyzeGoalFit(newGoal store.Goal, existing []store.Goal) store.FitAnalysis {
	if len(existing) == 0 {
		return store.FitAnalysis{
			Conflicts: []store.Conflict{},
			Synergies: []store.Synergy{},
			BudgetImpact: store.BudgetImpact{
				Level:          store.ImpactManageable,
				Message:        "This is the first goal in your basket",
				Recommendation: "Add more goals to see how they fit together",
				TotalBudget:    newGoal.EstimatedCost,
			},
			SuggestedOrder: []string{newGoal.ID},
			Dependencies:   []store.DependencyEdge{},
		}
	}

	fit := store.FitAnalysis{
		Conflicts: []store.Conflict{},
		Synergies: []store.Synergy{},
	}

	for _, other := range existing {
		fit.Conflicts = append(fit.Conflicts, pairConflicts(newGoal, other)...)
		fit.Synergies = append(fit.Synergies, pairSynergies(newGoal, other)...)
	}

	all := append(append(make([]store.Goal, 0, len(existing)+1), existing...), newGoal)
	total := sumCosts(all)
	fit.BudgetImpact = budgetImpact(total)
	if fit.BudgetImpact.Level == store.ImpactHigh {
		fit.Conflicts = append(fit.Conflicts, store.Conflict{
			Type:       ConflictBudget,
			Severity:   store.SeverityHigh,
			Message:    fmt.Sprintf("Combined budget of %s exceeds %s", FormatMoney(total), FormatMoney(BudgetHighThreshold)),
			Suggestion: "Phase the goals over time or look for additional funding",
		})
	}

	graph := BuildDependencyGraph(all)
	fit.Dependencies = graph.EdgesTouching(newGoal.ID)
	fit.SuggestedOrder = OptimalGoalOrder(all, graph)
	return fit
}

// BudgetLevel grades a combined budget against the basket thresholds.
func BudgetLevel(total float64) store.ImpactLevel {
	switch {
	case total > BudgetHighThreshold:
		return store.ImpactHigh
	case total > BudgetMediumThreshold:
		return store.ImpactMedium
	default:
		return store.ImpactManageable
	}
}

func budgetImpact(total float64) store.BudgetImpact {
	impact := store.BudgetImpact{Level: BudgetLevel(total), TotalBudget: total}
	switch impact.Level {
	case store.ImpactHigh:
		impact.Message = fmt.Sprintf("Combined budget of %s is a major commitment", FormatMoney(total))
		impact.Recommendation = "Prioritise and phase goals; consider pushing lower-priority goals back"
	case store.ImpactMedium:
		impact.Message = fmt.Sprintf("Combined budget of %s needs careful planning", FormatMoney(total))
		impact.Recommendation = "Set up a shared savings plan and track spending per goal"
	default:
		impact.Message = fmt.Sprintf("Combined budget of %s is manageable", FormatMoney(total))
		impact.Recommendation = "Keep estimates up to date as plans firm up"
	}
	return impact
}

// pairConflicts returns the timeline and category conflicts between a and b,
// reported from a's point of view.
func pairConflicts(a, b store.Goal) []store.Conflict {
	var conflicts []store.Conflict

	ma, mb := ParseDurationMonths(a.Duration), ParseDurationMonths(b.Duration)
	if ma > 0 && mb > 0 {
		overlap := min(ma, mb)
		if overlap >= timelineConflictMonths {
			severity := store.SeverityMedium
			if overlap >= timelineHighMonths {
				severity = store.SeverityHigh
			}
			conflicts = append(conflicts, store.Conflict{
				Type:          ConflictTimeline,
				Severity:      severity,
				Message:       fmt.Sprintf("%q and %q would run in parallel for about %d months", a.Title, b.Title, overlap),
				Suggestion:    "Stagger the start dates so the heaviest phases don't coincide",
				RelatedGoalID: b.ID,
			})
		}
	}

	if a.Category == b.Category && sequencingSensitive[a.Category] {
		conflicts = append(conflicts, store.Conflict{
			Type:          ConflictCategory,
			Severity:      store.SeverityMedium,
			Message:       fmt.Sprintf("%q and %q are both %s goals", a.Title, b.Title, a.Category),
			Suggestion:    "Decide which one comes first; running both at once rarely works",
			RelatedGoalID: b.ID,
		})
	}
	return conflicts
}

func pairSynergies(a, b store.Goal) []store.Synergy {
	rule, ok := synergyRules[pairKey(a.Category, b.Category)]
	if !ok || a.Category == b.Category {
		return nil
	}
	return []store.Synergy{{
		Type:          rule.kind,
		Message:       fmt.Sprintf("%s (%q and %q)", rule.message, a.Title, b.Title),
		Suggestion:    rule.suggestion,
		RelatedGoalID: b.ID,
	}}
}
