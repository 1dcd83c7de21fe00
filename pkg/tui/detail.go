package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/stefanpenner/tandem/pkg/analysis"
	"github.com/stefanpenner/tandem/pkg/basket"
	"github.com/stefanpenner/tandem/pkg/store"
)

// GoalMarkdown renders one goal for the detail pane: its fields, tasks,
// prerequisites, cached fit analysis and risks.
func GoalMarkdown(g store.Goal, state basket.State) string {
	var md strings.Builder

	md.WriteString("# " + g.Title + "\n\n")

	meta := []string{
		"**Category:** " + string(g.Category),
		"**Status:** " + string(g.Status),
		"**Cost:** " + analysis.FormatMoney(g.EstimatedCost),
	}
	if g.Duration != "" {
		meta = append(meta, "**Duration:** "+g.Duration)
	}
	md.WriteString(strings.Join(meta, " | ") + "\n\n")

	if g.Description != "" {
		md.WriteString(g.Description + "\n\n")
	}

	if len(g.Tasks) > 0 {
		md.WriteString("## Tasks\n\n")
		for _, t := range g.Tasks {
			box := " "
			if t.Completed {
				box = "x"
			}
			fmt.Fprintf(&md, "- [%s] %s\n", box, t.Title)
		}
		md.WriteString("\n")
	}

	var deps []store.DependencyEdge
	for _, e := range state.Stats.DependencyGraph.EdgesTouching(g.ID) {
		if e.To == g.ID {
			deps = append(deps, e)
		}
	}
	if len(deps) > 0 {
		md.WriteString("## Depends on\n\n")
		for _, e := range deps {
			fmt.Fprintf(&md, "- **%s**: %s\n", titleOf(state.Goals, e.From), e.Reason)
		}
		md.WriteString("\n")
	}

	if a := g.AIAnalysis; a != nil {
		md.WriteString("## Fit\n\n")
		fmt.Fprintf(&md, "Budget impact **%s**. %s\n\n", a.BudgetImpact.Level, a.BudgetImpact.Message)
		conflicts := slices.Clone(a.Conflicts)
		slices.SortStableFunc(conflicts, func(x, y store.Conflict) int {
			return y.Severity.Weight() - x.Severity.Weight()
		})
		for _, c := range conflicts {
			fmt.Fprintf(&md, "- **%s** %s conflict: %s\n", c.Severity, c.Type, c.Message)
		}
		for _, s := range a.Synergies {
			fmt.Fprintf(&md, "- synergy: %s\n", s.Message)
		}
		if len(a.Conflicts)+len(a.Synergies) > 0 {
			md.WriteString("\n")
		}
	}

	var risks []analysis.Risk
	for _, r := range analysis.WorstFirst(state.Stats.Risks) {
		if r.GoalID == g.ID {
			risks = append(risks, r)
		}
	}
	if len(risks) > 0 {
		md.WriteString("## Risks\n\n")
		for _, r := range risks {
			fmt.Fprintf(&md, "- **%s** %s\n", r.Severity, r.Description)
		}
		md.WriteString("\n")
	}

	return md.String()
}

// BasketMarkdown summarizes the whole basket: totals, suggested order and
// suggestions.
func BasketMarkdown(state basket.State) string {
	var md strings.Builder
	stats := state.Stats

	md.WriteString("## Basket\n\n")
	fmt.Fprintf(&md, "%d goals, %s total, overall risk **%s**\n\n",
		stats.TotalGoals, analysis.FormatMoney(stats.TotalBudget), stats.RiskLevel)

	if len(stats.OptimalOrder) > 0 {
		md.WriteString("### Suggested order\n\n")
		for i, id := range stats.OptimalOrder {
			fmt.Fprintf(&md, "%d. %s\n", i+1, titleOf(state.Goals, id))
		}
		md.WriteString("\n")
	}

	var shared []analysis.Risk
	for _, r := range analysis.WorstFirst(stats.Risks) {
		if r.GoalID == "" {
			shared = append(shared, r)
		}
	}
	if len(shared) > 0 {
		md.WriteString("### Basket risks\n\n")
		for _, r := range shared {
			fmt.Fprintf(&md, "- **%s** %s\n", r.Severity, r.Description)
		}
		md.WriteString("\n")
	}

	if len(state.Suggestions) > 0 {
		md.WriteString("### Suggestions\n\n")
		for _, s := range state.Suggestions {
			md.WriteString("- " + s + "\n")
		}
		md.WriteString("\n")
	}

	return md.String()
}

func titleOf(goals []store.Goal, id string) string {
	for _, g := range goals {
		if g.ID == id {
			return g.Title
		}
	}
	return id
}
