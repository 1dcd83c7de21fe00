package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/stefanpenner/tandem/pkg/analysis"
	"github.com/stefanpenner/tandem/pkg/basket"
	"github.com/stefanpenner/tandem/pkg/catalog"
	"github.com/stefanpenner/tandem/pkg/store"
)

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers(headers...)
}

func statusIcon(g *store.Goal) string {
	switch {
	case g.IsComplete():
		return "✓"
	case g.IsInProgress():
		return "◐"
	default:
		return "○"
	}
}

func printGoals(w io.Writer, state basket.State) {
	if len(state.Goals) == 0 {
		fmt.Fprintln(w, "Basket is empty. Browse 'tandem templates' and add one with 'tandem add --template <id>'.")
		return
	}

	pos := make(map[string]int, len(state.Stats.OptimalOrder))
	for i, id := range state.Stats.OptimalOrder {
		pos[id] = i + 1
	}

	t := newTable("#", "", "GOAL", "CATEGORY", "COST", "DURATION", "ID")
	for _, g := range state.Goals {
		order := ""
		if p := pos[g.ID]; p > 0 {
			order = fmt.Sprint(p)
		}
		t.Row(order, statusIcon(&g), g.Title, string(g.Category), analysis.FormatMoney(g.EstimatedCost), g.Duration, g.ID)
	}
	fmt.Fprintln(w, t.Render())
}

// printFit reports the outcome of add, analyze or update.
func printFit(w io.Writer, verb string, res basket.Result) {
	g := res.Goal
	fmt.Fprintf(w, "%s %s (%s)\n", verb, g.Title, g.ID)
	fmt.Fprintf(w, "  %s, %s", g.Category, analysis.FormatMoney(g.EstimatedCost))
	if g.Duration != "" {
		fmt.Fprintf(w, ", %s", g.Duration)
	}
	fmt.Fprintln(w)

	if a := res.Analysis; a != nil {
		if len(a.Conflicts) > 0 {
			fmt.Fprintln(w, "\nConflicts:")
			for _, c := range a.Conflicts {
				fmt.Fprintf(w, "  [%s] %s: %s\n", c.Severity, c.Type, c.Message)
				if c.Suggestion != "" {
					fmt.Fprintf(w, "      %s\n", c.Suggestion)
				}
			}
		}
		if len(a.Synergies) > 0 {
			fmt.Fprintln(w, "\nSynergies:")
			for _, s := range a.Synergies {
				fmt.Fprintf(w, "  - %s\n", s.Message)
			}
		}
		fmt.Fprintf(w, "\nBudget impact: %s. %s\n", a.BudgetImpact.Level, a.BudgetImpact.Message)
	}

	printSuggestions(w, res.Suggestions)
}

func printSuggestions(w io.Writer, suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSuggestions:")
	for _, s := range suggestions {
		fmt.Fprintf(w, "  - %s\n", s)
	}
}

func printStats(w io.Writer, state basket.State) {
	stats := state.Stats
	fmt.Fprintf(w, "Goals: %d   Budget: %s   Average: %s   Risk: %s\n",
		stats.TotalGoals,
		analysis.FormatMoney(stats.TotalBudget),
		analysis.FormatMoney(stats.AverageCost),
		stats.RiskLevel)
	if stats.TotalGoals == 0 {
		printSuggestions(w, state.Suggestions)
		return
	}

	t := newTable("CATEGORY", "GOALS", "BUDGET", "SHARE")
	for _, cat := range store.Categories() {
		n := stats.ByCategory[cat]
		if n == 0 {
			continue
		}
		t.Row(string(cat), fmt.Sprint(n),
			analysis.FormatMoney(stats.Budget.ByCategory[cat]),
			fmt.Sprintf("%.1f%%", stats.Budget.Shares[cat]))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, t.Render())

	if len(stats.Budget.Issues) > 0 {
		fmt.Fprintln(w, "\nBudget issues:")
		for _, issue := range stats.Budget.Issues {
			fmt.Fprintf(w, "  [%s] %s\n", issue.Severity, issue.Message)
		}
	}

	fmt.Fprintf(w, "\nTimeline: %d months back to back, longest goal %d months\n",
		stats.Timeline.TotalMonths, stats.Timeline.LongestGoalMonths)
	for i, e := range stats.Timeline.Entries {
		fmt.Fprintf(w, "  %d. %s (months %d to %d)\n", i+1, e.Title, e.StartMonth, e.EndMonth)
	}

	if len(stats.Risks) > 0 {
		fmt.Fprintln(w, "\nRisks:")
		for _, r := range analysis.WorstFirst(stats.Risks) {
			fmt.Fprintf(w, "  [%s] %s\n", r.Severity, r.Description)
		}
	}

	if len(stats.DependencyGraph.Edges) > 0 {
		fmt.Fprintln(w, "\nDependencies:")
		for _, e := range stats.DependencyGraph.Edges {
			fmt.Fprintf(w, "  %s before %s: %s\n", titleOf(state.Goals, e.From), titleOf(state.Goals, e.To), e.Reason)
		}
	}

	fmt.Fprintf(w, "\nSynergies: %d   Conflicts: %d\n", stats.SynergyCount, stats.ConflictCount)
	printSuggestions(w, state.Suggestions)
}

func printRoadmap(w io.Writer, milestones []store.Milestone) {
	t := newTable("#", "MILESTONE", "CATEGORY", "BUDGET", "MONTHS")
	for _, m := range milestones {
		months := "unscheduled"
		if m.DurationMonths > 0 {
			months = fmt.Sprintf("%d to %d", m.StartMonth, m.TargetMonth)
		}
		t.Row(fmt.Sprint(m.Order), m.Title, string(m.Category), analysis.FormatMoney(m.Budget), months)
	}
	fmt.Fprintln(w, t.Render())
}

func printTemplates(w io.Writer, tmpls []catalog.Template) {
	if len(tmpls) == 0 {
		fmt.Fprintln(w, "No templates in that category.")
		return
	}
	t := newTable("ID", "CATEGORY", "TITLE", "COST", "DURATION")
	for _, tmpl := range tmpls {
		t.Row(tmpl.ID, string(tmpl.Category), tmpl.Title, analysis.FormatMoney(tmpl.EstimatedCost), tmpl.Duration)
	}
	fmt.Fprintln(w, t.Render())
}

func titleOf(goals []store.Goal, id string) string {
	for _, g := range goals {
		if g.ID == id {
			return g.Title
		}
	}
	return id
}
