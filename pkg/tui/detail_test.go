package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/tandem/pkg/basket"
	"github.com/stefanpenner/tandem/pkg/store"
)

func TestGoalMarkdown(t *testing.T) {
	b := basket.New(nil)
	fund := b.AddGoal(store.GoalInput{Title: "Emergency fund", Category: "financial", EstimatedCost: ptr(10000.0), Duration: "6 months"})
	require.True(t, fund.Success)
	house := b.AddGoal(store.GoalInput{
		Title:         "Buy a house",
		Category:      "home",
		EstimatedCost: ptr(150000.0),
		Duration:      "3 months",
		Description:   "Somewhere with a garden.",
		Tasks:         []store.Task{{Title: "Get pre-approved", Completed: true}, {Title: "Find an agent"}},
	})
	require.True(t, house.Success)

	state := b.State()
	md := GoalMarkdown(*house.Goal, state)

	assert.Contains(t, md, "# Buy a house")
	assert.Contains(t, md, "**Category:** home | **Status:** planned | **Cost:** $150,000 | **Duration:** 3 months")
	assert.Contains(t, md, "Somewhere with a garden.")
	assert.Contains(t, md, "- [x] Get pre-approved")
	assert.Contains(t, md, "- [ ] Find an agent")
	assert.Contains(t, md, "## Depends on")
	assert.Contains(t, md, "- **Emergency fund**: A savings cushion")
	assert.Contains(t, md, "Budget impact **high**")
	assert.Contains(t, md, "## Risks")
	assert.Contains(t, md, "needs $150,000 in 3 months")
}

func TestGoalMarkdownMinimal(t *testing.T) {
	md := GoalMarkdown(store.Goal{ID: "a", Title: "Trip", Category: store.CategoryTravel, Status: store.StatusPlanned}, basket.State{})
	assert.Equal(t, "# Trip\n\n**Category:** travel | **Status:** planned | **Cost:** $0\n\n", md)
}

func TestGoalMarkdownListsWorstConflictFirst(t *testing.T) {
	g := store.Goal{ID: "a", Title: "Cafe", Category: store.CategoryBusiness, Status: store.StatusInProgress,
		AIAnalysis: &store.FitAnalysis{Conflicts: []store.Conflict{
			{Type: "category", Severity: store.SeverityMedium, Message: "competes with the bakery"},
			{Type: "budget", Severity: store.SeverityHigh, Message: "combined budget too high"},
		}}}

	md := GoalMarkdown(g, basket.State{})

	high := strings.Index(md, "combined budget too high")
	medium := strings.Index(md, "competes with the bakery")
	require.True(t, high >= 0 && medium >= 0, md)
	assert.Less(t, high, medium)
	assert.Equal(t, store.SeverityMedium, g.AIAnalysis.Conflicts[0].Severity, "cached analysis must not be reordered")
}

func TestStatusIcon(t *testing.T) {
	assert.Contains(t, statusIcon(&store.Goal{Status: store.StatusComplete}), IconComplete)
	assert.Contains(t, statusIcon(&store.Goal{Status: store.StatusInProgress}), IconInProgress)
	assert.Contains(t, statusIcon(&store.Goal{Status: store.StatusPlanned}), IconPlanned)
}

func TestBasketMarkdown(t *testing.T) {
	b := basket.New(nil)
	b.AddGoal(store.GoalInput{Title: "Buy a house", Category: "home", Duration: "12 months"})
	b.AddGoal(store.GoalInput{Title: "Emergency fund", Category: "financial", Duration: "6 months"})

	md := BasketMarkdown(b.State())
	assert.Contains(t, md, "2 goals, $0 total")
	assert.Contains(t, md, "### Suggested order\n\n1. Emergency fund\n2. Buy a house\n")
}
