package store

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func cost(v float64) *float64 { return &v }

func str(s string) *string { return &s }

func TestNormalizeGoalFillsDefaults(t *testing.T) {
	g, err := NormalizeGoal(GoalInput{Title: "  Learn Italian  "}, testNow)
	require.NoError(t, err)

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "Learn Italian", g.Title)
	assert.Equal(t, CategoryCustom, g.Category)
	assert.Equal(t, 0.0, g.EstimatedCost)
	assert.Equal(t, "", g.Duration)
	assert.Equal(t, SourceCustom, g.Source)
	assert.Equal(t, StatusPlanned, g.Status)
	assert.NotNil(t, g.Tasks)
	assert.Empty(t, g.Tasks)
	assert.Equal(t, testNow, g.AddedAt)
	assert.Equal(t, testNow, g.UpdatedAt)
	assert.Nil(t, g.AIAnalysis)
}

func TestNormalizeGoalKeepsProvidedFields(t *testing.T) {
	g, err := NormalizeGoal(GoalInput{
		ID:            "wedding-1",
		Title:         "Our Wedding",
		Category:      "Wedding",
		EstimatedCost: cost(30000),
		Duration:      "12 months",
		Tasks:         []Task{{Title: "Book venue"}},
		Source:        "template",
		TemplateID:    "wedding-classic",
		Status:        "in-progress",
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "wedding-1", g.ID)
	assert.Equal(t, CategoryWedding, g.Category)
	assert.Equal(t, 30000.0, g.EstimatedCost)
	assert.Equal(t, "12 months", g.Duration)
	assert.Equal(t, SourceTemplate, g.Source)
	assert.Equal(t, "wedding-classic", g.TemplateID)
	assert.Equal(t, StatusInProgress, g.Status)
	assert.Equal(t, []Task{{Title: "Book venue"}}, g.Tasks)
}

func TestNormalizeGoalRejectsMalformedInput(t *testing.T) {
	_, err := NormalizeGoal(GoalInput{
		Title:         " ",
		Category:      "yacht",
		EstimatedCost: cost(-5),
		Source:        "import",
		Status:        "done",
	}, testNow)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, len(verrs))
	for i, v := range verrs {
		fields[i] = v.Field
	}
	assert.Equal(t, []string{"title", "category", "estimatedCost", "source", "status"}, fields)
	assert.Contains(t, err.Error(), "5 validation errors")
}

func TestNormalizeGoalRejectsNonFiniteCost(t *testing.T) {
	_, err := NormalizeGoal(GoalInput{Title: "x", EstimatedCost: cost(math.NaN())}, testNow)
	assert.Error(t, err)
	_, err = NormalizeGoal(GoalInput{Title: "x", EstimatedCost: cost(math.Inf(1))}, testNow)
	assert.Error(t, err)
}

func TestNormalizeGoalRejectsHugeCost(t *testing.T) {
	_, err := NormalizeGoal(GoalInput{Title: "x", EstimatedCost: cost(1e20)}, testNow)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "estimatedCost", verrs[0].Field)

	g, err := NormalizeGoal(GoalInput{Title: "x", EstimatedCost: cost(MaxCost)}, testNow)
	require.NoError(t, err)
	assert.Equal(t, MaxCost, g.EstimatedCost)
}

func TestNormalizeGoalCopiesTasks(t *testing.T) {
	tasks := []Task{{Title: "a"}}
	g, err := NormalizeGoal(GoalInput{Title: "x", Tasks: tasks}, testNow)
	require.NoError(t, err)
	tasks[0].Title = "changed"
	assert.Equal(t, "a", g.Tasks[0].Title)
}

func TestApplyPatch(t *testing.T) {
	g, err := NormalizeGoal(GoalInput{ID: "g", Title: "Trip", Category: "travel", EstimatedCost: cost(4000)}, testNow)
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	out, err := ApplyPatch(g, GoalPatch{
		Title:         str("Japan Trip"),
		EstimatedCost: cost(6000),
		Duration:      str("2 weeks"),
		Status:        str("complete"),
	}, later)
	require.NoError(t, err)

	assert.Equal(t, "g", out.ID)
	assert.Equal(t, "Japan Trip", out.Title)
	assert.Equal(t, CategoryTravel, out.Category)
	assert.Equal(t, 6000.0, out.EstimatedCost)
	assert.Equal(t, "2 weeks", out.Duration)
	assert.Equal(t, StatusComplete, out.Status)
	assert.Equal(t, testNow, out.AddedAt)
	assert.Equal(t, later, out.UpdatedAt)

	// Original untouched
	assert.Equal(t, "Trip", g.Title)
}

func TestApplyPatchInvalidLeavesGoalAlone(t *testing.T) {
	g, err := NormalizeGoal(GoalInput{ID: "g", Title: "Trip"}, testNow)
	require.NoError(t, err)

	out, err := ApplyPatch(g, GoalPatch{Category: str("spaceship"), EstimatedCost: cost(-1)}, testNow)
	require.Error(t, err)
	assert.Equal(t, g, out)
}

func TestGoalPatchIsEmpty(t *testing.T) {
	assert.True(t, GoalPatch{}.IsEmpty())
	assert.False(t, GoalPatch{Duration: str("1 month")}.IsEmpty())
}

func TestNextStatus(t *testing.T) {
	assert.Equal(t, StatusInProgress, NextStatus(StatusPlanned))
	assert.Equal(t, StatusComplete, NextStatus(StatusInProgress))
	assert.Equal(t, StatusPlanned, NextStatus(StatusComplete))
}

func TestGoalCloneIsDeep(t *testing.T) {
	g := Goal{
		ID:    "g",
		Tasks: []Task{{Title: "a"}},
		AIAnalysis: &FitAnalysis{
			SuggestedOrder: []string{"g"},
		},
	}
	c := g.Clone()
	c.Tasks[0].Title = "b"
	c.AIAnalysis.SuggestedOrder[0] = "h"

	assert.Equal(t, "a", g.Tasks[0].Title)
	assert.Equal(t, "g", g.AIAnalysis.SuggestedOrder[0])
}

func TestParseCost(t *testing.T) {
	for in, want := range map[string]float64{"25000": 25000, "$25,000": 25000, " 1_500.50 ": 1500.5, "0": 0} {
		got, err := ParseCost(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"lots", "", "-5", "NaN"} {
		_, err := ParseCost(in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, in)
		assert.Equal(t, "estimatedCost", verr.Field)
	}
}
