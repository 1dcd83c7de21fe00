package analysis

import (
	"testing"

	"github.com/stefanpenner/tandem/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeBudgetDistributionOrderIndependent(t *testing.T) {
	goals := []store.Goal{
		goal("a", store.CategoryWedding, 0.1, ""),
		goal("b", store.CategoryWedding, 0.2, ""),
		goal("c", store.CategoryWedding, 0.3, ""),
		goal("d", store.CategoryTravel, 1e16, ""),
		goal("e", store.CategoryTravel, 1, ""),
		goal("f", store.CategoryHome, 0, ""),
	}

	want := AnalyzeBudgetDistribution(goals)
	for _, p := range permutations(goals) {
		got := AnalyzeBudgetDistribution(p)
		require.Equal(t, want.TotalBudget, got.TotalBudget)
		require.Equal(t, want.ByCategory, got.ByCategory)
		require.Equal(t, want.Shares, got.Shares)
		require.Equal(t, want.Issues, got.Issues)
		require.Equal(t, want.OptimizationSuggestions, got.OptimizationSuggestions)
	}
}

func TestAnalyzeBudgetDistributionHighConcentration(t *testing.T) {
	dist := AnalyzeBudgetDistribution([]store.Goal{
		goal("wedding", store.CategoryWedding, 90000, ""),
		goal("trip", store.CategoryTravel, 10000, ""),
	})

	assert.Equal(t, 100000.0, dist.TotalBudget)
	assert.Equal(t, map[store.Category]float64{
		store.CategoryWedding: 90000,
		store.CategoryTravel:  10000,
	}, dist.ByCategory)
	assert.Equal(t, 90.0, dist.Shares[store.CategoryWedding])

	require.Len(t, dist.Issues, 1)
	assert.Equal(t, store.SeverityHigh, dist.Issues[0].Severity)
	assert.Equal(t, store.CategoryWedding, dist.Issues[0].Category)

	require.Len(t, dist.OptimizationSuggestions, 2)
	assert.Contains(t, dist.OptimizationSuggestions[0], "$75,000")
	assert.Contains(t, dist.OptimizationSuggestions[1], "Phase goals")
}

func TestAnalyzeBudgetDistributionMediumConcentration(t *testing.T) {
	dist := AnalyzeBudgetDistribution([]store.Goal{
		goal("home", store.CategoryHome, 7000, ""),
		goal("trip", store.CategoryTravel, 3000, ""),
	})

	require.Len(t, dist.Issues, 1)
	assert.Equal(t, store.SeverityMedium, dist.Issues[0].Severity)
	assert.Equal(t, store.CategoryHome, dist.Issues[0].Category)
}

func TestAnalyzeBudgetDistributionSingleGoalIsNotConcentrated(t *testing.T) {
	dist := AnalyzeBudgetDistribution([]store.Goal{goal("home", store.CategoryHome, 40000, "")})
	assert.Empty(t, dist.Issues)
	assert.Empty(t, dist.OptimizationSuggestions)
	assert.Equal(t, 100.0, dist.Shares[store.CategoryHome])
}

func TestAnalyzeBudgetDistributionLargeTotal(t *testing.T) {
	dist := AnalyzeBudgetDistribution([]store.Goal{
		goal("home", store.CategoryHome, 60000, ""),
		goal("biz", store.CategoryBusiness, 60000, ""),
	})

	require.Len(t, dist.Issues, 1)
	assert.Equal(t, store.SeverityHigh, dist.Issues[0].Severity)
	assert.Empty(t, dist.Issues[0].Category)
	assert.Contains(t, dist.Issues[0].Message, "$120,000")
}

func TestAnalyzeBudgetDistributionUnbudgeted(t *testing.T) {
	dist := AnalyzeBudgetDistribution([]store.Goal{
		goal("w1", store.CategoryWedding, 0, ""),
		goal("w2", store.CategoryWedding, 0, ""),
		goal("run", store.CategoryHealth, 0, ""),
	})

	assert.Equal(t, 0.0, dist.TotalBudget)
	require.Len(t, dist.Issues, 1)
	assert.Equal(t, store.SeverityLow, dist.Issues[0].Severity)
	assert.Equal(t, "2 wedding goals have no cost estimate", dist.Issues[0].Message)
	assert.Len(t, dist.OptimizationSuggestions, 1)
}

func TestAnalyzeBudgetDistributionEmpty(t *testing.T) {
	dist := AnalyzeBudgetDistribution(nil)
	assert.Equal(t, 0.0, dist.TotalBudget)
	assert.NotNil(t, dist.ByCategory)
	assert.NotNil(t, dist.Issues)
	assert.NotNil(t, dist.OptimizationSuggestions)
}
