package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/tandem/pkg/basket"
	"github.com/stefanpenner/tandem/pkg/catalog"
	"github.com/stefanpenner/tandem/pkg/store"
)

type tickMsg struct{}

func newTestModel(t *testing.T) (Model, *basket.Basket) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	b := basket.New(nil)
	m := NewModel(Options{Basket: b, Catalog: cat, RoadmapDir: t.TempDir()})
	t.Cleanup(m.Close)
	return m, b
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func TestPickTemplate(t *testing.T) {
	m, b := newTestModel(t)

	m = send(t, m, keys("a"))
	require.True(t, m.isPicking)

	m = send(t, m, keys("j"), enter)
	assert.False(t, m.isPicking)
	require.Equal(t, 1, b.Len())
	require.Len(t, m.items, 1)

	goal := b.Goals()[0]
	assert.Equal(t, m.templates[1].ID, goal.TemplateID)
	assert.Equal(t, store.SourceTemplate, goal.Source)
	assert.True(t, strings.HasPrefix(m.statusMsg, "Added "+goal.Title), m.statusMsg)
}

func TestAddCustomGoal(t *testing.T) {
	m, b := newTestModel(t)

	m = send(t, m, keys("A"))
	require.Equal(t, inputCustom, m.input)

	m = send(t, m, keys("Kitchen remodel, home, 18000, 4 months"), enter)
	assert.Equal(t, inputNone, m.input)

	require.Equal(t, 1, b.Len())
	g := b.Goals()[0]
	assert.Equal(t, "Kitchen remodel", g.Title)
	assert.Equal(t, store.CategoryHome, g.Category)
	assert.Equal(t, 18000.0, g.EstimatedCost)
	assert.Equal(t, "4 months", g.Duration)
	assert.Equal(t, "Added Kitchen remodel (0 conflicts, 0 synergies)", m.statusMsg)
}

func TestAddCustomGoalRejectsInvalid(t *testing.T) {
	m, b := newTestModel(t)

	m = send(t, m, keys("A"), keys("Yacht, yachts"), enter)
	assert.Zero(t, b.Len())
	assert.Contains(t, m.statusMsg, "Error:")
}

func TestStatusCycleAndCostEdit(t *testing.T) {
	m, b := newTestModel(t)
	m = send(t, m, keys("A"), keys("Trip, travel, 3000, 1 month"), enter)

	m = send(t, m, space)
	assert.Equal(t, store.StatusInProgress, b.Goals()[0].Status)
	m = send(t, m, space, space)
	assert.Equal(t, store.StatusPlanned, b.Goals()[0].Status)

	m = send(t, m, keys("c"))
	require.Equal(t, inputCost, m.input)
	assert.Equal(t, "3000", m.textInput.Value())
	m.textInput.SetValue("$4,500")
	m = send(t, m, enter)

	assert.Equal(t, 4500.0, b.Goals()[0].EstimatedCost)
	assert.Equal(t, 4500.0, m.items[0].Goal.EstimatedCost)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, b := newTestModel(t)
	m = send(t, m, keys("A"), keys("Trip"), enter)

	m = send(t, m, keys("d"), keys("n"))
	assert.Equal(t, 1, b.Len())

	m = send(t, m, keys("d"), keys("y"))
	assert.Zero(t, b.Len())
	assert.Empty(t, m.items)
	assert.Equal(t, 0, m.cursor)
}

func TestObserverRefreshesModel(t *testing.T) {
	m, b := newTestModel(t)

	b.AddGoal(store.GoalInput{Title: "Emergency fund", Category: "financial"})
	assert.Empty(t, m.items)

	m = send(t, m, tickMsg{})
	require.Len(t, m.items, 1)
	assert.Equal(t, "Emergency fund", m.items[0].Goal.Title)
	assert.Equal(t, 1, m.items[0].Order)
}

func TestCloseUnsubscribes(t *testing.T) {
	m, b := newTestModel(t)
	m.Close()

	b.AddGoal(store.GoalInput{Title: "Emergency fund"})
	m = send(t, m, tickMsg{})
	assert.Empty(t, m.items)
}

func TestFilter(t *testing.T) {
	m, b := newTestModel(t)
	b.AddGoal(store.GoalInput{Title: "Buy a house", Category: "home"})
	b.AddGoal(store.GoalInput{Title: "Trip to Japan", Category: "travel"})

	m = send(t, m, keys("/"), keys("HOU"))
	require.Len(t, m.items, 1)
	assert.Equal(t, "Buy a house", m.items[0].Goal.Title)

	m = send(t, m, enter)
	assert.False(t, m.isSearching)
	assert.Len(t, m.items, 1)

	m = send(t, m, esc)
	assert.Len(t, m.items, 2)
	assert.Equal(t, "Buy a house", m.items[m.cursor].Goal.Title)
}

func TestExportRoadmap(t *testing.T) {
	m, b := newTestModel(t)

	m = send(t, m, keys("x"))
	assert.Contains(t, m.statusMsg, "Export failed")

	b.AddGoal(store.GoalInput{Title: "Emergency fund", Category: "financial", Duration: "6 months"})
	b.AddGoal(store.GoalInput{Title: "Buy a house", Category: "home", Duration: "12 months"})
	m = send(t, m, keys("x"))
	assert.Equal(t, "Exported 2 milestones to "+m.roadmapDir, m.statusMsg)

	milestones, err := store.LoadRoadmap(m.roadmapDir)
	require.NoError(t, err)
	require.Len(t, milestones, 2)
	assert.Equal(t, "Emergency fund", milestones[0].Title)
	assert.Equal(t, "Buy a house", milestones[1].Title)
}

func TestSyncWithoutDataDir(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.Update(keys("s"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Sync needs a data directory", next.(Model).statusMsg)
}

func TestSnapshotChangedReloads(t *testing.T) {
	kv := store.NewMemoryKV()
	writer := basket.New(kv)
	reader := basket.New(kv)
	m := NewModel(Options{Basket: reader})
	defer m.Close()

	writer.AddGoal(store.GoalInput{Title: "Learn Spanish", Category: "learning"})
	m = send(t, m, SnapshotChangedMsg{})

	require.Len(t, m.items, 1)
	assert.Equal(t, "Learn Spanish", m.items[0].Goal.Title)
	assert.Equal(t, "Basket changed on disk", m.statusMsg)
}

func TestViewRenders(t *testing.T) {
	m, b := newTestModel(t)
	b.AddGoal(store.GoalInput{Title: "Emergency fund", Category: "financial", EstimatedCost: ptr(10000.0)})

	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	out := m.View()
	assert.Contains(t, out, "Tandem")
	assert.Contains(t, out, "Emergency fund")
	assert.Contains(t, out, "$10,000")

	m = send(t, m, keys("?"))
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m = send(t, m, esc, keys("a"))
	assert.Contains(t, m.View(), "Add From Template")
}

func ptr[T any](v T) *T { return &v }
