// Package tui is the terminal basket browser: a goal list on the left and a
// markdown detail pane on the right.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/stefanpenner/tandem/pkg/analysis"
	"github.com/stefanpenner/tandem/pkg/basket"
	"github.com/stefanpenner/tandem/pkg/catalog"
	"github.com/stefanpenner/tandem/pkg/store"
	gitsync "github.com/stefanpenner/tandem/pkg/sync"
)

// SnapshotChangedMsg is sent when the watcher sees the snapshot change on disk.
type SnapshotChangedMsg struct{}

// SyncDoneMsg is sent when git sync completes.
type SyncDoneMsg struct {
	Err error
}

type inputKind int

const (
	inputNone inputKind = iota
	inputCustom
	inputCost
)

// syncTimeout bounds a git sync started from the TUI.
const syncTimeout = 2 * time.Minute

// Options wires a Model to the rest of tandem.
type Options struct {
	Basket     *basket.Basket
	Catalog    *catalog.Catalog
	DataDir    string // git sync runs here; empty disables sync
	RoadmapDir string // where x exports milestones
	Logger     *zap.Logger
}

// feed holds the latest basket notification. Observers run inside basket
// calls made from Update, so it is drained before Update returns.
type feed struct {
	state   basket.State
	pending bool
}

// Model is the Bubble Tea model for the basket browser.
type Model struct {
	basket      *basket.Basket
	templates   []catalog.Template
	dataDir     string
	roadmapDir  string
	log         *zap.Logger
	feed        *feed
	unsubscribe func()

	keys         KeyMap
	width        int
	height       int
	state        basket.State
	items        []ListItem
	cursor       int
	focusedPane  int // 0 = goals, 1 = details
	detailScroll int

	// Modal state
	showHelpModal     bool
	showDeleteConfirm bool
	deleteTarget      store.Goal

	// Template picker
	isPicking  bool
	pickCursor int

	// Text prompts (custom goal, cost)
	input      inputKind
	textInput  textinput.Model
	editTarget string

	// Filter
	isSearching bool
	searchQuery string

	statusMsg     string
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

// NewModel creates a model subscribed to opts.Basket. Call Close when done.
func NewModel(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	ti := textinput.New()
	ti.CharLimit = 128

	m := Model{
		basket:     opts.Basket,
		dataDir:    opts.DataDir,
		roadmapDir: opts.RoadmapDir,
		log:        log,
		feed:       &feed{},
		keys:       DefaultKeyMap(),
		textInput:  ti,
	}
	if opts.Catalog != nil {
		m.templates = opts.Catalog.All()
	}

	f := m.feed
	m.unsubscribe = opts.Basket.Subscribe(basket.ObserverFunc(func(s basket.State) {
		f.state = s
		f.pending = true
	}))
	m.setState(opts.Basket.State())
	return m
}

// Close detaches the model from its basket.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.drainFeed()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		_, right := paneWidths(msg.Width)
		m.getGlamourRenderer(right - 2)
		return m, tea.ClearScreen

	case SnapshotChangedMsg:
		m.reload("Basket changed on disk")
		return m, nil

	case SyncDoneMsg:
		if msg.Err != nil {
			m.log.Warn("sync failed", zap.Error(msg.Err))
			m.setStatus("Sync failed: " + msg.Err.Error())
			return m, nil
		}
		m.reload("Synced successfully")
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.input != inputNone {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.input != inputNone {
		return m.handleInput(msg)
	}

	if m.isSearching {
		return m.handleSearchInput(msg)
	}

	// Help modal
	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	if m.isPicking {
		return m.handlePicker(msg)
	}

	// Delete confirmation
	if m.showDeleteConfirm {
		switch msg.String() {
		case "y", "Y":
			res := m.basket.RemoveGoal(m.deleteTarget.ID)
			if !res.Success {
				m.setStatus("Delete failed: " + res.Error)
			} else {
				m.setStatus("Removed: " + m.deleteTarget.Title)
			}
			m.showDeleteConfirm = false
		case "n", "N", "esc":
			m.showDeleteConfirm = false
		}
		return m, nil
	}

	// An active filter is cleared by esc, keeping the selection.
	if m.searchQuery != "" && msg.Type == tea.KeyEsc {
		g, ok := m.selected()
		m.searchQuery = ""
		m.rebuildItems()
		if ok {
			m.selectGoal(g.ID)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.focusedPane == 1 {
			if m.detailScroll > 0 {
				m.detailScroll--
			}
		} else if m.cursor > 0 {
			m.cursor--
			m.detailScroll = 0
		}

	case key.Matches(msg, m.keys.Down):
		if m.focusedPane == 1 {
			m.detailScroll++
		} else if m.cursor < len(m.items)-1 {
			m.cursor++
			m.detailScroll = 0
		}

	case key.Matches(msg, m.keys.Tab):
		m.focusedPane = (m.focusedPane + 1) % 2

	case key.Matches(msg, m.keys.Pick):
		if len(m.templates) == 0 {
			m.setStatus("No templates available")
			break
		}
		m.isPicking = true
		m.pickCursor = 0

	case key.Matches(msg, m.keys.AddCustom):
		return m, m.startInput(inputCustom, "", "title, category, cost, duration")

	case key.Matches(msg, m.keys.EditCost):
		if g, ok := m.selected(); ok {
			m.editTarget = g.ID
			return m, m.startInput(inputCost, strconv.FormatFloat(g.EstimatedCost, 'f', -1, 64), "estimated cost")
		}

	case key.Matches(msg, m.keys.Status):
		if g, ok := m.selected(); ok {
			next := string(store.NextStatus(g.Status))
			res := m.basket.UpdateGoal(g.ID, store.GoalPatch{Status: &next})
			if !res.Success {
				m.setStatus("Error: " + res.Error)
			} else {
				m.setStatus(g.Title + " → " + next)
			}
		}

	case key.Matches(msg, m.keys.Delete):
		if g, ok := m.selected(); ok {
			m.deleteTarget = g
			m.showDeleteConfirm = true
		}

	case key.Matches(msg, m.keys.Export):
		m.exportRoadmap()

	case key.Matches(msg, m.keys.Search):
		m.isSearching = true
		m.searchQuery = ""
		m.rebuildItems()

	case key.Matches(msg, m.keys.Reload):
		m.reload("Reloaded")

	case key.Matches(msg, m.keys.Sync):
		if m.dataDir == "" {
			m.setStatus("Sync needs a data directory")
			break
		}
		m.setStatus("Syncing...")
		return m, m.doSync()

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = !m.showHelpModal
	}

	return m, nil
}

// handleInput handles key messages while a text prompt is open.
func (m Model) handleInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input = inputNone
		m.textInput.Blur()
		return m, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.textInput.Value())
		kind := m.input
		m.input = inputNone
		m.textInput.Blur()
		if value == "" {
			return m, nil
		}
		switch kind {
		case inputCustom:
			in, err := ParseCustomGoal(value)
			if err != nil {
				m.setStatus("Error: " + err.Error())
				return m, nil
			}
			m.addGoal(in)
		case inputCost:
			m.updateCost(value)
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
}

// handleSearchInput handles key messages while typing in the filter bar.
func (m Model) handleSearchInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.isSearching = false
		m.searchQuery = ""
		m.rebuildItems()

	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		// Keep the filter, leave the bar
		m.isSearching = false

	case tea.KeyBackspace:
		if len(m.searchQuery) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.searchQuery)
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-size]
		}
		m.rebuildItems()

	case tea.KeyRunes, tea.KeySpace:
		m.searchQuery += string(msg.Runes)
		m.cursor = 0
		m.rebuildItems()
	}
	return m, nil
}

func (m Model) handlePicker(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc || key.Matches(msg, m.keys.Quit):
		m.isPicking = false

	case key.Matches(msg, m.keys.Up):
		if m.pickCursor > 0 {
			m.pickCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.pickCursor < len(m.templates)-1 {
			m.pickCursor++
		}

	case msg.Type == tea.KeyEnter:
		t := m.templates[m.pickCursor]
		m.isPicking = false
		m.addGoal(t.Input())
	}
	return m, nil
}

func (m *Model) startInput(kind inputKind, value, placeholder string) tea.Cmd {
	m.input = kind
	m.textInput.Reset()
	m.textInput.Placeholder = placeholder
	m.textInput.SetValue(value)
	m.textInput.Focus()
	return textinput.Blink
}

func (m *Model) addGoal(in store.GoalInput) {
	res := m.basket.AddGoal(in)
	if !res.Success {
		m.setStatus("Error: " + res.Error)
		return
	}
	m.drainFeed()
	m.selectGoal(res.Goal.ID)
	m.setStatus(addSummary(res))
}

func (m *Model) updateCost(value string) {
	cost, err := store.ParseCost(value)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	res := m.basket.UpdateGoal(m.editTarget, store.GoalPatch{EstimatedCost: &cost})
	if !res.Success {
		m.setStatus("Error: " + res.Error)
		return
	}
	m.setStatus(res.Goal.Title + " cost → " + analysis.FormatMoney(cost))
}

func (m *Model) exportRoadmap() {
	if m.roadmapDir == "" {
		m.setStatus("No roadmap directory configured")
		return
	}
	res := m.basket.CreateRoadmap()
	if !res.Success {
		m.setStatus("Export failed: " + res.Error)
		return
	}
	if _, err := store.ExportRoadmap(m.roadmapDir, res.Milestones); err != nil {
		m.log.Error("roadmap export failed", zap.String("dir", m.roadmapDir), zap.Error(err))
		m.setStatus("Export failed: " + err.Error())
		return
	}
	m.log.Info("roadmap exported", zap.String("dir", m.roadmapDir), zap.Int("milestones", len(res.Milestones)))
	m.setStatus(fmt.Sprintf("Exported %d milestones to %s", len(res.Milestones), m.roadmapDir))
}

// reload re-reads the snapshot; observers bring the new state in.
func (m *Model) reload(status string) {
	if err := m.basket.Load(); err != nil {
		m.log.Warn("reloading basket", zap.Error(err))
		m.setStatus("Load error: " + err.Error())
		return
	}
	m.setStatus(status)
}

func (m *Model) drainFeed() {
	if !m.feed.pending {
		return
	}
	m.feed.pending = false
	m.setState(m.feed.state)
}

func (m *Model) setState(s basket.State) {
	m.state = s
	m.rebuildItems()
}

func (m *Model) rebuildItems() {
	m.items = FilterItems(BuildItems(m.state.Goals, m.state.Stats.OptimalOrder), m.searchQuery)

	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (store.Goal, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return store.Goal{}, false
	}
	return m.items[m.cursor].Goal, true
}

func (m *Model) selectGoal(id string) {
	for i, item := range m.items {
		if item.Goal.ID == id {
			m.cursor = i
			m.detailScroll = 0
			return
		}
	}
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.log.Debug("creating markdown renderer", zap.Error(err))
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

func (m Model) doSync() tea.Cmd {
	dir, log := m.dataDir, m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		return SyncDoneMsg{Err: gitsync.SyncRepo(ctx, dir, log)}
	}
}

func addSummary(res basket.Result) string {
	s := "Added " + res.Goal.Title
	if a := res.Analysis; a != nil {
		s += fmt.Sprintf(" (%s, %s)",
			plural(len(a.Conflicts), "conflict", "conflicts"),
			plural(len(a.Synergies), "synergy", "synergies"))
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
