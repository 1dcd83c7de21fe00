package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/tandem/pkg/analysis"
)

const minWidth = 60
const minHeight = 12

// pickerRows is how many templates the picker shows at once.
const pickerRows = 14

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}
	if m.showDeleteConfirm {
		return placeOverlay(m.renderDeleteModal(), w, h)
	}
	if m.isPicking {
		return placeOverlay(m.renderPicker(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 2
	footerLines := 2

	searchActive := m.isSearching || m.searchQuery != ""
	if searchActive {
		headerLines++
		b.WriteString(m.renderSearchBar(w))
		b.WriteString("\n")
	}

	contentHeight := h - headerLines - footerLines

	leftWidth, rightWidth := paneWidths(w)
	leftPanel := m.renderListPanel(leftWidth, contentHeight)
	rightPanel := m.renderDetailPanel(rightWidth, contentHeight)

	sepColor := ColorGrayDim
	if m.focusedPane == 1 {
		sepColor = ColorPurple
	}
	sep := lipgloss.NewStyle().Foreground(sepColor).Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(rightPanel, i, rightWidth))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(w))

	return b.String()
}

// paneWidths splits the screen between the goal list and the detail pane,
// leaving one column for the divider.
func paneWidths(width int) (left, right int) {
	left = width * 2 / 5
	if left < 30 {
		left = 30
	}
	right = width - left - 1
	if right < 20 {
		right = 20
	}
	return left, right
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("Tandem")

	stats := m.state.Stats
	summary := HeaderCountStyle.Render(fmt.Sprintf("%d goals  %s  risk ", stats.TotalGoals, analysis.FormatMoney(stats.TotalBudget))) +
		SeverityStyle(stats.RiskLevel).Render(string(stats.RiskLevel))

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = "  " + lipgloss.NewStyle().Foreground(ColorCyan).Render(m.statusMsg) + "  "
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(summary) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + status + summary
}

func (m Model) renderSearchBar(width int) string {
	prefix := SearchBarStyle.Render(" / ")
	query := SearchBarStyle.Render(m.searchQuery)
	cursor := ""
	if m.isSearching {
		cursor = SearchBarStyle.Render("█")
	}

	countStr := ""
	if m.searchQuery != "" {
		countStr = SearchCountStyle.Render(fmt.Sprintf(" %d matches", len(m.items)))
	}

	left := prefix + query + cursor
	padWidth := width - lipgloss.Width(left) - lipgloss.Width(countStr)
	if padWidth < 1 {
		padWidth = 1
	}

	return left + strings.Repeat(" ", padWidth) + countStr
}

func (m Model) renderListPanel(width, height int) string {
	var lines []string

	// Reserve the last line for the prompt or the data directory
	listHeight := height - 1
	if listHeight < 1 {
		listHeight = 1
	}

	if len(m.items) == 0 {
		if m.searchQuery != "" {
			lines = append(lines, FooterStyle.Render("No goals match the filter."))
		} else {
			lines = append(lines, FooterStyle.Render("No goals yet. Press 'a' to pick a template."))
		}
	}

	start, end := scrollWindow(m.cursor, len(m.items), listHeight)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderListItem(m.items[i], i == m.cursor, width))
	}

	for len(lines) < listHeight {
		lines = append(lines, "")
	}

	if m.input != inputNone {
		lines = append(lines, InputPromptStyle.Render("> ")+m.textInput.View())
	} else if m.dataDir != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorGrayDim).Render(fileHyperlink(m.dataDir)))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderListItem(item ListItem, isSelected bool, width int) string {
	g := item.Goal

	order := "  "
	if item.Order > 0 {
		order = fmt.Sprintf("%2d", item.Order)
	}

	name := g.Title
	if m.searchQuery != "" {
		if isSelected {
			name = highlightMatch(name, m.searchQuery, SearchCharSelectedStyle, SelectedStyle)
		} else {
			name = highlightMatch(name, m.searchQuery, SearchCharStyle, SearchRowStyle)
		}
	}

	left := OrderStyle.Render(order) + " " + statusIcon(&g) + " " + name
	right := CategoryStyle.Render(string(g.Category)) + " " + CostStyle.Render(analysis.FormatMoney(g.EstimatedCost))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right

	if isSelected {
		line = SelectedStyle.Render(line)
	}
	return line
}

func (m Model) renderDetailPanel(width, height int) string {
	var md string
	if g, ok := m.selected(); ok {
		md = GoalMarkdown(g, m.state) + BasketMarkdown(m.state)
	} else {
		md = BasketMarkdown(m.state)
	}

	rendered := md
	if m.glamourRenderer != nil {
		if out, err := m.glamourRenderer.Render(md); err == nil {
			rendered = out
		}
	}

	rendered = strings.TrimRight(rendered, "\n ")
	lines := strings.Split(rendered, "\n")

	scroll := m.detailScroll
	if scroll > len(lines)-1 {
		scroll = len(lines) - 1
	}
	if scroll < 0 {
		scroll = 0
	}
	lines = lines[scroll:]

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter(width int) string {
	help := m.keys.ShortHelp()
	switch {
	case m.input == inputCustom:
		help = "title, category, cost, duration  enter add  esc cancel"
	case m.input == inputCost:
		help = "enter save  esc cancel"
	case m.isSearching:
		help = "type to filter  enter/↓ keep filter  esc clear"
	case m.searchQuery != "":
		help = "esc clear filter  ↑↓ nav"
	case m.focusedPane == 1:
		help = "↑↓ scroll details  tab goals  ? help"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(10)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderDeleteModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Remove Goal"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Remove '%s' from the basket?\n\n", m.deleteTarget.Title))
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

func (m Model) renderPicker() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Add From Template"))
	b.WriteString("\n\n")

	start, end := scrollWindow(m.pickCursor, len(m.templates), pickerRows)
	for i := start; i < end; i++ {
		t := m.templates[i]
		row := PickerCategoryStyle.Render(string(t.Category)) + t.Title
		if t.EstimatedCost > 0 {
			row += CostStyle.Render("  " + analysis.FormatMoney(t.EstimatedCost))
		}
		if i == m.pickCursor {
			b.WriteString(SelectedStyle.Render(IconPicker + " " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("↑↓ choose  enter add  esc close"))

	return ModalStyle.Render(b.String())
}

// scrollWindow returns the [start, end) slice of n rows to show in height
// lines, keeping cursor roughly centred.
func scrollWindow(cursor, n, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > n {
		end = n
		start = end - height
	}
	return start, end
}

// highlightMatch splits name into before/match/after and styles the match portion
// with charStyle, and the rest with rowStyle. The match is case-insensitive.
func highlightMatch(name, query string, charStyle, rowStyle lipgloss.Style) string {
	lower := strings.ToLower(name)
	idx := strings.Index(lower, strings.ToLower(query))
	if idx < 0 || len(lower) != len(name) {
		return rowStyle.Render(name)
	}
	before := name[:idx]
	match := name[idx : idx+len(query)]
	after := name[idx+len(query):]

	var result string
	if before != "" {
		result += rowStyle.Render(before)
	}
	result += charStyle.Render(match)
	if after != "" {
		result += rowStyle.Render(after)
	}
	return result
}

// fileHyperlink wraps a file path in an OSC 8 terminal hyperlink so it's clickable.
func fileHyperlink(path string) string {
	url := "file://" + path
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, path)
}

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
