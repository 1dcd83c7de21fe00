package tui

import (
	"strings"

	"github.com/stefanpenner/tandem/pkg/store"
)

// ListItem is one row of the goal list.
type ListItem struct {
	Goal  store.Goal
	Order int // 1-based position in the optimal order, 0 if unknown
}

// BuildItems pairs each goal with its position in order. Goals keep basket order.
func BuildItems(goals []store.Goal, order []string) []ListItem {
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i + 1
	}
	items := make([]ListItem, 0, len(goals))
	for _, g := range goals {
		items = append(items, ListItem{Goal: g, Order: pos[g.ID]})
	}
	return items
}

// FilterItems keeps the items whose title contains query, ignoring case.
func FilterItems(items []ListItem, query string) []ListItem {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	var result []ListItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Goal.Title), q) {
			result = append(result, item)
		}
	}
	return result
}

// ParseCustomGoal reads the "title, category, cost, duration" line typed into
// the add prompt. Only the title is required; anything after the third comma
// belongs to the duration, so costs typed here cannot use comma separators.
func ParseCustomGoal(line string) (store.GoalInput, error) {
	parts := strings.SplitN(line, ",", 4)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	in := store.GoalInput{Title: parts[0], Source: string(store.SourceCustom)}
	if len(parts) > 1 {
		in.Category = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		cost, err := store.ParseCost(parts[2])
		if err != nil {
			return store.GoalInput{}, err
		}
		in.EstimatedCost = &cost
	}
	if len(parts) > 3 {
		in.Duration = parts[3]
	}
	return in, nil
}
