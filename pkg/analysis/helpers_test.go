package analysis

import "github.com/stefanpenner/tandem/pkg/store"

func goal(id string, cat store.Category, cost float64, duration string) store.Goal {
	return store.Goal{
		ID:            id,
		Title:         id,
		Category:      cat,
		EstimatedCost: cost,
		Duration:      duration,
		Tasks:         []store.Task{},
		Source:        store.SourceCustom,
		Status:        store.StatusPlanned,
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// permutations returns every ordering of goals.
func permutations(goals []store.Goal) [][]store.Goal {
	if len(goals) <= 1 {
		return [][]store.Goal{append([]store.Goal(nil), goals...)}
	}
	var out [][]store.Goal
	for i := range goals {
		rest := make([]store.Goal, 0, len(goals)-1)
		rest = append(rest, goals[:i]...)
		rest = append(rest, goals[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]store.Goal{goals[i]}, p...))
		}
	}
	return out
}
