package analysis

import "github.com/stefanpenner/tandem/pkg/store"

// MaxPlannedMonths caps a single goal's share of the timeline so that
// absurd durations cannot overflow the running total.
const MaxPlannedMonths = 1200

// TimelineEntry places one goal on the sequential plan.
type TimelineEntry struct {
	GoalID     string `json:"goalId"`
	Title      string `json:"title"`
	Months     int    `json:"months"`
	StartMonth int    `json:"startMonth"`
	EndMonth   int    `json:"endMonth"`
}

// Timeline lays the basket out one goal after another.
type Timeline struct {
	Entries           []TimelineEntry `json:"entries"`
	TotalMonths       int             `json:"totalMonths"`
	LongestGoalMonths int             `json:"longestGoalMonths"`
}

// AnalyzeTimeline schedules goals back to back following order. Goals missing
// from order are appended in basket order; ids in order that aren't goals are
// skipped.
func AnalyzeTimeline(goals []store.Goal, order []string) Timeline {
	byID := make(map[string]store.Goal, len(goals))
	for _, g := range goals {
		if _, dup := byID[g.ID]; !dup {
			byID[g.ID] = g
		}
	}

	tl := Timeline{Entries: make([]TimelineEntry, 0, len(byID))}
	placed := make(map[string]bool, len(byID))
	place := func(g store.Goal) {
		if placed[g.ID] {
			return
		}
		placed[g.ID] = true
		months := min(ParseDurationMonths(g.Duration), MaxPlannedMonths)
		tl.Entries = append(tl.Entries, TimelineEntry{
			GoalID:     g.ID,
			Title:      g.Title,
			Months:     months,
			StartMonth: tl.TotalMonths,
			EndMonth:   tl.TotalMonths + months,
		})
		tl.TotalMonths += months
		tl.LongestGoalMonths = max(tl.LongestGoalMonths, months)
	}

	for _, id := range order {
		if g, ok := byID[id]; ok {
			place(g)
		}
	}
	for _, g := range goals {
		place(g)
	}
	return tl
}
