package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseMilestone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, m *Milestone)
	}{
		{
			name: "full frontmatter with notes and tasks",
			input: `---
id: m-1
goal_id: g-1
title: Emergency Fund
category: financial
budget: 10000
duration: 3 months
duration_months: 3
order: 1
start_month: 0
target_month: 3
status: planned
created: 2026-02-08T10:00:00Z
---

# Emergency Fund

Three months of expenses first.

## Tasks

- [x] Open a savings account
- [ ] Automate transfers
`,
			check: func(t *testing.T, m *Milestone) {
				assert.Equal(t, "m-1", m.ID)
				assert.Equal(t, "g-1", m.GoalID)
				assert.Equal(t, CategoryFinancial, m.Category)
				assert.Equal(t, 10000.0, m.Budget)
				assert.Equal(t, 3, m.TargetMonth)
				assert.Equal(t, "Three months of expenses first.", m.Notes)
				require.Len(t, m.Tasks, 2)
				assert.Equal(t, Task{Title: "Open a savings account", Completed: true}, m.Tasks[0])
				assert.Equal(t, Task{Title: "Automate transfers"}, m.Tasks[1])
			},
		},
		{
			name: "dependencies and plain task bullets",
			input: `---
title: Buy a Home
order: 2
depends_on: [g-1]
---

## Tasks

- Get pre-approved
`,
			check: func(t *testing.T, m *Milestone) {
				assert.Equal(t, []string{"g-1"}, m.DependsOn)
				assert.Empty(t, m.Notes)
				assert.Equal(t, []Task{{Title: "Get pre-approved"}}, m.Tasks)
			},
		},
		{
			name:    "no frontmatter",
			input:   "# Just a heading\n",
			wantErr: true,
		},
		{
			name:    "unclosed frontmatter",
			input:   "---\ntitle: broken\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			input:   "---\ntitle: [unclosed\n---\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMilestone(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, m)
		})
	}
}

func TestSerializeMilestoneRoundTrip(t *testing.T) {
	created := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)
	m := &Milestone{
		ID:             "m-2",
		GoalID:         "g-2",
		Title:          "Buy a Home",
		Category:       CategoryHome,
		Budget:         60000,
		Duration:       "12 months",
		DurationMonths: 12,
		Order:          2,
		StartMonth:     3,
		TargetMonth:    15,
		DependsOn:      []string{"g-1"},
		Status:         "planned",
		CreatedAt:      created,
		Notes:          "Follows the emergency fund.",
		Tasks:          []Task{{Title: "Get pre-approved"}, {Title: "Tour houses", Completed: true}},
	}

	content, err := SerializeMilestone(m)
	require.NoError(t, err)
	assert.Contains(t, content, "# Buy a Home")
	assert.Contains(t, content, "- [x] Tour houses")

	parsed, err := ParseMilestone(content)
	require.NoError(t, err)
	assert.Equal(t, m.Title, parsed.Title)
	assert.Equal(t, m.DependsOn, parsed.DependsOn)
	assert.Equal(t, m.Tasks, parsed.Tasks)
	assert.Equal(t, m.Notes, parsed.Notes)
	assert.True(t, created.Equal(parsed.CreatedAt))
}

func TestTaskUnmarshalYAMLAcceptsStrings(t *testing.T) {
	var doc struct {
		Tasks []Task `yaml:"tasks"`
	}
	err := yaml.Unmarshal([]byte("tasks:\n  - Book venue\n  - title: Send invites\n    completed: true\n"), &doc)
	require.NoError(t, err)
	assert.Equal(t, []Task{{Title: "Book venue"}, {Title: "Send invites", Completed: true}}, doc.Tasks)
}
