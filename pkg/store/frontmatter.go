package store

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

const tasksHeader = "## Tasks"

// splitFrontmatter separates the YAML block from the markdown body.
// ok is false when content has no frontmatter at all.
func splitFrontmatter(content string) (yamlContent, body string, ok bool, err error) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return "", content, false, nil
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return "", "", false, fmt.Errorf("unclosed frontmatter delimiter")
	}

	yamlContent = rest[:idx]
	body = rest[idx+len("\n"+frontmatterDelimiter):]
	return yamlContent, strings.TrimLeft(body, "\n"), true, nil
}

// ParseMilestone reads a milestone.md file: YAML frontmatter, free-form
// notes, then an optional "## Tasks" checklist.
func ParseMilestone(content string) (*Milestone, error) {
	yamlContent, body, ok, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("milestone has no frontmatter")
	}

	var m Milestone
	if err := yaml.Unmarshal([]byte(yamlContent), &m); err != nil {
		return nil, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}

	notes := body
	if idx := strings.Index(body, tasksHeader); idx != -1 {
		notes = body[:idx]
		m.Tasks = parseChecklist(body[idx+len(tasksHeader):])
	}
	m.Notes = strings.TrimSpace(stripTitle(notes, m.Title))
	return &m, nil
}

// SerializeMilestone renders a milestone as markdown with YAML frontmatter.
func SerializeMilestone(m *Milestone) (string, error) {
	yamlBytes, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n\n")

	b.WriteString("# " + m.Title + "\n")
	if m.Notes != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(m.Notes, "\n"))
		b.WriteString("\n")
	}

	if len(m.Tasks) > 0 {
		b.WriteString("\n" + tasksHeader + "\n\n")
		for _, t := range m.Tasks {
			box := "[ ]"
			if t.Completed {
				box = "[x]"
			}
			b.WriteString(fmt.Sprintf("- %s %s\n", box, t.Title))
		}
	}

	return b.String(), nil
}

func parseChecklist(s string) []Task {
	var tasks []Task
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		line = strings.TrimSpace(line[2:])
		var t Task
		switch {
		case strings.HasPrefix(line, "[x] "), strings.HasPrefix(line, "[X] "):
			t = Task{Title: strings.TrimSpace(line[4:]), Completed: true}
		case strings.HasPrefix(line, "[ ] "):
			t = Task{Title: strings.TrimSpace(line[4:])}
		default:
			t = Task{Title: line}
		}
		if t.Title != "" {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

func stripTitle(body, title string) string {
	body = strings.TrimLeft(body, "\n")
	heading := "# " + title
	if strings.HasPrefix(body, heading) {
		return body[len(heading):]
	}
	return body
}
