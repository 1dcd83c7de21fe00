package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

const (
	milestoneFile = "milestone.md"
	roadmapIndex  = "roadmap.md"
)

// Slugify lowercases s and keeps only letters, digits and single dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteRune('-')
			dash = true
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return "milestone"
	}
	return slug
}

// MilestoneDir returns the directory name used for a milestone in an export.
func MilestoneDir(m Milestone) string {
	return fmt.Sprintf("%02d-%s", m.Order, Slugify(m.Title))
}

// ExportRoadmap writes each milestone to <dir>/NN-slug/milestone.md and an
// ordered index to <dir>/roadmap.md, replacing any earlier export in dir.
// It returns every file written.
func ExportRoadmap(dir string, milestones []Milestone) ([]string, error) {
	if len(milestones) == 0 {
		return nil, fmt.Errorf("roadmap has no milestones")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating roadmap directory: %w", err)
	}
	if err := removeExport(dir); err != nil {
		return nil, err
	}

	ordered := append([]Milestone(nil), milestones...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	var written []string
	var index strings.Builder
	index.WriteString("# Roadmap\n\n")

	for _, m := range ordered {
		mdir := filepath.Join(dir, MilestoneDir(m))
		if err := os.MkdirAll(mdir, 0755); err != nil {
			return written, fmt.Errorf("creating milestone directory: %w", err)
		}

		content, err := SerializeMilestone(&m)
		if err != nil {
			return written, fmt.Errorf("serializing milestone %s: %w", m.Title, err)
		}

		path := filepath.Join(mdir, milestoneFile)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return written, fmt.Errorf("writing milestone %s: %w", m.Title, err)
		}
		written = append(written, path)

		index.WriteString(fmt.Sprintf("%d. [%s](%s/%s): month %d to %d, budget %.0f\n",
			m.Order, m.Title, MilestoneDir(m), milestoneFile, m.StartMonth, m.TargetMonth, m.Budget))
	}

	indexPath := filepath.Join(dir, roadmapIndex)
	if err := os.WriteFile(indexPath, []byte(index.String()), 0644); err != nil {
		return written, fmt.Errorf("writing roadmap index: %w", err)
	}
	written = append(written, indexPath)

	return written, nil
}

// removeExport deletes the index and every milestone directory of a previous
// export. Other files in dir are left alone.
func removeExport(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading roadmap directory: %w", err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !entry.IsDir() {
			if entry.Name() == roadmapIndex {
				if err := os.Remove(path); err != nil {
					return fmt.Errorf("removing old roadmap index: %w", err)
				}
			}
			continue
		}
		if _, err := os.Stat(filepath.Join(path, milestoneFile)); err != nil {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing old milestone %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// LoadRoadmap reads an exported roadmap back, ordered by milestone order.
// Directories without a readable milestone.md are skipped.
func LoadRoadmap(dir string) ([]Milestone, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading roadmap directory: %w", err)
	}

	var milestones []Milestone
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name(), milestoneFile))
		if err != nil {
			continue
		}
		m, err := ParseMilestone(string(data))
		if err != nil {
			continue // skip broken milestones
		}
		milestones = append(milestones, *m)
	}

	sort.SliceStable(milestones, func(i, j int) bool { return milestones[i].Order < milestones[j].Order })
	return milestones, nil
}
