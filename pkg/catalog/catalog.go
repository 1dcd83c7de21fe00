// Package catalog is the read-only gallery of template goals.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/stefanpenner/tandem/pkg/store"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

// Template is a starter goal with cost and duration defaults.
type Template struct {
	ID            string         `yaml:"id" json:"id"`
	Title         string         `yaml:"title" json:"title"`
	Category      store.Category `yaml:"-" json:"category"`
	EstimatedCost float64        `yaml:"estimatedCost" json:"estimatedCost"`
	Duration      string         `yaml:"duration" json:"duration"`
	Description   string         `yaml:"description,omitempty" json:"description,omitempty"`
	Tasks         []store.Task   `yaml:"tasks,omitempty" json:"tasks,omitempty"`
}

// Input turns the template into goal input with a fresh id.
func (t Template) Input() store.GoalInput {
	cost := t.EstimatedCost
	return store.GoalInput{
		ID:            uuid.NewString(),
		Title:         t.Title,
		Description:   t.Description,
		Category:      string(t.Category),
		EstimatedCost: &cost,
		Duration:      t.Duration,
		Tasks:         append([]store.Task(nil), t.Tasks...),
		Source:        string(store.SourceTemplate),
		TemplateID:    t.ID,
	}
}

// Catalog indexes templates by category and id.
type Catalog struct {
	byCategory map[store.Category][]Template
	byID       map[string]Template
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultTemplates)
}

// Parse reads a category -> templates YAML document.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string][]Template
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	c := &Catalog{
		byCategory: make(map[store.Category][]Template),
		byID:       make(map[string]Template),
	}
	for name, templates := range raw {
		cat, verr := store.ParseCategory(name)
		if verr != nil {
			return nil, fmt.Errorf("template category %q: %w", name, verr)
		}
		for _, t := range templates {
			if t.ID == "" || t.Title == "" {
				return nil, fmt.Errorf("template in %s is missing an id or title", cat)
			}
			if _, dup := c.byID[t.ID]; dup {
				return nil, fmt.Errorf("duplicate template id %q", t.ID)
			}
			if t.EstimatedCost < 0 {
				return nil, fmt.Errorf("template %q has a negative cost", t.ID)
			}
			t.Category = cat
			c.byID[t.ID] = t
			c.byCategory[cat] = append(c.byCategory[cat], t)
		}
	}
	return c, nil
}

// Categories lists the categories that have templates, in display order.
func (c *Catalog) Categories() []store.Category {
	var cats []store.Category
	for _, cat := range store.Categories() {
		if len(c.byCategory[cat]) > 0 {
			cats = append(cats, cat)
		}
	}
	return cats
}

// ByCategory returns the templates for cat in file order.
func (c *Catalog) ByCategory(cat store.Category) []Template {
	return append([]Template(nil), c.byCategory[cat]...)
}

// All returns every template grouped by category in display order.
func (c *Catalog) All() []Template {
	var all []Template
	for _, cat := range c.Categories() {
		all = append(all, c.byCategory[cat]...)
	}
	return all
}

// Find looks a template up by id.
func (c *Catalog) Find(id string) (Template, bool) {
	t, ok := c.byID[id]
	return t, ok
}
