package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/stefanpenner/tandem/pkg/analysis"
	"github.com/stefanpenner/tandem/pkg/catalog"
	"github.com/stefanpenner/tandem/pkg/store"
)

// customChoice is the picker value for "no template".
const customChoice = ""

// promptGoal asks for a template or the fields of a custom goal.
func promptGoal(cat *catalog.Catalog) (store.GoalInput, error) {
	opts := []huh.Option[string]{huh.NewOption("Custom goal", customChoice)}
	for _, t := range cat.All() {
		label := fmt.Sprintf("%-10s %s (%s)", t.Category, t.Title, analysis.FormatMoney(t.EstimatedCost))
		opts = append(opts, huh.NewOption(label, t.ID))
	}

	choice := customChoice
	pick := huh.NewSelect[string]().
		Title("Start from a template?").
		Options(opts...).
		Height(12).
		Value(&choice)
	if err := huh.NewForm(huh.NewGroup(pick)).Run(); err != nil {
		return store.GoalInput{}, fmt.Errorf("prompt failed: %w", err)
	}
	if choice != customChoice {
		tmpl, ok := cat.Find(choice)
		if !ok {
			return store.GoalInput{}, fmt.Errorf("unknown template %q", choice)
		}
		return tmpl.Input(), nil
	}

	var title, category, cost, duration, notes string
	category = string(store.CategoryCustom)

	catOpts := make([]huh.Option[string], 0, len(store.Categories()))
	for _, c := range store.Categories() {
		catOpts = append(catOpts, huh.NewOption(string(c), string(c)))
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Goal").
			Placeholder("Plan our wedding").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("title is required")
				}
				return nil
			}).
			Value(&title),
		huh.NewSelect[string]().
			Title("Category").
			Options(catOpts...).
			Value(&category),
		huh.NewInput().
			Title("Estimated cost").
			Placeholder("25000").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return nil
				}
				_, err := store.ParseCost(s)
				return err
			}).
			Value(&cost),
		huh.NewInput().
			Title("Duration").
			Placeholder("6 months").
			Value(&duration),
		huh.NewText().
			Title("Notes").
			Value(&notes),
	))
	if err := form.Run(); err != nil {
		return store.GoalInput{}, fmt.Errorf("prompt failed: %w", err)
	}

	in := store.GoalInput{
		Title:       title,
		Category:    category,
		Duration:    duration,
		Description: notes,
		Source:      string(store.SourceCustom),
	}
	if strings.TrimSpace(cost) != "" {
		c, err := store.ParseCost(cost)
		if err != nil {
			return in, err
		}
		in.EstimatedCost = &c
	}
	return in, nil
}

func confirm(msg string) (bool, error) {
	var ok bool
	c := huh.NewConfirm().
		Title(msg).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)
	if err := huh.NewForm(huh.NewGroup(c)).Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return ok, nil
}
