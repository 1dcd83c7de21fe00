package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stefanpenner/tandem/pkg/basket"
	"github.com/stefanpenner/tandem/pkg/store"
	gitsync "github.com/stefanpenner/tandem/pkg/sync"
)

// gitTimeout bounds init and sync.
const gitTimeout = 2 * time.Minute

// exportToConfigured is the --export value meaning "use roadmap.dir".
const exportToConfigured = "auto"

// goalFlags are shared by add, analyze and update.
type goalFlags struct {
	title       string
	category    string
	cost        float64
	duration    string
	description string
	tasks       []string
	status      string
	template    string
	interactive bool
}

func (f *goalFlags) register(cmd *cobra.Command, withTemplate bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.category, "category", "", "goal category (wedding, home, business, financial, travel, ...)")
	fs.Float64Var(&f.cost, "cost", 0, "estimated cost")
	fs.StringVar(&f.duration, "duration", "", `rough duration, e.g. "6 months"`)
	fs.StringVar(&f.description, "description", "", "free-form notes")
	fs.StringArrayVar(&f.tasks, "task", nil, "task to carry with the goal (repeatable)")
	if withTemplate {
		fs.StringVarP(&f.template, "template", "t", "", "start from a catalog template (see 'tandem templates')")
		fs.BoolVarP(&f.interactive, "interactive", "i", false, "fill the goal in with a form")
	}
}

// goalInput builds goal input from a template and/or flags. Flags given
// explicitly override the template.
func (a *app) goalInput(cmd *cobra.Command, args []string, f *goalFlags) (store.GoalInput, error) {
	if f.interactive {
		return promptGoal(a.catalog)
	}

	var in store.GoalInput
	switch {
	case f.template != "":
		tmpl, ok := a.catalog.Find(f.template)
		if !ok {
			return in, fmt.Errorf("unknown template %q (see 'tandem templates')", f.template)
		}
		in = tmpl.Input()
		if len(args) > 0 {
			in.Title = args[0]
		}
	case len(args) > 0:
		in.Title = args[0]
		in.Source = string(store.SourceCustom)
	default:
		return in, errors.New("a goal title, --template or --interactive is required")
	}

	fs := cmd.Flags()
	if fs.Changed("category") {
		in.Category = f.category
	}
	if fs.Changed("cost") {
		in.EstimatedCost = &f.cost
	}
	if fs.Changed("duration") {
		in.Duration = f.duration
	}
	if fs.Changed("description") {
		in.Description = f.description
	}
	if fs.Changed("task") {
		in.Tasks = tasksFrom(f.tasks)
	}
	return in, nil
}

func (a *app) addCmd() *cobra.Command {
	var f goalFlags
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a goal to the basket",
		Example: `  tandem add "Buy a house" --category home --cost 60000 --duration "18 months"
  tandem add --template financial-emergency
  tandem add -i`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.goalInput(cmd, args, &f)
			if err != nil {
				return err
			}
			res := a.basket.AddGoal(in)
			if !res.Success {
				return res.Err
			}
			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			printFit(cmd.OutOrStdout(), "Added", res)
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func (a *app) analyzeCmd() *cobra.Command {
	var f goalFlags
	cmd := &cobra.Command{
		Use:   "analyze [title]",
		Short: "Show how a goal would fit without adding it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.goalInput(cmd, args, &f)
			if err != nil {
				return err
			}
			res := a.basket.Preview(in)
			if !res.Success {
				return res.Err
			}
			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			printFit(cmd.OutOrStdout(), "Would add", res)
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a goal from the basket",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.basket.RemoveGoal(args[0])
			if !res.Success {
				return res.Err
			}
			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s\n", res.Goal.Title)
			return nil
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	var f goalFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a goal",
		Example: `  tandem update 3f2a... --status in-progress
  tandem update 3f2a... --cost 12000 --duration "8 months"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := patchFrom(cmd, &f)
			if patch.IsEmpty() {
				return errors.New("nothing to update; pass at least one field flag")
			}
			res := a.basket.UpdateGoal(args[0], patch)
			if !res.Success {
				return res.Err
			}
			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			printFit(cmd.OutOrStdout(), "Updated", res)
			return nil
		},
	}
	f.register(cmd, false)
	cmd.Flags().StringVar(&f.title, "title", "", "new title")
	cmd.Flags().StringVar(&f.status, "status", "", "planned, in-progress or complete")
	return cmd
}

func patchFrom(cmd *cobra.Command, f *goalFlags) store.GoalPatch {
	var p store.GoalPatch
	fs := cmd.Flags()
	if fs.Changed("title") {
		p.Title = &f.title
	}
	if fs.Changed("category") {
		p.Category = &f.category
	}
	if fs.Changed("cost") {
		p.EstimatedCost = &f.cost
	}
	if fs.Changed("duration") {
		p.Duration = &f.duration
	}
	if fs.Changed("description") {
		p.Description = &f.description
	}
	if fs.Changed("task") {
		tasks := tasksFrom(f.tasks)
		p.Tasks = &tasks
	}
	if fs.Changed("status") {
		p.Status = &f.status
	}
	return p
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the goals in the basket",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := a.basket.State()
			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), state.Goals)
			}
			printGoals(cmd.OutOrStdout(), state)
			return nil
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Budget, timeline, risks and suggested order for the basket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := a.basket.State()
			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), state)
			}
			printStats(cmd.OutOrStdout(), state)
			return nil
		},
	}
}

func (a *app) roadmapCmd() *cobra.Command {
	var export string
	var show bool
	cmd := &cobra.Command{
		Use:   "roadmap",
		Short: "Turn the basket into ordered milestones",
		Example: `  tandem roadmap
  tandem roadmap --export            # write to roadmap.dir
  tandem roadmap --export ./plans
  tandem roadmap --show              # read back the last export`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if show {
				return a.showRoadmap(cmd, export)
			}

			res := a.basket.CreateRoadmap()
			if !res.Success {
				return res.Err
			}

			var written []string
			if export != "" {
				dir := export
				if dir == exportToConfigured {
					dir = a.cfg.RoadmapDir()
				}
				var err error
				written, err = store.ExportRoadmap(dir, res.Milestones)
				if err != nil {
					return err
				}
				a.log.Info("roadmap exported", zap.String("dir", dir), zap.Int("files", len(written)))
			}

			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), struct {
					basket.RoadmapResult
					Files []string `json:"files,omitempty"`
				}{res, written})
			}
			printRoadmap(cmd.OutOrStdout(), res.Milestones)
			if len(written) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %d files, index at %s\n", len(written), written[len(written)-1])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&export, "export", "", "write milestone markdown files to this directory")
	cmd.Flags().Lookup("export").NoOptDefVal = exportToConfigured
	cmd.Flags().BoolVar(&show, "show", false, "print the exported roadmap (from --export or roadmap.dir) instead of building one")
	return cmd
}

// showRoadmap prints the milestones of an earlier export.
func (a *app) showRoadmap(cmd *cobra.Command, dir string) error {
	if dir == "" || dir == exportToConfigured {
		dir = a.cfg.RoadmapDir()
	}
	milestones, err := store.LoadRoadmap(dir)
	if err != nil {
		return err
	}
	if a.jsonOut {
		if milestones == nil {
			milestones = []store.Milestone{}
		}
		return outputJSON(cmd.OutOrStdout(), milestones)
	}
	if len(milestones) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No exported roadmap in %s. Run 'tandem roadmap --export' first.\n", dir)
		return nil
	}
	printRoadmap(cmd.OutOrStdout(), milestones)
	return nil
}

func (a *app) templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates [category]",
		Short: "Browse the goal template catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpls := a.catalog.All()
			if len(args) == 1 {
				cat, verr := store.ParseCategory(args[0])
				if verr != nil {
					return verr
				}
				tmpls = a.catalog.ByCategory(cat)
			}
			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), tmpls)
			}
			printTemplates(cmd.OutOrStdout(), tmpls)
			return nil
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every goal from the basket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := confirm(fmt.Sprintf("Remove all %d goals?", a.basket.Len()))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			res := a.basket.Clear()
			if !res.Success {
				return res.Err
			}
			if a.jsonOut {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Basket cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "don't ask for confirmation")
	return cmd
}

func (a *app) initCmd() *cobra.Command {
	var remote string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Make the data directory a git repository for sharing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), gitTimeout)
			defer cancel()
			if err := gitsync.InitRepo(ctx, a.dir, remote, a.log.Named("sync")); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", a.dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "git remote to share the basket through")
	return cmd
}

func (a *app) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Commit, pull and push the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), gitTimeout)
			defer cancel()
			if err := gitsync.SyncRepo(ctx, a.dir, a.log.Named("sync")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Synced")
			return nil
		},
	}
}

func tasksFrom(titles []string) []store.Task {
	tasks := make([]store.Task, 0, len(titles))
	for _, t := range titles {
		tasks = append(tasks, store.Task{Title: t})
	}
	return tasks
}
