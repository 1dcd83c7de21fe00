package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/stefanpenner/tandem/pkg/basket"
	"github.com/stefanpenner/tandem/pkg/catalog"
	"github.com/stefanpenner/tandem/pkg/config"
	"github.com/stefanpenner/tandem/pkg/store"
	"github.com/stefanpenner/tandem/pkg/tui"
)

// logFileName lives in the data directory and is kept out of git by init.
const logFileName = "tandem.log"

func main() {
	a := newApp()
	if err := a.execute(a.rootCmd()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every command once PersistentPreRunE has run.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	log     *zap.Logger
	kv      store.KV
	basket  *basket.Basket
	catalog *catalog.Catalog
	dir     string

	// Global flags
	cfgFile string
	dataDir string
	jsonOut bool
	verbose bool
}

func newApp() *app {
	return &app{v: viper.New()}
}

// execute runs root and then releases storage and flushes the log. Cobra
// skips post-run hooks when a command fails, so this happens here instead.
func (a *app) execute(root *cobra.Command) error {
	defer a.close()
	return root.Execute()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tandem",
		Short: "Plan shared life goals as a couple",
		Long: `tandem keeps a basket of shared goals, checks how each new goal fits the
rest (timeline overlap, budget pressure, natural synergies), suggests an order
and exports the result as a markdown roadmap.

Run without arguments to browse the basket in the terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/tandem/config.yaml)")
	pf.StringVar(&a.dataDir, "dir", "", "data directory (default: $TANDEM_DIR or the OS data directory)")
	pf.BoolVar(&a.jsonOut, "json", false, "print JSON instead of text")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging, also written to stderr")

	root.AddCommand(
		a.addCmd(),
		a.removeCmd(),
		a.updateCmd(),
		a.listCmd(),
		a.statsCmd(),
		a.analyzeCmd(),
		a.roadmapCmd(),
		a.templatesCmd(),
		a.clearCmd(),
		a.initCmd(),
		a.syncCmd(),
	)
	return root
}

// setup loads config, builds the logger and opens the basket.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}
	if a.dataDir != "" {
		a.v.Set("data_dir", a.dataDir)
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.dir = cfg.ResolvedDataDir()

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// The TUI owns the terminal, so it never logs to stderr.
	toStderr := a.verbose && cmd != cmd.Root()
	log, err := newLogger(cfg.Logging, a.verbose, filepath.Join(a.dir, logFileName), toStderr)
	if err != nil {
		return err
	}
	a.log = log
	a.log.Debug("starting",
		zap.String("command", cmd.Name()),
		zap.String("data_dir", a.dir),
		zap.String("backend", cfg.Storage.Backend),
		zap.String("config", a.v.ConfigFileUsed()))

	kv, err := store.Open(cfg.Storage.Backend, a.dir)
	if err != nil {
		return err
	}
	a.kv = kv

	a.basket = basket.New(kv,
		basket.WithLogger(a.log.Named("basket")),
		basket.WithKey(cfg.Storage.Key))
	if err := a.basket.Load(); err != nil {
		return err
	}

	a.catalog, err = catalog.Default()
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	return nil
}

func (a *app) close() {
	if c, ok := a.kv.(io.Closer); ok {
		if err := c.Close(); err != nil && a.log != nil {
			a.log.Warn("closing storage", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func (a *app) runTUI() error {
	m := tui.NewModel(tui.Options{
		Basket:     a.basket,
		Catalog:    a.catalog,
		DataDir:    a.dir,
		RoadmapDir: a.cfg.RoadmapDir(),
		Logger:     a.log.Named("tui"),
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())

	if fkv, ok := a.kv.(*store.FileKV); ok && a.cfg.TUI.Watch {
		stop, err := tui.StartWatcher(fkv, a.cfg.Storage.Key, p.Send, a.log.Named("watcher"))
		if err != nil {
			a.log.Warn("file watcher failed", zap.Error(err))
		} else {
			defer stop()
		}
	}

	_, err := p.Run()
	return err
}
