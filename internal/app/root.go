package app

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/libcat/internal/analytics"
	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
	"github.com/blackwell-systems/libcat/internal/config"
	"github.com/blackwell-systems/libcat/internal/history"
	"github.com/blackwell-systems/libcat/internal/logging"
	"github.com/blackwell-systems/libcat/internal/storage"
	"github.com/blackwell-systems/libcat/internal/tui"
	"github.com/blackwell-systems/libcat/internal/util"
)

var (
	cfg    *config.Config
	logger = zap.NewNop()
	svc    *circulation.Service

	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string
	flagLogLevel      string
)

// commands that run without opening the data files
var noServiceCmds = map[string]bool{
	"init":       true,
	"version":    true,
	"completion": true,
	"help":       true,
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "libcat",
		Short: "Manage a personal library catalog",
		Long: `libcat keeps a catalog of your books in a JSON file, tracks which
books are checked out, and reports statistics about the collection.

Run 'libcat' with no arguments to launch the interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tui.ShouldUseTUI(cmd) {
				return runHub(cmd)
			}
			if flagNoInteractive {
				return cmd.Help()
			}
			return runREPL(cmd)
		},
	}

	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/libcat/config.yml)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		if flagConfig != "" {
			if err := os.Setenv(config.EnvPrefix+"_CONFIG", flagConfig); err != nil {
				return err
			}
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagLogLevel != "" {
			cfg.Log.Level = flagLogLevel
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format, cfg.LogPath())
		if err != nil {
			return fmt.Errorf("setting up logging: %w", err)
		}

		if noServiceCmds[cmd.Name()] {
			return nil
		}
		svc, err = openService(cfg, logger)
		return err
	}

	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	}

	root.AddCommand(
		newInitCmd(),
		newListCmd(),
		newAddCmd(),
		newFindCmd(),
		newDeleteCmd(),
		newUpdateCmd(),
		newInfoCmd(),
		newCheckoutCmd(),
		newCheckinCmd(),
		newHistoryCmd(),
		newStatsCmd(),
		newChartCmd(),
		newExportCmd(),
		newREPLCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// openService builds the stores named by c and the service over them. The
// books file is created empty if it does not exist yet.
func openService(c *config.Config, log *zap.Logger) (*circulation.Service, error) {
	opts := []storage.Option{storage.WithAtomicWrites(c.Storage.AtomicWrites)}

	books := catalog.NewFileStore(c.BooksPath(), log, opts...)
	if err := books.Ensure(); err != nil {
		return nil, fmt.Errorf("preparing books file: %w", err)
	}

	svcOpts := []circulation.Option{circulation.WithLogger(log)}
	if c.Storage.HistoryEnabled {
		hist := history.NewFileStore(c.HistoryPath(), log, opts...)
		svcOpts = append(svcOpts, circulation.WithHistory(hist))
	}
	log.Debug("opened catalog",
		zap.String("books", c.BooksPath()),
		zap.Bool("history", c.Storage.HistoryEnabled),
		zap.String("history_path", c.HistoryPath()))
	return circulation.New(books, svcOpts...), nil
}

func analyticsParams() analytics.Params {
	p := analytics.DefaultParams()
	if cfg == nil {
		return p
	}
	p.MinRatings = cfg.Analytics.MinRatings
	p.TopLimit = cfg.Analytics.TopLimit
	p.BayesM = cfg.Analytics.BayesM
	p.MinBooksPerGenre = cfg.Analytics.MinBooksPerGenre
	return p
}
