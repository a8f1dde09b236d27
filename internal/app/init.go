package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/config"
	"github.com/blackwell-systems/libcat/internal/storage"
	"github.com/blackwell-systems/libcat/internal/util"
)

func newInitCmd() *cobra.Command {
	var (
		dataDir string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the data directory, an empty catalog, and a config file",
		Long: `Create the data directory and an empty books file, then write the
current settings to the config file.

Existing books and history files are never touched. An existing config
file is kept unless --force is given.`,
		Example: `  # Use the default data directory (~/.local/share/libcat)
  libcat init

  # Keep the catalog somewhere else
  libcat init --data-dir ~/Documents/library`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd)
			if dataDir != "" {
				cfg.Storage.DataDir = util.ExpandHome(dataDir)
			}

			if err := util.EnsureDir(cfg.Storage.DataDir); err != nil {
				return fmt.Errorf("creating data directory: %w", err)
			}
			p.ok("Data directory %s", cfg.Storage.DataDir)

			existed := util.FileExists(cfg.BooksPath())
			books := catalog.NewFileStore(cfg.BooksPath(), logger, storage.WithAtomicWrites(cfg.Storage.AtomicWrites))
			if err := books.Ensure(); err != nil {
				return err
			}
			if existed {
				p.ok("Books file %s (kept)", books.Path())
			} else {
				p.ok("Books file %s (created)", books.Path())
			}

			path := config.DefaultPath()
			if util.FileExists(path) && !force {
				p.warn("Config %s already exists; use --force to overwrite", path)
				return nil
			}
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			p.ok("Config written to %s", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory for the books and history files")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
