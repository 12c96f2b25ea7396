// Command gallerywall shows the images of a folder as an animated photo wall.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gallerywall/internal/config"
	"gallerywall/internal/settings"
	"gallerywall/internal/ui"
)

type flags struct {
	folder     string
	rows       int
	columns    int
	configPath string
	dbPath     string
	verbose    bool
	fullScreen bool
	noSave     bool
}

// RunFunc starts the window. Tests replace it.
type RunFunc func(ctx context.Context, opts ui.Options) error

// NewRootCmd builds the command; run is called with the resolved options.
func NewRootCmd(run RunFunc) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "gallerywall [folder]",
		Short: "Gallery Wall - an animated grid of the newest images in a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if cmd.Flags().Changed("folder") {
					return fmt.Errorf("folder given both as argument and --folder")
				}
				f.folder = args[0]
				cmd.Flags().Lookup("folder").Changed = true
			}
			if f.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}

			store, err := settings.Open(f.dbPath, logrus.StandardLogger())
			if err != nil {
				return err
			}
			defer store.Close()

			cfg, err := buildConfig(cmd, f, store)
			if err != nil {
				return err
			}
			opts := ui.Options{Config: cfg, Logger: logrus.StandardLogger(), FullScreen: f.fullScreen}
			if !f.noSave {
				opts.Store = store
			}
			return run(cmd.Context(), opts)
		},
	}

	defaults := config.Default()
	cmd.Flags().StringVar(&f.folder, "folder", "", "Folder to watch for images")
	cmd.Flags().IntVarP(&f.rows, "rows", "r", defaults.Rows, "Number of grid rows (1-15)")
	cmd.Flags().IntVarP(&f.columns, "columns", "c", defaults.Columns, "Number of grid columns (1-15)")
	cmd.Flags().StringVar(&f.configPath, "config", "", "YAML file with gallery parameters")
	cmd.Flags().StringVar(&f.dbPath, "dbpath", "", "Directory of the settings database")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().BoolVar(&f.fullScreen, "fullscreen", false, "Start in fullscreen")
	cmd.Flags().BoolVar(&f.noSave, "no-save", false, "Do not persist parameters on exit")
	return cmd
}

// buildConfig layers, lowest first: defaults, saved settings, the YAML file, explicit flags.
func buildConfig(cmd *cobra.Command, f flags, store *settings.Store) (config.Config, error) {
	cfg, ok, err := store.Load(config.Default())
	if err != nil {
		return cfg, err
	}
	if ok {
		logrus.WithField("path", store.Path()).Debug("loaded saved settings")
	}
	if f.configPath != "" {
		if cfg, err = config.Load(f.configPath, cfg); err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("folder") {
		cfg.Folder = f.folder
	}
	if cmd.Flags().Changed("rows") {
		cfg.Rows = f.rows
	}
	if cmd.Flags().Changed("columns") {
		cfg.Columns = f.columns
	}
	if err := config.Validate(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Folder == "" {
		wd, err := os.Getwd()
		if err != nil {
			return cfg, err
		}
		cfg.Folder = wd
	}
	return cfg, nil
}

func main() {
	// Route logs to stderr to keep stdout clean.
	logrus.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(ui.Run).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
