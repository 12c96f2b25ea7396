package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gallerywall/internal/config"
	"gallerywall/internal/decode"
	"gallerywall/internal/scan"
	"gallerywall/internal/settings"
)

var (
	dbPathFlag    string
	verboseFlag   bool
	recursiveFlag bool
	extFlag       []string
	maxSizeFlag   int
	store         *settings.Store
)

// NewRootCmd creates the root command for the CLI application.
// openStore opens the settings database; tests pass one rooted in a temp dir.
func NewRootCmd(openStore func(dbPath string) (*settings.Store, error)) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "gallerywall-cli",
		Short: "Gallery Wall CLI - inspect folders and manage saved parameters",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setLogLevel()
		},
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the parameters saved by the gallery",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setLogLevel()
			var err error
			store, err = openStore(dbPathFlag)
			if err != nil {
				return fmt.Errorf("failed to open settings: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if store != nil {
				store.Close()
				store = nil
			}
		},
	}
	rootCmd.AddCommand(settingsCmd)

	// Show settings
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print every parameter; saved values replace the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ok, err := store.Load(config.Default())
			if err != nil {
				return err
			}
			if !ok {
				cmd.Println("No saved settings, showing defaults.")
			}
			fields, err := config.Fields(cfg)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, f := range fields {
				fmt.Fprintf(w, "%s\t%s\n", f.Key, f.Value)
			}
			return w.Flush()
		},
	}
	settingsCmd.AddCommand(showCmd)

	// Set one setting
	setCmd := &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Change one saved parameter",
		Long:  "Change one saved parameter. The value is parsed as YAML, e.g. 2.5s for durations or [.png,.jpg] for lists.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := store.Load(config.Default())
			if err != nil {
				return err
			}
			cfg, err = config.Set(cfg, args[0], args[1])
			if err != nil {
				return err
			}
			if err := store.Save(cfg); err != nil {
				return err
			}
			cmd.Printf("%s updated.\n", args[0])
			return nil
		},
	}
	settingsCmd.AddCommand(setCmd)

	// Reset settings
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget the saved parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.Reset(); err != nil {
				return err
			}
			cmd.Println("Settings reset to defaults.")
			return nil
		},
	}
	settingsCmd.AddCommand(resetCmd)

	// Scan a folder
	scanCmd := &cobra.Command{
		Use:   "scan [directory]",
		Short: "List the images the gallery would load, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			items, err := scan.List(dir, scan.Options{Extensions: extFlag, Recursive: recursiveFlag})
			if err != nil {
				return err
			}
			if len(items) == 0 {
				cmd.Printf("No images found in %s.\n", dir)
				return nil
			}
			for _, it := range items {
				cmd.Printf("%s  %8d  %s\n", it.Info.ModTime().Format("2006-01-02 15:04:05"), it.Info.Size(), it.Path)
			}
			cmd.Printf("%d images\n", len(items))
			return nil
		},
	}
	scanCmd.Flags().BoolVarP(&recursiveFlag, "recursive", "R", false, "Include subdirectories")
	scanCmd.Flags().StringSliceVar(&extFlag, "ext", scan.DefaultExtensions, "Image extensions to include")
	rootCmd.AddCommand(scanCmd)

	// Probe one file
	probeCmd := &cobra.Command{
		Use:   "probe [image]",
		Short: "Decode an image the way the gallery does and print what it found",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, info, err := decode.NewDecoder(maxSizeFlag).DecodeFile(args[0])
			if err != nil {
				return err
			}
			cmd.Printf("Format:      %s\n", info.Format)
			cmd.Printf("Size:        %d bytes\n", info.Size)
			cmd.Printf("Modified:    %s\n", info.ModTime.Format("2006-01-02 15:04:05"))
			cmd.Printf("Dimensions:  %dx%d\n", info.Width, info.Height)
			cmd.Printf("Orientation: %d\n", info.Orientation)
			if len(info.EXIFData) > 0 {
				keys := make([]string, 0, len(info.EXIFData))
				for k := range info.EXIFData {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				cmd.Println("EXIF:")
				for _, k := range keys {
					cmd.Printf("  %s: %s\n", k, strings.TrimSpace(info.EXIFData[k]))
				}
			}
			return nil
		},
	}
	probeCmd.Flags().IntVar(&maxSizeFlag, "max-size", config.Default().MaxTextureSize, "Downscale limit in pixels, 0 for none")
	rootCmd.AddCommand(probeCmd)

	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "dbpath", "", "Directory of the settings database")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	return rootCmd
}

func setLogLevel() {
	if verboseFlag {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func main() {
	logrus.SetOutput(os.Stderr)
	rootCmd := NewRootCmd(func(dbPath string) (*settings.Store, error) {
		return settings.Open(dbPath, logrus.StandardLogger())
	})
	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
