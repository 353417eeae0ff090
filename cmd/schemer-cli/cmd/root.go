package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"schemer/internal/adapters/stores"
	"schemer/internal/config"
	"schemer/internal/ports"
)

var (
	configPath string
	storePath  string
	backend    string

	cfg        *config.Config
	repo       ports.DiagramStore
	logger     *slog.Logger
	closeStore = func() error { return nil }
	closeLog   = func() error { return nil }
)

// Output colours
var (
	brand  = color.New(color.FgHiGreen, color.Bold)
	subtle = color.New(color.FgHiBlack)
	info   = color.New(color.FgCyan)
	warn   = color.New(color.FgYellow)
)

var rootCmd = &cobra.Command{
	Use:   "schemer-cli",
	Short: "CLI for editing entity-relationship diagrams",
	Long: `schemer-cli reads and edits the entity-relationship diagram that the
schemer terminal editor works on.

Entities are addressed by numeric id or by title, links by "#<number>",
by id, or by their "From -> To" label.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		err := closeStore()
		closeLog()
		return err
	},
}

func setup() error {
	var err error
	cfg, err = config.LoadFile(configPath)
	if err != nil {
		return err
	}
	if backend != "" {
		cfg.Store.Backend = backend
	}
	if storePath != "" {
		if cfg.Store.Backend == config.BackendRemote {
			cfg.Store.URL = storePath
		} else {
			cfg.Store.Path = storePath
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err = cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	repo, closeStore, err = stores.Open(cfg.Store)
	return err
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.Path(), "path to the config file")
	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "", "diagram path (or URL for the remote backend)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "store backend: file, sqlite or remote")
}

// GetRepo returns the initialized repository
func GetRepo() ports.DiagramStore {
	return repo
}

// GetHistory returns the snapshot history of the configured store
func GetHistory() (ports.SnapshotHistory, error) {
	h, ok := stores.History(repo)
	if !ok {
		return nil, fmt.Errorf("the %s backend keeps no history (use --backend sqlite)", cfg.Store.Backend)
	}
	return h, nil
}
