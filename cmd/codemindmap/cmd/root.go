package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codemindmap/internal/adapters/filesystem"
	"codemindmap/internal/adapters/sqlite"
	"codemindmap/internal/config"
	"codemindmap/internal/ports"
)

var (
	homeFlag     string
	configFlag   string
	logLevelFlag string

	appDataRoot string
	cfg         config.Config
	logger      *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "codemindmap",
	Short: "Mind maps whose nodes link to code",
	Long: `codemindmap hosts a mind-map panel whose nodes can be linked to
snippets of source code. Following a link finds the snippet even after
the file has been edited around it.

The panel itself talks to this process over stdin/stdout; editor
integrations use "codemindmap link" to add the current selection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return setup()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "app-data directory (default: $CODEMINDMAP_HOME, $XDG_DATA_HOME/codemindmap or ~/.local/share/codemindmap)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default: <home>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn or error")
}

func setup() error {
	appDataRoot = homeFlag
	if appDataRoot == "" {
		root, err := config.AppDataRoot()
		if err != nil {
			return err
		}
		appDataRoot = root
	}

	path := configFlag
	if path == "" {
		path = filepath.Join(appDataRoot, config.FileName)
	}
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logger.Debug("configured", "home", appDataRoot, "config", path, "settings_backend", cfg.SettingsBackend)
	return nil
}

func openSettings() (ports.SettingsStore, error) {
	if cfg.SettingsBackend == config.BackendFile {
		return filesystem.NewSettingsFile(appDataRoot), nil
	}
	store, err := sqlite.Open(appDataRoot)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	logger.Debug("settings database opened", "path", store.Path(), "schema", store.SchemaVersion())
	return store, nil
}
