package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sketchflow/internal/autosave"
	"sketchflow/internal/config"
	"sketchflow/internal/editor"
	"sketchflow/internal/export"
	"sketchflow/internal/interaction"
	"sketchflow/internal/logger"
	"sketchflow/internal/storage"
)

var (
	configPath    string
	logLevel      string
	storageDriver string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sketchflow",
		Short:         "Draw flowcharts and diagrams in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.sketchflow.toml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&storageDriver, "storage", "", "storage driver: bolt, sqlite, redis, memory")

	cmd.AddCommand(listCmd(), exportCmd(), deleteCmd(), renameCmd())
	return cmd
}

// app is everything one run of the editor or a subcommand works against.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	kv    storage.KV
	store *editor.Store
	saves *autosave.Manager

	logFile io.Closer
}

// openApp loads the config, opens the log and the storage backend and
// restores the last session into a fresh element store.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if storageDriver != "" {
		cfg.StorageDriver = storageDriver
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log, logFile, err := logger.Open(cfg.LogPath(), logger.Config{
		Level:      cfg.LogLevel,
		WithCaller: cfg.LogCaller,
	})
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(ctx, storage.Options{
		Driver:    cfg.StorageDriver,
		Dir:       cfg.SavePath(""),
		RedisAddr: cfg.RedisAddr,
	})
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}

	store := editor.New(
		editor.WithHistoryLimit(cfg.HistoryLimit),
		editor.WithLogger(log),
	)
	saves := autosave.New(kv, store,
		autosave.WithPrefix(cfg.KeyPrefix),
		autosave.WithLogger(log),
	)
	saves.Restore(ctx)

	log.Info().Str("storage", cfg.StorageDriver).Str("dir", cfg.SaveDirectory).Msg("session opened")
	return &app{cfg: cfg, log: log, kv: kv, store: store, saves: saves, logFile: logFile}, nil
}

func (a *app) Close() error {
	err := a.kv.Close()
	if err != nil {
		a.log.Error().Err(err).Msg("close storage")
	}
	a.logFile.Close()
	return err
}

func runEditor(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := interaction.New(a.store,
		interaction.WithHandleTolerance(export.CellWidth, export.CellHeight),
		interaction.WithHitTolerance(export.CellWidth/2),
		interaction.WithLogger(a.log),
	)
	p := tea.NewProgram(
		newModel(ctx, a, ctrl),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}
