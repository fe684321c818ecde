package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gofrs/flock"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/sebastiantruijens/movie-tui/internal/config"
	"github.com/sebastiantruijens/movie-tui/internal/logging"
	"github.com/sebastiantruijens/movie-tui/internal/movies"
	"github.com/sebastiantruijens/movie-tui/internal/popular"
	"github.com/sebastiantruijens/movie-tui/internal/store"
	"github.com/sebastiantruijens/movie-tui/internal/ui"
)

// ErrAlreadyRunning is returned when another instance holds the database lock.
var ErrAlreadyRunning = errors.New("another movie-tui instance is already running")

func newApp() *cli.Command {
	return &cli.Command{
		Name:   "movie-tui",
		Usage:  "Search movies from the terminal",
		Writer: os.Stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the config file",
				Value:   config.DefaultPath(),
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "movie provider (tmdb or rottentomatoes)",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "quiet period before a search is sent",
			},
			&cli.StringFlag{
				Name:  "database",
				Usage: "path to the search-count database",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug logging",
			},
		},
		Action: runSearch,
		Commands: []*cli.Command{
			{
				Name:  "trending",
				Usage: "print the most searched terms",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "number of terms to print",
						Value:   5,
					},
				},
				Action: runTrending,
			},
			{
				Name:  "init",
				Usage: "write a default config file",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := cmd.String("config")
					if _, err := os.Stat(path); err == nil {
						return NewExitError(ExitConfigError, "config already exists at "+path, nil)
					}
					if err := config.Default().Save(path); err != nil {
						return NewExitError(ExitConfigError, "failed to write config", err)
					}
					fmt.Fprintf(cmd.Root().Writer, "Wrote %s\n", path)
					return nil
				},
			},
		},
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, NewExitError(ExitConfigError, "failed to load config", err)
	}

	if cmd.IsSet("provider") {
		cfg.Provider = config.NormalizeProvider(cmd.String("provider"))
	}
	if cmd.IsSet("debounce") {
		cfg.Debounce = config.Duration{Duration: cmd.Duration("debounce")}
	}
	if cmd.IsSet("database") {
		cfg.Database = cmd.String("database")
	}

	return cfg, nil
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return NewExitError(ExitConfigError, "invalid config", err)
	}

	logger, err := logging.New(cfg.LogFile, cmd.Bool("verbose"))
	if err != nil {
		return NewExitError(ExitConfigError, "failed to open log file", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := movies.NewClient(cfg)
	if err != nil {
		return NewExitError(ExitConfigError, "failed to create movie client", err)
	}

	// One writer per search-count database
	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
		return NewExitError(ExitStoreError, "failed to create data directory", err)
	}
	lock := flock.New(cfg.Database + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return NewExitError(ExitStoreError, "failed to acquire database lock", err)
	}
	if !locked {
		return NewExitError(ExitGeneralError, ErrAlreadyRunning.Error(), nil)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			logger.Warn("Failed to release database lock", zap.Error(unlockErr))
		}
	}()

	db, err := store.Open(cfg.Database)
	if err != nil {
		return NewExitError(ExitStoreError, "failed to open search-count database", err)
	}
	defer db.Close()

	logger.Info("Starting movie search",
		zap.String("provider", cfg.Provider),
		zap.Duration("debounce", cfg.Debounce.Duration),
		zap.String("database", db.Path()))

	model := ui.NewModel(ctx, ui.Options{
		Client:   client,
		Recorder: popular.NewRecorder(db, logger, cfg.RequestTimeout.Duration),
		Debounce: cfg.Debounce.Duration,
		Logger:   logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("Error running program", zap.Error(err))
		return fmt.Errorf("error running program: %w", err)
	}

	logger.Info("UI exited normally")
	return nil
}

func runTrending(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Database)
	if err != nil {
		return NewExitError(ExitStoreError, "failed to open search-count database", err)
	}
	defer db.Close()

	metrics, err := db.TrendingSearches(ctx, cmd.Int("limit"))
	if err != nil {
		return NewExitError(ExitStoreError, "failed to read trending searches", err)
	}

	return printTrending(cmd.Root().Writer, metrics)
}

func printTrending(w io.Writer, metrics []store.SearchMetric) error {
	if len(metrics) == 0 {
		_, err := fmt.Fprintln(w, "No searches recorded yet")
		return err
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "SEARCH", "COUNT", "TOP RESULT")
	for i, m := range metrics {
		t.Row(strconv.Itoa(i+1), m.SearchTerm, strconv.Itoa(m.Count), m.Title)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
