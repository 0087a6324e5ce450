package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omrilahav/cursor-for-designers/internal/catalog"
	"github.com/omrilahav/cursor-for-designers/internal/config"
	"github.com/omrilahav/cursor-for-designers/internal/logging"
	"github.com/omrilahav/cursor-for-designers/internal/progress"
	"github.com/omrilahav/cursor-for-designers/internal/store"
)

// env carries what the root command resolves for its subcommands.
type env struct {
	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "cfd",
		Short: "Lesson progress and achievements for Cursor for Designers",
		Long: "cfd tracks which Cursor for Designers lessons you have finished, " +
			"awards points and levels, and unlocks achievements.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = e.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, e)
		},
	}

	pf := root.PersistentFlags()
	pf.String("db", "", "SQLite file, or data directory for the file backend (overrides CFD_DB)")
	pf.String("backend", "", "Storage backend: sqlite, file, memory or redis (overrides CFD_BACKEND)")
	pf.String("catalog", "", "YAML catalog replacing the built-in one (overrides CFD_CATALOG)")
	pf.String("log-level", "", "Log level: debug, info, warn or error (overrides CFD_LOG_LEVEL)")

	root.AddCommand(
		newDashboardCmd(e),
		newCompleteCmd(e),
		newStatsCmd(e),
		newAchievementsCmd(e),
		newRecentCmd(e),
		newResetCmd(e),
		newCatalogCmd(e),
		newVersionCmd(),
	)
	return root
}

// Execute runs the cfd command line.
func Execute() error {
	return newRootCmd().Execute()
}

// setup reads the environment, applies flag overrides and builds the logger.
func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	override("db", &cfg.DB)
	override("backend", &cfg.Backend)
	override("catalog", &cfg.Catalog)
	override("log-level", &cfg.LogLevel)
	cfg.Backend = strings.ToLower(cfg.Backend)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.logger = logger
	return nil
}

// loadCatalog returns the configured catalog, or the built-in one.
func (e *env) loadCatalog() (*catalog.Catalog, error) {
	if e.cfg.Catalog == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(e.cfg.Catalog)
}

// openBlobs opens the configured storage backend.
func (e *env) openBlobs(ctx context.Context) (store.BlobStore, error) {
	switch e.cfg.Backend {
	case config.BackendMemory:
		return store.NewMemoryBlobs(), nil
	case config.BackendRedis:
		return store.DialRedis(ctx, e.cfg.RedisAddr, e.cfg.RedisPrefix)
	}

	path, err := e.cfg.DBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve data path: %w", err)
	}
	if e.cfg.Backend == config.BackendFile {
		return store.NewFileBlobs(path)
	}
	return store.OpenSQLiteBlobs(path, e.cfg.KeepRevisions)
}

// openTracker wires the catalog and storage into a tracker. The caller
// must Close it.
func (e *env) openTracker(ctx context.Context) (*progress.Tracker, error) {
	cat, err := e.loadCatalog()
	if err != nil {
		return nil, err
	}
	for _, w := range cat.Warnings {
		e.logger.Warn("achievement can never unlock",
			zap.String("achievement", w.AchievementID),
			zap.String("reason", w.Reason),
		)
	}

	blobs, err := e.openBlobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", e.cfg.Backend, err)
	}

	retry := store.DefaultRetryConfig()
	retry.MaxAttempts = e.cfg.SaveAttempts
	adapter := store.NewAdapter(blobs,
		store.WithKey(e.cfg.StorageKey),
		store.WithLogger(e.logger.With(zap.String("backend", e.cfg.Backend))),
		store.WithRetry(retry),
	)

	var persist progress.Persistence = adapter
	if e.cfg.AsyncSave {
		persist = store.NewAsyncSaver(adapter)
	}
	return progress.Open(ctx, cat, persist, progress.WithLogger(e.logger)), nil
}
