// Package cli wires cobra to the frontier engine's run controller:
// load the category/root-URL document and the environment secrets,
// assemble the stores, page-session factory and classifier those
// secrets call for, then drive every configured root to completion.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/rohmanhakim/frontier-crawler/internal/classifier"
	"github.com/rohmanhakim/frontier-crawler/internal/config"
	"github.com/rohmanhakim/frontier-crawler/internal/frontier"
	"github.com/rohmanhakim/frontier-crawler/internal/logging"
	"github.com/rohmanhakim/frontier-crawler/internal/pagesession"
	"github.com/rohmanhakim/frontier-crawler/internal/ratelimit"
	"github.com/rohmanhakim/frontier-crawler/internal/robots"
	"github.com/rohmanhakim/frontier-crawler/internal/runcontroller"
	"github.com/rohmanhakim/frontier-crawler/internal/runlog"
	"github.com/rohmanhakim/frontier-crawler/internal/strategy"
)

const classifierRequestsPerSecond = 2.0

var configPath string

var rootCmd = &cobra.Command{
	Use:   "crawler",
	Short: "Discovers target documents across configured categories of root URLs.",
	Long: `crawler drives a headless-browser frontier traversal over a set of
operator-configured category/root-URL documents, classifying and admitting
targets and seeds according to each root's strategy type.`,
	RunE: runCrawl,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to the category/root-url YAML document (required)")
	_ = rootCmd.MarkFlagRequired("config")
}

// Execute runs the crawler command. It is the sole entry point
// cmd/crawler's main calls.
func Execute() error {
	return rootCmd.Execute()
}

func runCrawl(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.NewDefault()

	categories, err := config.LoadCategories(configPath)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		return fmt.Errorf("load secrets: %w", err)
	}

	settings := config.DefaultEngineSettings()
	if secrets.ChromeBinaryPath != "" {
		logger.RecordWarning("cli", "using configured chrome binary", map[string]string{"path": secrets.ChromeBinaryPath})
	}

	frontierStore, runLogStore, closeStores, err := buildStores(ctx, secrets)
	if err != nil {
		return fmt.Errorf("build stores: %w", err)
	}
	defer closeStores()

	browser, err := pagesession.NewBrowser(secrets.ChromeBinaryPath, settings.UserAgent())
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	cls := buildClassifier(secrets, logger)
	limiter := ratelimit.New(settings)

	dispatcher := strategy.New(
		frontierStore,
		runLogStore,
		func() pagesession.PageSession { return browser.NewSession(settings.NavigationTimeout(), logger) },
		cls,
		limiter,
		robots.NewAlwaysAllow(),
		logger,
	)

	controller := runcontroller.New(frontierStore, runLogStore, dispatcher, logger)

	results, err := controller.Run(ctx, categories)
	for _, result := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-20s %s (targets=%d seeds=%d failed=%d)\n",
			result.Status, result.Category, result.URL, result.Stats.TargetURLs, result.Stats.SeedURLs, result.Stats.FailedURLs)
	}
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	for _, result := range results {
		if result.Status == runlog.StatusFailed {
			return ErrRootFailed
		}
	}
	return nil
}

// ErrRootFailed is returned when every root reached a terminal
// status but at least one of them finished FAILED. main distinguishes
// it from a bootstrap-level error to pick exit code 2 instead of 1,
// per the core's documented exit-code contract.
var ErrRootFailed = fmt.Errorf("at least one root finished FAILED")

// buildStores opens the postgres-backed frontier/run-log stores when
// a database DSN is configured, migrating both tables first; absent a
// DSN it falls back to the in-memory stores, useful for local
// single-process trials.
func buildStores(ctx context.Context, secrets config.Secrets) (frontier.Store, runlog.Store, func(), error) {
	if !secrets.HasDatabase() {
		return frontier.NewMemoryStore(), runlog.NewMemoryStore(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, secrets.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrate(pool); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	frontierStore := frontier.NewPostgresStore(pool)
	runLogStore := runlog.NewPostgresStore(pool)
	return frontierStore, runLogStore, pool.Close, nil
}

func migrate(pool *pgxpool.Pool) error {
	db := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer closeQuietly(db)

	if err := frontier.Migrate(db); err != nil {
		return fmt.Errorf("migrate url_frontier: %w", err)
	}
	if err := runlog.Migrate(db); err != nil {
		return fmt.Errorf("migrate config_url_logs: %w", err)
	}
	return nil
}

func closeQuietly(db *sql.DB) {
	_ = db.Close()
}

// buildClassifier returns an OpenAI-backed classifier when an API key
// is configured, otherwise NoOp, whose empty result leaves Types 3/4
// with no admissions at their AI-classified depths (their regex
// fallback runs only when the classifier returns an error).
func buildClassifier(secrets config.Secrets, logger logging.Logger) classifier.Classifier {
	if !secrets.HasClassifier() {
		return classifier.NewNoOp()
	}
	return classifier.NewOpenAI(secrets.ClassifierAPIKey, secrets.ClassifierModel, classifierRequestsPerSecond, logger.Underlying())
}
