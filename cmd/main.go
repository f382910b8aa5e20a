package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"

	"github.com/okian/msi/internal/adapters/artifact"
	"github.com/okian/msi/internal/adapters/http/api"
	"github.com/okian/msi/internal/adapters/repository"
	"github.com/okian/msi/internal/adapters/source"
	service "github.com/okian/msi/internal/app"
	"github.com/okian/msi/internal/config"
	"github.com/okian/msi/internal/domain/merge"
	"github.com/okian/msi/internal/domain/model"
	"github.com/okian/msi/internal/domain/rating"
	"github.com/okian/msi/internal/report"
	"github.com/okian/msi/pkg/logger"
	"github.com/okian/msi/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Commands.
const (
	cmdCompute  = "compute"
	cmdServe    = "serve"
	cmdRankings = "rankings"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		_, _ = io.WriteString(flag.CommandLine.Output(),
			"usage: msi [compute|serve|rankings]\n\nConfiguration comes from MSI_CONFIG (YAML) and MSI_* environment variables.\n")
	}
	flag.Parse()

	// A missing .env file is not an error.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't configured yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return exitUsage
	}
	if err := report.SetupLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	command := cmdCompute
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	switch command {
	case cmdCompute:
		err = compute(ctx, cfg, os.Stdout)
	case cmdServe:
		err = serve(ctx, cfg)
	case cmdRankings:
		err = rankings(cfg, os.Stdout)
	default:
		flag.Usage()
		return exitUsage
	}
	if err != nil {
		log.Error(ctx, command+" failed", logger.Error(err))
		if model.IsFatal(err) || config.IsInvalid(err) {
			return exitUsage
		}
		return exitFailure
	}
	return exitOK
}

// buildSources returns the configured sources. An unset path yields a nil
// source so the merge step sees it as absent.
func buildSources(cfg *config.Config) (merge.Source, merge.Source, error) {
	var opts []source.Option
	if cfg.NameMapping != "" {
		table, err := artifact.ReadNameMapping(cfg.NameMapping)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, source.WithNameMapping(table))
	}

	var broad, precise merge.Source
	if cfg.BroadSource != "" {
		s, err := source.New(merge.SourceBroad, cfg.BroadSource, cfg.BroadFormat, opts...)
		if err != nil {
			return nil, nil, err
		}
		broad = s
	}
	if cfg.PreciseSource != "" {
		s, err := source.New(merge.SourcePrecise, cfg.PreciseSource, cfg.PreciseFormat, opts...)
		if err != nil {
			return nil, nil, err
		}
		precise = s
	}
	return broad, precise, nil
}

// engineConfig prefers the engine_config file over the inline keys.
func engineConfig(cfg *config.Config) (rating.Config, error) {
	if cfg.EngineConfig != "" {
		return artifact.ReadEngineConfig(cfg.EngineConfig)
	}
	return cfg.Engine(), nil
}

func newWriter(cfg *config.Config) *artifact.Writer {
	return artifact.NewWriter(cfg.OutputDir,
		artifact.WithFileNames(cfg.RatingsFile, cfg.DailyFile, cfg.RegistryFile))
}

func compute(ctx context.Context, cfg *config.Config, out io.Writer) error {
	broad, precise, err := buildSources(cfg)
	if err != nil {
		return err
	}
	engine, err := engineConfig(cfg)
	if err != nil {
		return err
	}

	pipeline := service.New(
		service.WithSources(broad, precise),
		service.WithEngineConfig(engine),
		service.WithWriter(newWriter(cfg)),
		service.WithWorkers(cfg.SnapshotWorkers),
		service.WithLeagueCountry(cfg.LeagueCountry),
		service.WithLogger(logger.Named("pipeline")),
		service.WithMetricsFile(cfg.MetricsFile),
	)
	summary, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}
	return report.PrintSummary(out, summary)
}

// loadStore reads the artifacts of a previous compute run.
func loadStore(cfg *config.Config) (*repository.MemoryStore, error) {
	w := newWriter(cfg)
	ratings, err := artifact.ReadRatings(w.RatingsPath())
	if err != nil {
		return nil, err
	}
	daily, err := artifact.ReadDaily(w.DailyPath())
	if err != nil {
		return nil, err
	}
	reg, err := artifact.ReadRegistry(w.RegistryPath())
	if err != nil {
		return nil, err
	}
	store := repository.NewMemoryStore(repository.WithMaxLimit(cfg.MaxLeaderboardLimit))
	store.Load(ratings, daily, reg)
	return store, nil
}

// rankings prints the full table of a previous compute run.
func rankings(cfg *config.Config, out io.Writer) error {
	w := newWriter(cfg)
	ratings, err := artifact.ReadRatings(w.RatingsPath())
	if err != nil {
		return err
	}
	reg, err := artifact.ReadRegistry(w.RegistryPath())
	if err != nil {
		return err
	}
	return report.PrintRankings(out, ratings.Teams, reg)
}

func newHandler(cfg *config.Config, store api.Dependencies) http.Handler {
	mux := http.NewServeMux()
	api.NewServer(store, cfg.MaxLeaderboardLimit).Register(mux)
	return mux
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()
	store, err := loadStore(cfg)
	if err != nil {
		return err
	}
	metrics.Default().UpdateTeams(store.Count(ctx))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(cfg, store),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("ratings", filepath.Join(cfg.OutputDir, cfg.RatingsFile)),
			logger.Int("teams", store.Count(ctx)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "http server failed")
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server shutdown failed")
	}
	log.Info(ctx, "server stopped")
	return nil
}
