package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/msi/internal/adapters/artifact"
	"github.com/okian/msi/internal/domain/registry"
	"github.com/okian/msi/internal/report"
	"github.com/okian/msi/internal/seed"
	"github.com/okian/msi/pkg/logger"
)

func main() {
	var (
		out      = flag.String("out", "data/matches_all.json", "Output file for generated matches")
		reg      = flag.String("registry", "", "Optional output file for the team registry")
		seedVal  = flag.Uint("seed", seed.DefaultSeed, "PRNG seed")
		start    = flag.Int("start", seed.DefaultStartYear, "First season start year")
		seasons  = flag.Int("seasons", seed.DefaultSeasons, "Number of seasons")
		logLevel = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	if err := report.SetupLogging(*logLevel, "console"); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := seed.DefaultConfig()
	cfg.Seed = uint32(*seedVal) //nolint:gosec // flag value is a 32-bit seed
	cfg.StartYear = *start
	cfg.Seasons = *seasons

	if err := generate(ctx, cfg, *out, *reg); err != nil {
		logger.Get().Error(ctx, "seed generation failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func generate(ctx context.Context, cfg seed.Config, out, regPath string) error {
	matches, err := seed.Generate(ctx, cfg)
	if err != nil {
		return err
	}
	if err := artifact.WriteFile(out, matches); err != nil {
		return err
	}
	fmt.Printf("Generated %d matches -> %s\n", len(matches), out)

	if regPath == "" {
		return nil
	}
	teams := registry.Build(matches)
	if err := artifact.WriteFile(regPath, teams); err != nil {
		return err
	}
	fmt.Printf("Team registry: %d teams -> %s\n", len(teams), regPath)
	return nil
}
