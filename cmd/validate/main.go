package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/okian/msi/internal/domain/calibration"
	"github.com/okian/msi/internal/report"
)

const defaultRatings = "output/msi_ratings.json"

func main() {
	var (
		ratings   = flag.String("ratings", defaultRatings, "Ratings artifact to validate")
		reference = flag.String("reference", "", "Reference ranking file")
		format    = flag.String("format", calibration.FormatClubEloCSV, "Reference format")
		aliases   = flag.String("aliases", "", "JSON object mapping local names to reference names")
		old       = flag.String("old", "", "Older ratings artifact to compare against")
		topN      = flag.Int("top", calibration.DefaultTopN, "Top-N overlap window")
		suggest   = flag.Int("suggest", calibration.DefaultSuggestions, "Name suggestions per unmatched team")
		logLevel  = flag.String("log-level", "info", "Log level")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help || *reference == "" {
		report.ShowHelp(os.Stdout)
		if *reference == "" && !*help {
			os.Exit(2)
		}
		return
	}

	_ = godotenv.Load()
	if err := report.SetupLogging(*logLevel, "console"); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, err := report.RunValidate(ctx, report.ValidateConfig{
		RatingsFile:    *ratings,
		ReferenceFile:  *reference,
		Format:         *format,
		AliasesFile:    *aliases,
		OldRatingsFile: *old,
		TopN:           *topN,
		Suggestions:    *suggest,
		Out:            os.Stdout,
	})
	if err != nil {
		os.Stderr.WriteString("Validation failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
