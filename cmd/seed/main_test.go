package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/msi/internal/adapters/artifact"
	"github.com/okian/msi/internal/seed"
	"github.com/okian/msi/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestGenerate(t *testing.T) {
	convey.Convey("Given a one-season default configuration", t, func() {
		dir := t.TempDir()
		cfg := seed.DefaultConfig()
		cfg.StartYear = 2024
		cfg.Seasons = 1
		out := filepath.Join(dir, "data", "matches.json")
		reg := filepath.Join(dir, "data", "registry.json")

		convey.Convey("When generating", func() {
			err := generate(context.Background(), cfg, out, reg)

			convey.Convey("Then the matches and registry round-trip through the artifact readers", func() {
				convey.So(err, convey.ShouldBeNil)
				matches, err := artifact.ReadMatches(out)
				convey.So(err, convey.ShouldBeNil)
				convey.So(matches, convey.ShouldHaveLength, 3*380+2*306)

				teams, err := artifact.ReadRegistry(reg)
				convey.So(err, convey.ShouldBeNil)
				convey.So(teams, convey.ShouldHaveLength, 3*20+2*18)
				convey.So(teams["Arsenal FC"].Country, convey.ShouldEqual, "ENG")
				convey.So(teams["Arsenal FC"].MatchesPlayed, convey.ShouldEqual, 38)
			})
		})
	})
}
