package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("run"),
				WithHistogramBuckets([]float64{1, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metrics are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.RecordMatchProcessed()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_run_matches_processed_total")
			})
		})

		Convey("When the default manager is used", func() {
			So(Default(), ShouldNotBeNil)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry))

		Convey("When pipeline counters are recorded", func() {
			m.RecordMatchesLoaded("broad", 10)
			m.RecordMatchesLoaded("precise", 4)
			m.RecordDuplicatesDropped(3)
			m.RecordMergeAmbiguities(1)
			m.RecordMalformed("source", 2)
			m.RecordMatchProcessed()
			m.RecordMatchProcessed()
			m.RecordRegression()
			m.UpdateTeams(20)
			m.UpdateSnapshotDays(7300)
			m.RecordStageDuration("fold", 12.5)
			m.MarkRunCompleted(1.7e9)
			m.RecordRunFailure("config_invalid")

			Convey("Then the values are observable", func() {
				values := gatherValues(registry)
				So(values["msi_pipeline_matches_loaded_total"], ShouldEqual, 14)
				So(values["msi_pipeline_duplicates_dropped_total"], ShouldEqual, 3)
				So(values["msi_pipeline_matches_processed_total"], ShouldEqual, 2)
				So(values["msi_pipeline_teams_rated"], ShouldEqual, 20)
				So(values["msi_pipeline_run_failures_total"], ShouldEqual, 1)
			})
		})

		Convey("When HTTP metrics are recorded", func() {
			So(func() {
				RecordHTTPRequest("leaderboard", "GET", "200")
				RecordHTTPRequestDuration("leaderboard", "GET", "200", 1.2)
				RecordHTTPError("rank", "GET", "not_found")
			}, ShouldNotPanic)
		})

		Convey("When metrics are written to a textfile", func() {
			m.RecordRegression()
			path := filepath.Join(t.TempDir(), "msi.prom")
			So(m.WriteTextfile(path), ShouldBeNil)

			Convey("Then the file holds the exposition format", func() {
				raw, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(strings.Contains(string(raw), "msi_pipeline_regression_events_total 1"), ShouldBeTrue)
			})
		})
	})
}

// gatherValues sums counter and gauge samples per family.
func gatherValues(registry *prometheus.Registry) map[string]float64 {
	out := map[string]float64{}
	families, err := registry.Gather()
	if err != nil {
		return out
	}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				out[f.GetName()] += c.GetValue()
			}
			if g := metric.GetGauge(); g != nil {
				out[f.GetName()] += g.GetValue()
			}
		}
	}
	return out
}
