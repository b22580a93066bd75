package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			registryOpt := WithRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithRegistry(prometheus.NewRegistry()))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRegistry(prometheus.NewRegistry()),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording refresh metrics", func() {
			Convey("Then it should record refresh runs by trigger", func() {
				So(func() {
					RecordRefreshRun("periodic")
					RecordRefreshRun("weekly")
					RecordRefreshRun("demand")
					RecordRefreshRun("catchup")
				}, ShouldNotPanic)
			})

			Convey("And it should record refresh durations", func() {
				So(func() {
					RecordRefreshDuration(0.5)
					RecordRefreshDuration(2.0)
				}, ShouldNotPanic)
			})

			Convey("And it should record score updates and fetch outcomes", func() {
				So(func() {
					RecordScoreUpdate()
					RecordFetchError()
					RecordFetchLatency(0.12)
					RecordSnapshotUpsert()
				}, ShouldNotPanic)
			})
		})

		Convey("When updating gauges", func() {
			Convey("Then it should update without panic", func() {
				So(func() {
					UpdateLastRefreshUnix(1_700_000_000)
					UpdateTotalParticipants(42)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording registrations", func() {
			Convey("Then it should record all outcomes", func() {
				So(func() {
					RecordRegistration("created")
					RecordRegistration("duplicate")
					RecordRegistration("invalid")
					RecordRegistration("error")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record requests and durations", func() {
				So(func() {
					RecordHTTPRequest("leaderboard", "GET", "200")
					RecordHTTPRequestDuration("leaderboard", "GET", "200", 0.01)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsRegistry(t *testing.T) {
	Convey("Given the metrics registry", t, func() {
		Convey("When getting the registry", func() {
			registry := GetRegistry()

			Convey("Then it should not be nil and should gather", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
