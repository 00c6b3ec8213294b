package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			metricPrefixOpt := WithMetricPrefix("test-prefix")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(metricPrefixOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRefreshInterval(10*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("Then the registry is available", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})

		Convey("When recording dataset metrics", func() {
			RecordDatasetLoad("athletes")
			RecordDatasetLoadError("athletes")
			RecordDatasetLoadDuration("athletes", 12.5)
			RecordDatasetCacheHit()
			RecordDatasetCacheMiss()
			UpdateDatasetRows("athletes", 100)
			UpdateDatasetsAvailable(5)
			RecordUnknownCountryCode("XYZ")
			RecordSchemaMismatch("athletes")
			RecordRowsDeduplicated(3)

			Convey("Then the exposition contains them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["podium_dashboard_dataset_loads_total"], ShouldBeTrue)
				So(names["podium_dashboard_dataset_cache_hits_total"], ShouldBeTrue)
				So(names["podium_dashboard_unknown_country_codes_total"], ShouldBeTrue)
			})
		})

		Convey("When recording filter and session metrics", func() {
			RecordFilterApplication()
			RecordFilterDuration(4.2)
			RecordFilterRowsRetained(0)
			RecordSessionCreated()
			RecordSessionExpired()
			UpdateActiveSessions(2)

			Convey("Then gathering does not fail", func() {
				_, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
			})
		})

		Convey("When recording HTTP and system metrics", func() {
			RecordHTTPRequest("overview", "GET", "200")
			RecordHTTPRequestDuration("overview", "GET", "200", 3.1)
			RecordErrorByComponent("registry", "load_failure")
			RecordErrorByEndpoint("overview", "GET", "not_found")
			UpdateSystemMemoryUsage(1 << 20)
			UpdateSystemGoroutineCount(10)

			Convey("Then gathering does not fail", func() {
				_, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
			})
		})
	})
}
