package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.analysesComputed.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_unit_analyses_computed_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When two managers share a registry", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration panics on duplicates", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording scoring metrics", func() {
			before := testutil.ToFloat64(globalManager.unknownAnswers)
			RecordUnknownAnswer()
			RecordAnswerScored("default")
			RecordAnalysis(72)
			RecordCategoryOmitted("Idiomas")

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.unknownAnswers), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.answersScored.WithLabelValues("default")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording export metrics", func() {
			pagesBefore := testutil.ToFloat64(globalManager.pagesRendered)
			RecordExport("single", 120, 3)
			RecordExportFailure("batch", "render")
			RecordSectionsPacked(5)
			RecordOversizedSection()
			RecordRasterFallback()
			IncExportsInFlight()
			DecExportsInFlight()
			RecordExportRejected()
			RecordSurfaceAcquire(40)

			Convey("Then pages are accumulated", func() {
				So(testutil.ToFloat64(globalManager.pagesRendered), ShouldEqual, pagesBefore+3)
				So(testutil.ToFloat64(globalManager.exportsInFlight), ShouldEqual, 0)
			})
		})

		Convey("When recording queue, worker, http, store and system metrics", func() {
			So(func() {
				UpdateQueueSize(3)
				UpdateQueueCapacity(10)
				RecordQueueEnqueue()
				RecordQueueEnqueueError("full")
				RecordQueueDequeue()
				UpdateWorkerCount(4)
				IncWorkerBusy()
				DecWorkerBusy()
				RecordWorkerTaskLatency(12)
				RecordWorkerError()
				RecordHTTPRequest("analysis", "POST", "200")
				RecordHTTPRequestDuration("analysis", "POST", "200", 3)
				RecordErrorByEndpoint("report", "GET", "not_found")
				RecordStoreQuery("sqlite", "get_application", 1)
				RecordStoreError("postgres", "list_applications")
				RecordSkippedAnswers(2)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})
	})
}

func TestRegistryExposition(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		RecordQueueEnqueue()
		families, err := GetRegistry().Gather()

		Convey("Then it exposes only service metrics", func() {
			So(err, ShouldBeNil)
			for _, f := range families {
				So(strings.HasPrefix(f.GetName(), "recrutamente_reports_"), ShouldBeTrue)
			}
		})
	})
}
