package progress

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespaceConstant               = "fsgit"
	metricsSubsystemConstant               = "scan"
	directoriesVisitedMetricNameConstant   = "directories_visited_total"
	repositoriesFoundMetricNameConstant    = "repositories_found_total"
	repositoriesMatchedMetricNameConstant  = "repositories_matched_total"
	repositoriesRejectedMetricNameConstant = "repositories_rejected_total"
	warningsMetricNameConstant             = "warnings_total"
	durationMetricNameConstant             = "duration_seconds"
	cancelledMetricNameConstant            = "cancelled"
	directoriesVisitedMetricHelpConstant   = "Directories visited during the scan."
	repositoriesFoundMetricHelpConstant    = "Repository roots found during the scan."
	repositoriesMatchedMetricHelpConstant  = "Repositories with a remote matching the search pattern."
	repositoriesRejectedMetricHelpConstant = "Repositories without a matching remote."
	warningsMetricHelpConstant             = "Non-fatal problems encountered during the scan."
	durationMetricHelpConstant             = "Wall-clock duration of the scan."
	cancelledMetricHelpConstant            = "Set to 1 when the scan was cancelled before completion."
	cancelledGaugeValueConstant            = 1
)

// MetricsRecorder mirrors scan counters into a dedicated Prometheus registry.
type MetricsRecorder struct {
	registry             *prometheus.Registry
	directoriesVisited   prometheus.Counter
	repositoriesFound    prometheus.Counter
	repositoriesMatched  prometheus.Counter
	repositoriesRejected prometheus.Counter
	warnings             prometheus.Counter
	duration             prometheus.Gauge
	cancelled            prometheus.Gauge
}

// NewMetricsRecorder registers the scan metrics on a fresh registry.
func NewMetricsRecorder() *MetricsRecorder {
	newCounter := func(name string, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: metricsNamespaceConstant, Subsystem: metricsSubsystemConstant, Name: name, Help: help})
	}
	newGauge := func(name string, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: metricsNamespaceConstant, Subsystem: metricsSubsystemConstant, Name: name, Help: help})
	}

	recorder := &MetricsRecorder{
		registry:             prometheus.NewRegistry(),
		directoriesVisited:   newCounter(directoriesVisitedMetricNameConstant, directoriesVisitedMetricHelpConstant),
		repositoriesFound:    newCounter(repositoriesFoundMetricNameConstant, repositoriesFoundMetricHelpConstant),
		repositoriesMatched:  newCounter(repositoriesMatchedMetricNameConstant, repositoriesMatchedMetricHelpConstant),
		repositoriesRejected: newCounter(repositoriesRejectedMetricNameConstant, repositoriesRejectedMetricHelpConstant),
		warnings:             newCounter(warningsMetricNameConstant, warningsMetricHelpConstant),
		duration:             newGauge(durationMetricNameConstant, durationMetricHelpConstant),
		cancelled:            newGauge(cancelledMetricNameConstant, cancelledMetricHelpConstant),
	}

	recorder.registry.MustRegister(
		recorder.directoriesVisited,
		recorder.repositoriesFound,
		recorder.repositoriesMatched,
		recorder.repositoriesRejected,
		recorder.warnings,
		recorder.duration,
		recorder.cancelled,
	)

	return recorder
}

// Registry exposes the underlying registry for gathering.
func (recorder *MetricsRecorder) Registry() *prometheus.Registry {
	return recorder.registry
}

// RecordSummary copies the final counters of a scan into the registry.
func (recorder *MetricsRecorder) RecordSummary(summary Summary) {
	if recorder == nil {
		return
	}
	statistics := summary.Statistics
	recorder.directoriesVisited.Add(float64(statistics.DirectoriesVisited))
	recorder.repositoriesFound.Add(float64(statistics.RepositoriesFound))
	recorder.repositoriesMatched.Add(float64(statistics.RepositoriesMatched))
	recorder.repositoriesRejected.Add(float64(statistics.RepositoriesRejected))
	recorder.warnings.Add(float64(statistics.Warnings))
	recorder.duration.Set(statistics.Elapsed.Seconds())
	if summary.Cancelled {
		recorder.cancelled.Set(cancelledGaugeValueConstant)
	}
}

// WriteTextfile exports the registry in the node_exporter textfile collector format.
func (recorder *MetricsRecorder) WriteTextfile(filePath string) error {
	return prometheus.WriteToTextfile(filePath, recorder.registry)
}
