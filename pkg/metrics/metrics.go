package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/scheduler"
)

const namespace = "camp_scheduler"

// Recorder collects scheduling run metrics in its own registry
type Recorder struct {
	registry *prometheus.Registry

	assignments          *prometheus.CounterVec
	failed               prometheus.Counter
	constraintViolations prometheus.Counter
	validationViolations prometheus.Counter
	skippedSeeds         prometheus.Counter
	runs                 *prometheus.CounterVec
	duration             prometheus.Histogram
	successRate          prometheus.Gauge
	areaUtilization      *prometheus.GaugeVec
}

// NewRecorder registers the scheduler collectors
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignments_total",
		Help:      "Assignments recorded, by kind",
	}, []string{"kind"})

	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failed_assignments_total",
		Help:      "Cabins left unassigned in a period",
	})

	constraintViolations := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "constraint_violations_total",
		Help:      "Cabins for which no area passed the hard constraints",
	})

	validationViolations := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_violations_total",
		Help:      "Inconsistencies found by post-run validation",
	})

	skippedSeeds := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "skipped_seeds_total",
		Help:      "Seeded assignments skipped because their cabin or area is not in the catalog",
	})

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Scheduling runs, by final phase",
	}, []string{"phase"})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of scheduling runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	successRate := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "success_rate",
		Help:      "Success rate of the last scheduling run",
	})

	areaUtilization := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "area_utilization_ratio",
		Help:      "Share of an area's capacity used across schedulable periods in the last run",
	}, []string{"area"})

	registry.MustRegister(assignments, failed, constraintViolations, validationViolations, skippedSeeds, runs, duration, successRate, areaUtilization)

	return &Recorder{
		registry:             registry,
		assignments:          assignments,
		failed:               failed,
		constraintViolations: constraintViolations,
		validationViolations: validationViolations,
		skippedSeeds:         skippedSeeds,
		runs:                 runs,
		duration:             duration,
		successRate:          successRate,
		areaUtilization:      areaUtilization,
	}
}

// Gatherer exposes the recorder's registry
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordRun adds a finished run to the metrics
func (r *Recorder) RecordRun(result *scheduler.Result, catalog model.Catalog) {
	if r == nil || result == nil {
		return
	}

	for _, a := range result.Assignments {
		r.assignments.WithLabelValues(string(a.Kind())).Inc()
	}

	stats := result.Statistics
	r.failed.Add(float64(stats.FailedAssignments))
	r.constraintViolations.Add(float64(stats.ConstraintViolations))
	r.validationViolations.Add(float64(stats.ValidationViolations))
	r.skippedSeeds.Add(float64(stats.SkippedSeeds))
	r.runs.WithLabelValues(result.Phase.String()).Inc()
	r.duration.Observe(stats.Duration.Seconds())
	r.successRate.Set(stats.SuccessRate)

	for areaID, ratio := range AreaUtilization(result.Assignments, catalog) {
		r.areaUtilization.WithLabelValues(areaID).Set(ratio)
	}
}

// AreaUtilization returns, per area, assignments divided by max capacity times the number of
// non-choice periods. Areas with no capacity or no periods report 0.
func AreaUtilization(assignments []model.Assignment, catalog model.Catalog) map[string]float64 {
	slots := 0
	for _, period := range catalog.Periods {
		if !period.IsChoicePeriod {
			slots++
		}
	}

	counts := make(map[string]int, len(catalog.Areas))
	for _, a := range assignments {
		counts[a.AreaID]++
	}

	ratios := make(map[string]float64, len(catalog.Areas))
	for _, area := range catalog.Areas {
		available := area.MaxCapacity * slots
		if available <= 0 {
			ratios[area.ID] = 0
			continue
		}
		ratios[area.ID] = float64(counts[area.ID]) / float64(available)
	}
	return ratios
}

// WriteTextfile writes the metrics in the node exporter textfile format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
