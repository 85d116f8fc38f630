package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SubmitMetrics records metadata for wizard submissions and upload batches.
type SubmitMetrics struct {
	duration      *prometheus.HistogramVec
	success       *prometheus.CounterVec
	failure       *prometheus.CounterVec
	uploadBatches *prometheus.CounterVec
}

// NewSubmitMetrics registers the submit metrics on the provided registerer.
func NewSubmitMetrics(reg prometheus.Registerer) *SubmitMetrics {
	if reg == nil {
		return &SubmitMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wizard_submit_duration_seconds",
		Help:    "Duration of wizard submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_submit_success",
		Help: "Successful wizard submissions.",
	}, []string{"wizard"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_submit_failure",
		Help: "Failed wizard submissions.",
	}, []string{"wizard", "stage"})
	uploadBatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_upload_batches_total",
		Help: "Upload batches attempted during submissions.",
	}, []string{"image_type", "outcome"})
	reg.MustRegister(duration, success, failure, uploadBatches)
	return &SubmitMetrics{
		duration:      duration,
		success:       success,
		failure:       failure,
		uploadBatches: uploadBatches,
	}
}

// ObserveDuration records the duration of a submission attempt.
func (s *SubmitMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named wizard.
func (s *SubmitMetrics) IncSuccess(wizard string) {
	if s == nil || s.success == nil {
		return
	}
	s.success.WithLabelValues(normalizeLabel(wizard)).Inc()
}

// IncFailure increments the failure counter for the named wizard and stage.
func (s *SubmitMetrics) IncFailure(wizard, stage string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(wizard), normalizeLabel(stage)).Inc()
}

// IncUploadBatch counts one upload batch attempt by image type and outcome.
func (s *SubmitMetrics) IncUploadBatch(imageType, outcome string) {
	if s == nil || s.uploadBatches == nil {
		return
	}
	s.uploadBatches.WithLabelValues(normalizeLabel(imageType), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
