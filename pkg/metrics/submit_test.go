package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func gatherFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	return nil
}

func labelValue(metric *dto.Metric, name string) string {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}

func TestSubmitMetricsCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := NewSubmitMetrics(reg)

	metrics.IncSuccess("tour_create")
	metrics.IncSuccess("tour_create")
	metrics.IncFailure("tour_create", "create")
	metrics.IncUploadBatch("tour", "success")
	metrics.IncUploadBatch("destination", "failure")

	success := gatherFamily(t, reg, "wizard_submit_success")
	require.NotNil(t, success)
	require.Len(t, success.GetMetric(), 1)
	require.Equal(t, float64(2), success.GetMetric()[0].GetCounter().GetValue())
	require.Equal(t, "tour_create", labelValue(success.GetMetric()[0], "wizard"))

	failure := gatherFamily(t, reg, "wizard_submit_failure")
	require.NotNil(t, failure)
	require.Equal(t, "create", labelValue(failure.GetMetric()[0], "stage"))

	batches := gatherFamily(t, reg, "wizard_upload_batches_total")
	require.NotNil(t, batches)
	require.Len(t, batches.GetMetric(), 2)
}

func TestObserveDuration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := NewSubmitMetrics(reg)

	metrics.ObserveDuration("success", 250*time.Millisecond)

	family := gatherFamily(t, reg, "wizard_submit_duration_seconds")
	require.NotNil(t, family)
	histogram := family.GetMetric()[0].GetHistogram()
	require.Equal(t, uint64(1), histogram.GetSampleCount())
	require.InDelta(t, 0.25, histogram.GetSampleSum(), 0.001)
	require.Equal(t, "success", labelValue(family.GetMetric()[0], "outcome"))
}

func TestEmptyLabelsNormalized(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := NewSubmitMetrics(reg)

	metrics.IncSuccess("")

	family := gatherFamily(t, reg, "wizard_submit_success")
	require.NotNil(t, family)
	require.Equal(t, "unknown", labelValue(family.GetMetric()[0], "wizard"))
}

func TestNilRegistererAndReceiverAreSafe(t *testing.T) {
	t.Parallel()

	metrics := NewSubmitMetrics(nil)
	metrics.IncSuccess("tour_create")
	metrics.IncFailure("tour_create", "validation")
	metrics.IncUploadBatch("tour", "success")
	metrics.ObserveDuration("success", time.Second)

	var nilMetrics *SubmitMetrics
	nilMetrics.IncSuccess("tour_create")
	nilMetrics.ObserveDuration("failure", time.Second)
}
