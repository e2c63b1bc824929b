package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCronJobMetricsExportsRunsAndDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCronJobMetrics(reg)
	metrics.ObserveDuration("order-reaper", 250*time.Millisecond)
	metrics.IncSuccess("order-reaper")
	metrics.IncSuccess("order-reaper")
	metrics.IncFailure("order-reaper")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got := counterValue(t, mfs, "cron_job_runs_total", map[string]string{"job": "order-reaper", "result": "success"}); got != 2 {
		t.Fatalf("expected 2 successes, got %f", got)
	}
	if got := counterValue(t, mfs, "cron_job_runs_total", map[string]string{"job": "order-reaper", "result": "failure"}); got != 1 {
		t.Fatalf("expected 1 failure, got %f", got)
	}

	hist := findMetric(t, mfs, "cron_job_duration_seconds", map[string]string{"job": "order-reaper"})
	if sum := hist.GetHistogram().GetSampleSum(); sum <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", sum)
	}
}

func TestCronJobMetricsEmptyJobLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCronJobMetrics(reg)
	metrics.IncFailure("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got := counterValue(t, mfs, "cron_job_runs_total", map[string]string{"job": "unknown", "result": "failure"}); got != 1 {
		t.Fatalf("expected unlabeled job under %q, got %f", "unknown", got)
	}
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var metrics *CronJobMetrics
	metrics.ObserveDuration("x", time.Second)
	metrics.IncSuccess("x")
	metrics.IncFailure("x")

	disabled := NewCronJobMetrics(nil)
	disabled.ObserveDuration("x", time.Second)
	disabled.IncSuccess("x")
	disabled.IncFailure("x")
}

func counterValue(t *testing.T, mfs []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	return findMetric(t, mfs, name, labels).GetCounter().GetValue()
}

func findMetric(t *testing.T, mfs []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if hasLabels(metric.GetLabel(), labels) {
				return metric
			}
		}
	}
	t.Fatalf("metric %q with labels %v not found", name, labels)
	return nil
}

func hasLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	got := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		got[pair.GetName()] = pair.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}
