// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yoman_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "yoman_http_requests_total",
		Help: "HTTP requests by route pattern and status",
	}, []string{"method", "route", "status"})

	RemindersSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "yoman_reminders_sent_total",
		Help: "Push reminders handed to the gateway, by type",
	}, []string{"type"})

	RemindersFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "yoman_reminders_failed_total",
		Help: "Push reminders that could not be published, by type",
	}, []string{"type"})

	RemindersSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "yoman_reminders_skipped_total",
		Help: "Reminders not sent, by reason",
	}, []string{"reason"})

	ResolverOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "yoman_set_resolutions_total",
		Help: "Active-set resolutions by source (explicit, monthly, none)",
	}, []string{"source"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yoman_network_request_duration_seconds",
		Help:    "Latency of calls to external services",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "status"})

	TaskQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "yoman_task_queue_depth",
		Help: "Tasks waiting in the in-memory queue",
	})
)

// MustRegister registers every collector.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		RemindersSent,
		RemindersFailed,
		RemindersSkipped,
		ResolverOutcomes,
		NetworkRequestDuration,
		TaskQueueDepth,
	)
}

// ObserveNetworkRequest records the duration and outcome of an external call.
func ObserveNetworkRequest(component, operation string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	NetworkRequestDuration.WithLabelValues(component, operation, status).Observe(time.Since(start).Seconds())
}

// ObserveResolution counts one active-set resolution.
func ObserveResolution(source string) {
	ResolverOutcomes.WithLabelValues(source).Inc()
}
