package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики опроса оркестратора.
var (
	// ReadinessProbesTotal — количество проб готовности эндпоинтов.
	ReadinessProbesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fedflow_readiness_probes_total",
		Help: "Total endpoint readiness probes issued",
	})

	// RunStatusPollsTotal — количество запросов статуса запусков.
	RunStatusPollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fedflow_run_status_polls_total",
		Help: "Total run status polls issued",
	})
)

// Метрики scheduler'а.
var (
	// SchedulerTicksTotal — количество тиков scheduler'а.
	SchedulerTicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fedflow_scheduler_ticks_total",
		Help: "Total scheduler ticks executed",
	})

	// ScheduledRunsTotal — количество запусков, созданных по расписанию.
	ScheduledRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fedflow_scheduled_runs_total",
		Help: "Total runs submitted by the scheduler",
	})
)

// Метрики registry API.
var (
	// HTTPRequestsTotal — количество HTTP запросов по методу, пути и статусу.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fedflow_http_requests_total",
		Help: "Total HTTP requests handled by the registry API",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration — длительность HTTP запросов.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fedflow_http_request_duration_seconds",
		Help:    "HTTP request duration by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)
