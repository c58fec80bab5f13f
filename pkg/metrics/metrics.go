package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry concentra as métricas do dashboard num registry próprio
type Registry struct {
	reg *prometheus.Registry

	DatasetRowsLoaded  *prometheus.CounterVec
	DatasetRowsDropped *prometheus.CounterVec
	DatasetCacheHits   prometheus.Counter
	DatasetCacheMisses prometheus.Counter
	DatasetLoadSec     prometheus.Histogram

	Renders        *prometheus.CounterVec
	EmptyResults   prometheus.Counter
	ChartsRendered *prometheus.CounterVec

	HTTPRequests   *prometheus.CounterVec
	HTTPLatencySec prometheus.Histogram

	AuditRuns     prometheus.Counter
	AuditFailures prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	rowsLoaded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_dataset_rows_loaded_total",
		Help: "Linhas carregadas dos datasets por origem",
	}, []string{"origin"})
	rowsDropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_dataset_rows_dropped_total",
		Help: "Linhas descartadas no carregamento por origem e motivo",
	}, []string{"origin", "reason"})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{Name: "dashboard_dataset_cache_hits_total"})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{Name: "dashboard_dataset_cache_misses_total"})
	loadSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_dataset_load_seconds",
		Buckets: prometheus.DefBuckets,
	})

	renders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_renders_total",
		Help: "Ciclos de renderização por visão de dataset",
	}, []string{"view"})
	emptyResults := prometheus.NewCounter(prometheus.CounterOpts{Name: "dashboard_empty_results_total"})
	charts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_charts_rendered_total",
	}, []string{"chart", "format"})

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_http_requests_total",
	}, []string{"method", "status_code"})
	httpLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_http_request_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	auditRuns := prometheus.NewCounter(prometheus.CounterOpts{Name: "dashboard_dataset_audit_runs_total"})
	auditFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "dashboard_dataset_audit_failures_total"})

	r.MustRegister(
		rowsLoaded, rowsDropped, cacheHits, cacheMisses, loadSec,
		renders, emptyResults, charts,
		httpRequests, httpLatency,
		auditRuns, auditFailures,
	)

	return &Registry{
		reg:                r,
		DatasetRowsLoaded:  rowsLoaded,
		DatasetRowsDropped: rowsDropped,
		DatasetCacheHits:   cacheHits,
		DatasetCacheMisses: cacheMisses,
		DatasetLoadSec:     loadSec,
		Renders:            renders,
		EmptyResults:       emptyResults,
		ChartsRendered:     charts,
		HTTPRequests:       httpRequests,
		HTTPLatencySec:     httpLatency,
		AuditRuns:          auditRuns,
		AuditFailures:      auditFailures,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// ObserveHTTP registra uma requisição finalizada
func (r *Registry) ObserveHTTP(method string, statusCode int, elapsed time.Duration) {
	r.HTTPRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	r.HTTPLatencySec.Observe(elapsed.Seconds())
}
