package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	executionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edugo_sql_executions_total",
			Help: "Total number of SQL execution attempts by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	executionLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edugo_sql_execution_latency_ms",
			Help:    "SQL execution latency in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		},
		[]string{"operation"},
	)
	gatewayCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edugo_model_gateway_calls_total",
			Help: "Total number of model gateway calls by advisor and outcome.",
		},
		[]string{"advisor", "outcome"},
	)
	gatewayTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edugo_model_gateway_tokens_total",
			Help: "Total number of tokens reported by the model gateway.",
		},
		[]string{"advisor"},
	)
	chartRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edugo_chart_renders_total",
			Help: "Total number of chart renders by chart type and path.",
		},
		[]string{"chart_type", "path"},
	)
)

func init() {
	prometheus.MustRegister(
		executionsTotal,
		executionLatencyMs,
		gatewayCallsTotal,
		gatewayTokensTotal,
		chartRendersTotal,
	)
}

func ObserveExecution(operation, outcome string, elapsed time.Duration) {
	executionsTotal.WithLabelValues(operation, outcome).Inc()
	executionLatencyMs.WithLabelValues(operation).Observe(float64(elapsed.Milliseconds()))
}

func ObserveGatewayCall(advisor, outcome string, totalTokens int) {
	gatewayCallsTotal.WithLabelValues(advisor, outcome).Inc()
	if totalTokens > 0 {
		gatewayTokensTotal.WithLabelValues(advisor).Add(float64(totalTokens))
	}
}

func ObserveChartRender(chartType, path string) {
	chartRendersTotal.WithLabelValues(chartType, path).Inc()
}
