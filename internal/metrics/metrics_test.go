package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveExecution(t *testing.T) {
	before := testutil.ToFloat64(executionsTotal.WithLabelValues("SELECT", "success"))
	ObserveExecution("SELECT", "success", 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(executionsTotal.WithLabelValues("SELECT", "success")))
}

func TestObserveGatewayCall(t *testing.T) {
	before := testutil.ToFloat64(gatewayTokensTotal.WithLabelValues("sql"))
	ObserveGatewayCall("sql", "success", 42)
	ObserveGatewayCall("sql", "error", 0)
	assert.Equal(t, before+42, testutil.ToFloat64(gatewayTokensTotal.WithLabelValues("sql")))
}

func TestObserveChartRender(t *testing.T) {
	before := testutil.ToFloat64(chartRendersTotal.WithLabelValues("bar", "fallback"))
	ObserveChartRender("bar", "fallback")
	assert.Equal(t, before+1, testutil.ToFloat64(chartRendersTotal.WithLabelValues("bar", "fallback")))
}
