package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsExist(t *testing.T) {
	assert.NotNil(t, RequestDuration)
	assert.NotNil(t, ActiveConnections)
	assert.NotNil(t, SearchDuration)
	assert.NotNil(t, CountResolutions)
	assert.NotNil(t, RegistryOperations)
	assert.NotNil(t, CacheHits)
}

func TestCountResolutions_Increment(t *testing.T) {
	before := testutil.ToFloat64(CountResolutions.WithLabelValues("estimate"))
	CountResolutions.WithLabelValues("estimate").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CountResolutions.WithLabelValues("estimate")))
}

func TestActiveConnections_IncDec(t *testing.T) {
	before := testutil.ToFloat64(ActiveConnections)
	ActiveConnections.Inc()
	ActiveConnections.Dec()
	assert.Equal(t, before, testutil.ToFloat64(ActiveConnections))
}
