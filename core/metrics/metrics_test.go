package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	m, err := New(Config{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, m)

	// Every method is a no-op on nil.
	m.ObserveOperation("get_object", "ok", time.Millisecond)
	m.CacheLookup(true)
	m.ClientBuilt(nil)
	m.SetCachedClients(3)
	m.BridgeStarted()()
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Record(t *testing.T) {
	m, err := New(Config{Enabled: true, Namespace: "test"})
	require.NoError(t, err)

	m.ObserveOperation("object_exists", "ok", 10*time.Millisecond)
	m.ObserveOperation("object_exists", "ok", 20*time.Millisecond)
	m.ObserveOperation("create_bucket", "backend", time.Millisecond)
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	m.ClientBuilt(nil)
	m.ClientBuilt(errors.New("boom"))
	m.SetCachedClients(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("object_exists", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("create_bucket", "backend")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clientBuilds.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clientBuilds.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cachedClients))

	done := m.BridgeStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inflight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inflight))
}

func TestMetrics_Handler(t *testing.T) {
	m, err := New(Config{Enabled: true})
	require.NoError(t, err)
	m.ObserveOperation("get_object", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `s3bridge_operations_total{operation="get_object",outcome="ok"} 1`))
}
