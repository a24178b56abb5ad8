package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.NotNil(t, r.StepsTotal)
	assert.NotNil(t, r.SyncOpsTotal)
	assert.NotNil(t, r.HTTPRequestsTotal)
	assert.NotNil(t, r.GetPrometheusRegistry())
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestRecordStep(t *testing.T) {
	r := NewRegistry()
	r.RecordStep(time.Millisecond, 12.5)
	r.RecordStep(time.Millisecond, 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.StepsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.KineticEnergy))
	assert.Equal(t, 1, testutil.CollectAndCount(r.StepDuration))
}

func TestUpdateGraph(t *testing.T) {
	r := NewRegistry()
	r.UpdateGraph(7, 4)
	assert.Equal(t, 7.0, testutil.ToFloat64(r.NodesTotal))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.EdgesTotal))
}

func TestRecordSync(t *testing.T) {
	r := NewRegistry()
	r.RecordSync("add_node", 3)
	r.RecordSync("add_node", 0)
	r.RecordSync("remove_edge", 1)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.SyncOpsTotal.WithLabelValues("add_node")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.SyncOpsTotal.WithLabelValues("remove_edge")))
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("GET", "/api/frame", "200", 10*time.Millisecond)
	r.RecordHTTPRequest("GET", "/api/frame", "200", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("GET", "/api/frame", "200")))
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.UpdateGraph(2, 1)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "forcegraph_nodes_total 2")
}
