package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/metrics"
)

func TestPrometheus_ContadoresDelLibro(t *testing.T) {
	p := metrics.NewPrometheus()

	p.MovementRecorded("in")
	p.MovementRecorded("in")
	p.MovementRejected("insufficient_stock")
	p.LargeDispatchFlagged()
	p.AdjustmentRecorded(true)
	p.AdjustmentRecorded(false)
	p.UndoFinished(inventory.UndoApplied)

	n, err := testutil.GatherAndCount(p.Registry(), metrics.MetricMovementsTotal)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "una serie por dirección usada")

	n, err = testutil.GatherAndCount(p.Registry(), metrics.MetricAdjustmentsTotal)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPrometheus_HandlerExpone(t *testing.T) {
	p := metrics.NewPrometheus()
	p.MovementRecorded("out")
	p.ObserveHTTP("POST", "/api/movements", 201, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `bodega_movements_total{direction="out"} 1`)
	assert.Contains(t, string(body), `bodega_http_requests_total{method="POST",route="/api/movements",status="201"} 1`)
}
