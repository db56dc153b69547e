package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render_pages", 150*time.Millisecond)
	pr.ObserveExportDuration("static", 500*time.Millisecond)
	pr.IncStageResult("render_pages", ResultSuccess)
	pr.IncExportOutcome("static", "success")
	pr.IncAssetResult(AssetOptimized)
	pr.AddAssetBytes(2048, 1024)
	pr.SetOptimizeConcurrency(4)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["sitepress_stage_duration_seconds"])
	assert.True(t, names["sitepress_export_outcomes_total"])
	assert.True(t, names["sitepress_asset_bytes_total"])
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncExportOutcome("project", "warning")

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `sitepress_export_outcomes_total{outcome="warning",target="project"} 1`), body)
}
