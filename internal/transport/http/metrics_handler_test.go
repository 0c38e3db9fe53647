package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bearcart/internal/config"
	"bearcart/internal/pipeline"
	"bearcart/internal/services"
)

func newTestDataService(t *testing.T) *services.DataService {
	t.Helper()
	rawDir := t.TempDir()

	fixtures := map[string]string{
		"website_sessions.csv": "website_session_id,created_at,user_id,is_repeat_session,utm_source,utm_campaign,utm_content,http_referer,device_type\n" +
			"1,2012-03-19 08:04:16,10,0,gsearch,nonbrand,,,desktop\n",
		"website_pageviews.csv": "website_pageview_id,created_at,website_session_id,pageview_url\n" +
			"1,2012-03-19 08:04:16,1,/home\n",
		"orders.csv": "order_id,created_at,website_session_id,user_id,primary_product_id,items_purchased,price_usd,cogs_usd\n" +
			"100,2012-03-19 08:09:00,1,10,1,1,49.99,19.49\n",
		"products.csv": "product_id,created_at,product_name\n" +
			"1,2012-03-19 08:00:00,The Original Mr. Fuzzy\n",
		"order_items.csv": "order_item_id,created_at,order_id,product_id,is_primary_item,price_usd,cogs_usd\n" +
			"1000,2012-03-19 08:09:00,100,1,1,49.99,19.49\n",
		"order_item_refunds.csv": "order_item_refund_id,created_at,order_item_id,order_id,refund_amount_usd\n",
	}
	for name, content := range fixtures {
		require.NoError(t, os.WriteFile(filepath.Join(rawDir, name), []byte(content), 0o644))
	}

	cfg := &config.Config{
		Logging: config.LoggingConfig{Level: "info", Output: "console"},
		Paths: config.PathsConfig{
			RawDir:       rawDir,
			ProcessedDir: t.TempDir(),
		},
	}
	return services.NewDataService(pipeline.NewRunner(cfg, nil, nil), nil)
}

func metricsRouter(service *services.DataService) chi.Router {
	r := chi.NewRouter()
	r.Mount("/api/metrics", NewMetricsHandler(service, nil).Routes())
	return r
}

// TestGetDashboard tests the full dashboard endpoint
func TestGetDashboard(t *testing.T) {
	service := newTestDataService(t)
	router := metricsRouter(service)

	t.Run("before first run", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("after refresh", func(t *testing.T) {
		require.NoError(t, service.Refresh(context.Background()))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		for _, group := range []string{"traffic", "conversion", "revenue", "quality", "products"} {
			assert.Contains(t, payload, group)
		}
	})
}

// TestGetGroup tests the per-group endpoint
func TestGetGroup(t *testing.T) {
	service := newTestDataService(t)
	require.NoError(t, service.Refresh(context.Background()))
	router := metricsRouter(service)

	t.Run("known group", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics/traffic", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.EqualValues(t, 1, payload["total_sessions"])
	})

	t.Run("unknown group", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics/margins", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// TestReportHandler tests the report, run-summary, and refresh endpoints
func TestReportHandler(t *testing.T) {
	service := newTestDataService(t)
	handler := NewReportHandler(service, nil)

	router := chi.NewRouter()
	router.Get("/api/report", handler.GetReport)
	router.Get("/api/runs/last", handler.GetLastRun)
	router.Post("/api/refresh", handler.Refresh)

	t.Run("report before first run", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("refresh runs the pipeline", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var summary map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.NotEmpty(t, summary["run_id"])
		assert.EqualValues(t, 1, summary["master_records"])
	})

	t.Run("report after refresh", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var report map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Contains(t, report, "tables")
	})
}

// TestHealthHandler tests the liveness endpoint
func TestHealthHandler(t *testing.T) {
	service := newTestDataService(t)
	handler := NewHealthHandler(services.NewHealthService(service))

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, false, health["data_ready"])
}
