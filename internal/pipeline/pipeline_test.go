package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bearcart/internal/config"
	"bearcart/internal/dataset"
	"bearcart/pkg/contracts/domain"
)

func writeRaw(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// fixtureConfig builds a config pointing at temp raw and processed dirs with
// a small but complete set of input tables: three sessions, one of which
// converts and is later refunded.
func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	rawDir := t.TempDir()
	processedDir := t.TempDir()

	writeRaw(t, rawDir, "website_sessions.csv",
		"website_session_id,created_at,user_id,is_repeat_session,utm_source,utm_campaign,utm_content,http_referer,device_type\n"+
			"1,2012-03-19 08:04:16,10,0,gsearch,nonbrand,g_ad_1,https://www.gsearch.com,desktop\n"+
			"2,2012-03-19 09:00:00,11,1,,,,,mobile\n"+
			"3,2012-03-19 10:00:00,10,0,facebook,desktop_targeted,,,desktop\n"+
			"3,2012-03-19 11:00:00,12,0,bing,brand,,,mobile\n")

	writeRaw(t, rawDir, "website_pageviews.csv",
		"website_pageview_id,created_at,website_session_id,pageview_url\n"+
			"1,2012-03-19 08:04:16,1,/home\n"+
			"2,2012-03-19 08:05:00,1,/the-original-mr-fuzzy\n"+
			"3,2012-03-19 08:06:00,1,/cart\n"+
			"4,2012-03-19 08:07:00,1,/shipping\n"+
			"5,2012-03-19 08:08:00,1,/billing\n"+
			"6,2012-03-19 08:09:00,1,/thank-you-for-your-order\n"+
			"7,2012-03-19 09:00:00,2,/home\n")

	writeRaw(t, rawDir, "orders.csv",
		"order_id,created_at,website_session_id,user_id,primary_product_id,items_purchased,price_usd,cogs_usd\n"+
			"100,2012-03-19 08:09:00,1,10,1,1,49.99,19.49\n"+
			"101,2012-03-19 07:00:00,1,10,1,1,49.99,19.49\n")

	writeRaw(t, rawDir, "products.csv",
		"product_id,created_at,product_name\n"+
			"1,2012-03-19 08:00:00,The Original Mr. Fuzzy\n")

	writeRaw(t, rawDir, "order_items.csv",
		"order_item_id,created_at,order_id,product_id,is_primary_item,price_usd,cogs_usd\n"+
			"1000,2012-03-19 08:09:00,100,1,1,49.99,19.49\n"+
			"1001,2012-03-19 08:09:00,999,1,1,49.99,19.49\n")

	writeRaw(t, rawDir, "order_item_refunds.csv",
		"order_item_refund_id,created_at,order_item_id,order_id,refund_amount_usd\n"+
			"1,2012-03-25 10:00:00,1000,100,49.99\n"+
			"2,2012-03-25 10:00:00,1000,100,500.00\n")

	return &config.Config{
		Logging: config.LoggingConfig{Level: "info", Output: "console"},
		Paths: config.PathsConfig{
			RawDir:       rawDir,
			ProcessedDir: processedDir,
		},
	}
}

// TestRunnerRun tests a full end-to-end run against CSV fixtures
func TestRunnerRun(t *testing.T) {
	cfg := fixtureConfig(t)
	runner := NewRunner(cfg, nil, nil)

	result, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.RunID)

	t.Run("all steps completed", func(t *testing.T) {
		require.Len(t, result.Steps, 4)
		for _, step := range result.Steps {
			assert.Equal(t, StepStatusCompleted, step.Status, "step %s", step.ID)
		}
	})

	t.Run("cleaning report reflects dropped rows", func(t *testing.T) {
		sessions := result.Report.Tables[dataset.TableSessions]
		assert.Equal(t, 4, sessions.RowsIn)
		assert.Equal(t, 3, sessions.RowsOut)
		assert.Equal(t, 1, sessions.Removed["duplicate_key"])

		orders := result.Report.Tables[dataset.TableOrders]
		assert.Equal(t, 1, orders.Removed["invalid_date"], "order before its session")

		items := result.Report.Tables[dataset.TableItems]
		assert.Equal(t, 1, items.Removed["orphan"])

		refunds := result.Report.Tables[dataset.TableRefunds]
		assert.Equal(t, 1, refunds.Removed["refund_exceeds_order"])
	})

	t.Run("master dataset grain", func(t *testing.T) {
		require.Len(t, result.Master, 3, "one record per cleaned session")

		converted := result.Master[0]
		assert.Equal(t, int64(1), converted.SessionID)
		assert.Equal(t, 1, converted.OrdersInSession)
		assert.InDelta(t, 49.99, converted.TotalOrderValue, 0.001)
		assert.Equal(t, 1, converted.ConversionFlag)
		assert.Equal(t, 1, converted.WasRefunded)
		assert.Equal(t, 1, converted.StepThankYou)
		assert.Equal(t, domain.ChannelPaidSearch, converted.TrafficChannel)
		assert.Equal(t, domain.SegmentNew, converted.CustomerSegment)

		browser := result.Master[1]
		assert.Equal(t, int64(2), browser.SessionID)
		assert.Equal(t, 0, browser.OrdersInSession)
		assert.Equal(t, 0.0, browser.AvgOrderValue)
		assert.Equal(t, domain.ChannelDirect, browser.TrafficChannel)
		assert.Equal(t, domain.SegmentReturning, browser.CustomerSegment)

		bounce := result.Master[2]
		assert.Equal(t, int64(3), bounce.SessionID)
		assert.Equal(t, 0, bounce.TotalPageviews)
		assert.Equal(t, domain.ChannelSocial, bounce.TrafficChannel)
	})

	t.Run("dashboard metrics", func(t *testing.T) {
		d := result.Dashboard
		assert.Equal(t, 3, d.Traffic.TotalSessions)
		assert.Equal(t, 2, d.Traffic.UniqueUsers)
		assert.InDelta(t, 1.0/3.0, d.Conversion.OverallConversionRate, 0.0001)
		assert.InDelta(t, 49.99, d.Revenue.TotalRevenue, 0.001)
		assert.InDelta(t, 49.99, d.Revenue.AverageOrderValue, 0.001)
		assert.InDelta(t, 1.0, d.Quality.OverallRefundRate, 0.0001)
		require.Len(t, d.Products, 1)
		assert.Equal(t, "The Original Mr. Fuzzy", d.Products[0].ProductName)
	})

	t.Run("artifacts written", func(t *testing.T) {
		for _, name := range []string{
			"sessions_clean.csv", "orders_clean.csv", "items_clean.csv",
			"refunds_clean.csv", "products_clean.csv", "master_dataset.csv",
			"dashboard_metrics.json", "cleaning_report.json",
		} {
			assert.FileExists(t, filepath.Join(cfg.Paths.ProcessedDir, name))
		}

		data, err := os.ReadFile(filepath.Join(cfg.Paths.ProcessedDir, "dashboard_metrics.json"))
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(data, &payload))
		assert.Contains(t, payload, "generated_at")
	})
}

// TestRunnerRunMissingInput tests that an absent required table halts the run
func TestRunnerRunMissingInput(t *testing.T) {
	cfg := fixtureConfig(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.Paths.RawDir, "orders.csv")))

	runner := NewRunner(cfg, nil, nil)
	result, err := runner.Run(context.Background())

	require.Error(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, StepStatusFailed, result.Steps[0].Status)
	assert.Equal(t, "clean", result.Steps[0].ID)
}

// TestRunnerRunIsRepeatable tests that consecutive runs produce the same data
func TestRunnerRunIsRepeatable(t *testing.T) {
	cfg := fixtureConfig(t)
	runner := NewRunner(cfg, nil, nil)

	first, err := runner.Run(context.Background())
	require.NoError(t, err)
	second, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Master, second.Master)
	assert.Equal(t, first.Dashboard, second.Dashboard)
	assert.Equal(t, first.Report.TotalRemoved(), second.Report.TotalRemoved())
}
