// Package exporter writes the cleaned tables, the master dataset, and the
// dashboard document to the processed-data directory.
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"log/slog"

	"bearcart/internal/errors"
	"bearcart/pkg/contracts/domain"
)

const timestampFormat = "2006-01-02 15:04:05"

// CSVWriter provides CSV export functionality for the pipeline outputs.
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a writer rooted at the processed-data directory.
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger}
}

// write writes one CSV file with a header row.
func (w *CSVWriter) write(name string, headers []string, rows [][]string) error {
	path := filepath.Join(w.dir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return errors.NewStorageError("failed to write CSV header row", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return errors.NewStorageError("failed to write CSV data row", err)
		}
	}

	w.logger.Info("wrote CSV file",
		slog.String("path", path),
		slog.Int("rows", len(rows)))

	return nil
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(timestampFormat)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteSessions writes the cleaned sessions table.
func (w *CSVWriter) WriteSessions(sessions []domain.Session) error {
	headers := []string{"session_id", "user_id", "session_date", "is_repeat_session",
		"traffic_source", "utm_campaign", "http_referer", "device_type"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			strconv.FormatInt(s.SessionID, 10),
			strconv.FormatInt(s.UserID, 10),
			formatTime(s.SessionDate),
			strconv.Itoa(s.IsRepeatSession),
			s.TrafficSource,
			s.UTMCampaign,
			s.HTTPReferer,
			s.DeviceType,
		})
	}
	return w.write("sessions_clean.csv", headers, rows)
}

// WriteOrders writes the cleaned orders table.
func (w *CSVWriter) WriteOrders(orders []domain.Order) error {
	headers := []string{"order_id", "session_id", "user_id", "order_date",
		"items_purchased", "order_value", "cogs_usd"}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.FormatInt(o.OrderID, 10),
			strconv.FormatInt(o.SessionID, 10),
			strconv.FormatInt(o.UserID, 10),
			formatTime(o.OrderDate),
			strconv.Itoa(o.ItemsPurchased),
			formatFloat(o.OrderValue),
			formatFloat(o.CogsUSD),
		})
	}
	return w.write("orders_clean.csv", headers, rows)
}

// WriteItems writes the cleaned order items table.
func (w *CSVWriter) WriteItems(items []domain.OrderItem) error {
	headers := []string{"order_item_id", "order_id", "product_id", "product_name",
		"price_usd", "cogs_usd", "margin_usd"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatInt(item.OrderItemID, 10),
			strconv.FormatInt(item.OrderID, 10),
			strconv.FormatInt(item.ProductID, 10),
			item.ProductName,
			formatFloat(item.PriceUSD),
			formatFloat(item.CogsUSD),
			formatFloat(item.MarginUSD),
		})
	}
	return w.write("items_clean.csv", headers, rows)
}

// WriteRefunds writes the cleaned refunds table.
func (w *CSVWriter) WriteRefunds(refunds []domain.Refund) error {
	headers := []string{"refund_id", "order_item_id", "order_id", "refund_date", "refund_amount_usd"}
	rows := make([][]string, 0, len(refunds))
	for _, r := range refunds {
		rows = append(rows, []string{
			strconv.FormatInt(r.RefundID, 10),
			strconv.FormatInt(r.OrderItemID, 10),
			strconv.FormatInt(r.OrderID, 10),
			formatTime(r.RefundDate),
			formatFloat(r.AmountUSD),
		})
	}
	return w.write("refunds_clean.csv", headers, rows)
}

// WriteProducts writes the cleaned product catalog.
func (w *CSVWriter) WriteProducts(products []domain.Product) error {
	headers := []string{"product_id", "product_name", "product_launch_date"}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.FormatInt(p.ProductID, 10),
			p.Name,
			formatTime(p.LaunchedAt),
		})
	}
	return w.write("products_clean.csv", headers, rows)
}

// WriteMaster writes the master dataset with all derived columns.
func (w *CSVWriter) WriteMaster(records []domain.MasterRecord) error {
	headers := []string{"session_id", "user_id", "session_date", "is_repeat_session",
		"traffic_source", "utm_campaign", "device_type",
		"orders_in_session", "total_order_value", "avg_order_value", "first_order_date",
		"converted", "conversion_flag",
		"total_pageviews", "step_home", "step_product", "step_cart",
		"step_shipping", "step_billing", "step_thankyou",
		"was_refunded", "traffic_channel", "customer_segment", "max_product_risk",
		"hour_of_day", "day_of_week", "is_weekend"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.SessionID, 10),
			strconv.FormatInt(r.UserID, 10),
			formatTime(r.SessionDate),
			strconv.Itoa(r.IsRepeatSession),
			r.TrafficSource,
			r.UTMCampaign,
			r.DeviceType,
			strconv.Itoa(r.OrdersInSession),
			formatFloat(r.TotalOrderValue),
			formatFloat(r.AvgOrderValue),
			formatTime(r.FirstOrderDate),
			strconv.FormatBool(r.Converted),
			strconv.Itoa(r.ConversionFlag),
			strconv.Itoa(r.TotalPageviews),
			strconv.Itoa(r.StepHome),
			strconv.Itoa(r.StepProduct),
			strconv.Itoa(r.StepCart),
			strconv.Itoa(r.StepShipping),
			strconv.Itoa(r.StepBilling),
			strconv.Itoa(r.StepThankYou),
			strconv.Itoa(r.WasRefunded),
			string(r.TrafficChannel),
			string(r.CustomerSegment),
			strconv.FormatFloat(r.MaxProductRisk, 'f', 4, 64),
			strconv.Itoa(r.HourOfDay),
			r.DayOfWeek,
			strconv.FormatBool(r.IsWeekend),
		})
	}
	return w.write("master_dataset.csv", headers, rows)
}
