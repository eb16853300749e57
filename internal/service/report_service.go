package service

import (
	"bytes"
	"fmt"

	"stocktrail/internal/alert"
	"stocktrail/internal/model"
	"stocktrail/internal/store"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// DailyReport aggregates one calendar day of activity against the current
// inventory and alert state.
type DailyReport struct {
	Date            string                `json:"date"`
	TotalItems      int                   `json:"total_items"`
	LowStockItems   int                   `json:"low_stock_items"`
	TotalValue      decimal.Decimal       `json:"total_value"`
	ActivitiesCount int                   `json:"activities_count"`
	TopActivities   []model.ActivityEntry `json:"top_activities"`
	OpenAlerts      []model.LowStockAlert `json:"open_alerts"`
}

const topActivityCount = 5

// ReportService builds per-day reports from the domain stores. Read-only.
type ReportService struct {
	inventory *store.InventoryStore
	activity  *store.ActivityStore
	alerts    *alert.Engine
}

func NewReportService(inventory *store.InventoryStore, activity *store.ActivityStore, alerts *alert.Engine) *ReportService {
	return &ReportService{inventory: inventory, activity: activity, alerts: alerts}
}

// Daily builds the report for an ISO date ("2006-01-02").
func (s *ReportService) Daily(date string) *DailyReport {
	items := s.inventory.Items()
	activities := s.activity.ByDate(date)

	lowStock := 0
	totalValue := decimal.Zero
	for _, item := range items {
		if item.LowStock() {
			lowStock++
		}
		totalValue = totalValue.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	top := activities
	if len(top) > topActivityCount {
		top = top[:topActivityCount]
	}

	return &DailyReport{
		Date:            date,
		TotalItems:      len(items),
		LowStockItems:   lowStock,
		TotalValue:      totalValue,
		ActivitiesCount: len(activities),
		TopActivities:   top,
		OpenAlerts:      s.alerts.Unacknowledged(),
	}
}

// RenderPDF renders the report as a one-page A4 PDF for download/printing.
func (s *ReportService) RenderPDF(report *DailyReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "StockTrail Daily Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, report.Date, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Summary ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Summary", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	rows := []struct{ label, value string }{
		{"Items in inventory", fmt.Sprintf("%d", report.TotalItems)},
		{"Low-stock items", fmt.Sprintf("%d", report.LowStockItems)},
		{"Inventory value", "$" + report.TotalValue.StringFixed(2)},
		{"Activities logged", fmt.Sprintf("%d", report.ActivitiesCount)},
		{"Open alerts", fmt.Sprintf("%d", len(report.OpenAlerts))},
	}
	for _, row := range rows {
		pdf.CellFormat(contentW*0.5, 6, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.5, 6, row.value, "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// ── Top activities ───────────────────────────────────────────────────────
	if len(report.TopActivities) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, "Recent activity", "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		// Core fonts are cp1252: keep the line ASCII and clip long details.
		for _, e := range report.TopActivities {
			line := fmt.Sprintf("%s  %s - %s", e.Timestamp.Format("15:04"), e.UserName, e.Details)
			if len(line) > 95 {
				line = line[:92] + "..."
			}
			pdf.CellFormat(contentW, 5, line, "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	// ── Open alerts ──────────────────────────────────────────────────────────
	if len(report.OpenAlerts) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, "Open low-stock alerts", "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, a := range report.OpenAlerts {
			line := fmt.Sprintf("[%s] %s - %d remaining (threshold %d)",
				a.Severity, a.ItemName, a.CurrentQuantity, a.Threshold)
			pdf.CellFormat(contentW, 5, line, "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report pdf: %w", err)
	}
	return buf.Bytes(), nil
}
