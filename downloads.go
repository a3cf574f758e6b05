package main

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"bitbucket.org/atlanticstays/talkguest_backend/config"
	"bitbucket.org/atlanticstays/talkguest_backend/etl"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Excel refuses sheet names longer than 31 chars or containing these.
const sheetNameMaxLen = 31

var sheetNameReplacer = strings.NewReplacer(
	"[", "", "]", "", ":", "", "*", "", "?", "", "/", "-", "\\", "-",
)

func downloadHandler(store *dataStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		result, ok := completedResult(store)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no results available; run processing first"})
			return
		}

		report := strings.ToLower(strings.TrimSpace(c.Param("report")))
		var (
			workbook *excelize.File
			filename string
			err      error
		)
		switch report {
		case "occupancy":
			workbook, err = occupancyWorkbook(result.Occupancy)
			filename = "occupancy_report.xlsx"
		case "revenue":
			workbook, err = revenueWorkbook(result.Revenue)
			filename = "revenue_report.xlsx"
		case "all":
			workbook, err = combinedWorkbook(result.Occupancy, result.Revenue)
			filename = "full_report.xlsx"
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   fmt.Sprintf("unknown report %q; expected occupancy, revenue or all", report),
			})
			return
		}
		if err != nil {
			config.LogError(logger, "downloads.go", "downloadHandler", "build workbook", report, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to build workbook"})
			return
		}
		defer workbook.Close()

		buf, err := workbook.WriteToBuffer()
		if err != nil {
			config.LogError(logger, "downloads.go", "downloadHandler", "WriteToBuffer", report, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to encode workbook"})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}

func occupancyWorkbook(report *etl.OccupancyReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "General Statistics"); err != nil {
		return nil, err
	}
	rows := [][]any{
		{"Metric", "Value"},
		{"Total Guests", report.GeneralStats.TotalGuests},
		{"Total Nights", report.GeneralStats.TotalNights},
		{"Total Reservations", report.GeneralStats.TotalReservations},
	}
	if err := writeSheetRows(f, "General Statistics", rows); err != nil {
		return nil, err
	}

	used := map[string]bool{"General Statistics": true}
	for _, group := range sortedGroupNames(report.ByProperty) {
		sheet := uniqueSheetName(sanitizeSheetName(group), used)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		if err := writeOccupancySheet(f, sheet, report.ByProperty[group]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeOccupancySheet(f *excelize.File, sheet string, rows []etl.OccupancyRow) error {
	out := [][]any{{"Nationality", "Unique Guests", "Total People", "Total Nights", "Person Nights"}}
	for _, row := range rows {
		out = append(out, []any{
			row.Nationality,
			optionalInt(row.UniqueGuests),
			optionalInt(row.TotalPeople),
			optionalInt(row.TotalNights),
			optionalInt(row.PersonNights),
		})
	}
	return writeSheetRows(f, sheet, out)
}

func revenueWorkbook(report *etl.RevenueReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Reservations Summary"); err != nil {
		return nil, err
	}
	if err := writeReservationsSummary(f, "Reservations Summary", report.ReservationsSummary); err != nil {
		return nil, err
	}
	if err := addRevenueByPropertySheet(f, "By Property (Reservations)", report.ReservationsByProperty); err != nil {
		return nil, err
	}

	if report.InvoicesSummary != nil {
		if _, err := f.NewSheet("Invoices Summary"); err != nil {
			return nil, err
		}
		rows := [][]any{
			{"Metric", "Value"},
			{"Total Gross Value", cellDecimal(report.InvoicesSummary.TotalGrossValue)},
			{"Total IVA", cellDecimal(report.InvoicesSummary.TotalIva)},
			{"Total Net Value", cellDecimal(report.InvoicesSummary.TotalNetValue)},
			{"Total Invoices", report.InvoicesSummary.TotalInvoices},
		}
		if err := writeSheetRows(f, "Invoices Summary", rows); err != nil {
			return nil, err
		}

		if _, err := f.NewSheet("By Property (Invoices)"); err != nil {
			return nil, err
		}
		invRows := [][]any{{"Property", "Gross Value", "Net Value", "IVA Amount", "Invoice Count"}}
		for _, p := range report.InvoicesByProperty {
			invRows = append(invRows, []any{
				p.Property, cellDecimal(p.GrossValue), cellDecimal(p.NetValue), cellDecimal(p.IvaAmount), p.InvoiceCount,
			})
		}
		if err := writeSheetRows(f, "By Property (Invoices)", invRows); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet("Detailed Calculations"); err != nil {
		return nil, err
	}
	detailRows := [][]any{{"Property", "Gross Value", "Commission", "IVA Rate", "IVA Amount", "Net Value"}}
	for _, d := range report.DetailedCalculations {
		detailRows = append(detailRows, []any{
			d.Property, cellDecimal(d.GrossValue), cellDecimal(d.Commission),
			cellDecimal(d.IvaRate), cellDecimal(d.IvaAmount), cellDecimal(d.NetValue),
		})
	}
	if err := writeSheetRows(f, "Detailed Calculations", detailRows); err != nil {
		return nil, err
	}
	return f, nil
}

// combinedWorkbook packs the headline sheets of both reports into a single
// download. Occupancy property sheets are capped so an estate with many
// groups still yields a manageable workbook.
func combinedWorkbook(occupancy *etl.OccupancyReport, revenue *etl.RevenueReport) (*excelize.File, error) {
	const maxPropertySheets = 10

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Occupancy Summary"); err != nil {
		return nil, err
	}
	rows := [][]any{
		{"Metric", "Value"},
		{"Total Guests", occupancy.GeneralStats.TotalGuests},
		{"Total Nights", occupancy.GeneralStats.TotalNights},
		{"Total Reservations", occupancy.GeneralStats.TotalReservations},
	}
	if err := writeSheetRows(f, "Occupancy Summary", rows); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Revenue Summary"); err != nil {
		return nil, err
	}
	if err := writeReservationsSummary(f, "Revenue Summary", revenue.ReservationsSummary); err != nil {
		return nil, err
	}
	if err := addRevenueByPropertySheet(f, "Revenue By Property", revenue.ReservationsByProperty); err != nil {
		return nil, err
	}

	used := map[string]bool{
		"Occupancy Summary":   true,
		"Revenue Summary":     true,
		"Revenue By Property": true,
	}
	groups := sortedGroupNames(occupancy.ByProperty)
	if len(groups) > maxPropertySheets {
		groups = groups[:maxPropertySheets]
	}
	for _, group := range groups {
		sheet := uniqueSheetName(sanitizeSheetName("Occ "+group), used)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		if err := writeOccupancySheet(f, sheet, occupancy.ByProperty[group]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeReservationsSummary(f *excelize.File, sheet string, summary etl.ReservationsSummary) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"Total Gross Value", cellDecimal(summary.TotalGrossValue)},
		{"Total Commissions", cellDecimal(summary.TotalCommissions)},
		{"Total IVA", cellDecimal(summary.TotalIva)},
		{"Total Net Value", cellDecimal(summary.TotalNetValue)},
		{"Total Reservations", summary.TotalReservations},
	}
	return writeSheetRows(f, sheet, rows)
}

func addRevenueByPropertySheet(f *excelize.File, sheet string, properties []etl.PropertyRevenue) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]any{{"Property", "Gross Value", "Commission", "IVA Amount", "Net Value", "Reservation Count"}}
	for _, p := range properties {
		rows = append(rows, []any{
			p.Property, cellDecimal(p.GrossValue), cellDecimal(p.Commission),
			cellDecimal(p.IvaAmount), cellDecimal(p.NetValue), p.ReservationCount,
		})
	}
	return writeSheetRows(f, sheet, rows)
}

func writeSheetRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func sanitizeSheetName(name string) string {
	name = strings.TrimSpace(sheetNameReplacer.Replace(name))
	if name == "" {
		name = "Sheet"
	}
	runes := []rune(name)
	if len(runes) > sheetNameMaxLen {
		name = string(runes[:sheetNameMaxLen])
	}
	return name
}

func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[candidate]; i++ {
		suffix := fmt.Sprintf(" %d", i)
		runes := []rune(name)
		if len(runes)+len(suffix) > sheetNameMaxLen {
			runes = runes[:sheetNameMaxLen-len(suffix)]
		}
		candidate = string(runes) + suffix
	}
	used[candidate] = true
	return candidate
}

func optionalInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func cellDecimal(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func sortedGroupNames(byProperty map[string][]etl.OccupancyRow) []string {
	names := make([]string, 0, len(byProperty))
	for name := range byProperty {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
