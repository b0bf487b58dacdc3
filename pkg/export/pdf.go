package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/scheduler"
)

var pdfColumns = []struct {
	header string
	width  float64
}{
	{"Day", 20},
	{"Period", 50},
	{"Cabin", 70},
	{"Area", 87},
	{"Type", 50},
}

// renderPDF creates a landscape table of the schedule with a statistics summary
func renderPDF(result *scheduler.Result, rows []Row) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "CAMP SCHEDULE", "", 1, "C", false, 0, "")

	stats := result.Statistics
	pdf.SetFont("Arial", "", 9)
	summary := fmt.Sprintf("Run %s | %d assignments | %d failed | %d double-booked | success rate %.1f%%",
		stats.RunID, stats.TotalAssignments, stats.FailedAssignments, stats.DoubleBookings, stats.SuccessRate*100)
	pdf.CellFormat(0, 6, summary, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 10)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 8, col.header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	writeHeader()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range rows {
		if pdf.GetY()+7 > pageHeight-bottom-10 {
			pdf.AddPage()
			writeHeader()
		}
		values := []string{strconv.Itoa(row.Day), row.Period, row.Cabin, row.Area, row.Type}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, values[i], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
