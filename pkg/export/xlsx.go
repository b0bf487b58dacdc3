package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/scheduler"
)

const (
	// ScheduleSheet holds the cabin by period grid
	ScheduleSheet = "Schedule"

	// StatisticsSheet holds the run statistics
	StatisticsSheet = "Statistics"

	// DoubleBookedMarker is appended to the area name of double-booked cells
	DoubleBookedMarker = " *"
)

// renderXLSX writes one row per cabin and one column per period occurrence
func renderXLSX(result *scheduler.Result, catalog model.Catalog) ([]byte, error) {
	f := excelize.NewFile()

	// Reuse the default sheet
	if err := f.SetSheetName("Sheet1", ScheduleSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	periods := scheduler.SortPeriodsChronologically(catalog.Periods)

	headers := []string{"Cabin"}
	column := make(map[model.PeriodKey]int, len(periods))
	for i, period := range periods {
		headers = append(headers, fmt.Sprintf("Day %d %s", period.Day, period.Name))
		column[period.Key()] = i + 2
	}
	if err := writeRow(f, ScheduleSheet, 1, headers); err != nil {
		f.Close()
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(ScheduleSheet, "A1", lastHeader, headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	rowOf := make(map[string]int, len(catalog.Cabins))
	for i, cabin := range catalog.Cabins {
		row := i + 2
		rowOf[cabin.ID] = row
		if err := setCellValue(f, ScheduleSheet, 1, row, cabin.Name); err != nil {
			f.Close()
			return nil, err
		}
	}

	for _, a := range result.Assignments {
		row, ok := rowOf[a.CabinID]
		if !ok {
			continue
		}
		col, ok := column[a.PeriodKey()]
		if !ok {
			continue
		}
		value := a.AreaID
		if area, found := catalog.AreaByID(a.AreaID); found && area.Name != "" {
			value = area.Name
		}
		if a.IsDoubleBooked {
			value += DoubleBookedMarker
		}
		if err := setCellValue(f, ScheduleSheet, col, row, value); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetColWidth(ScheduleSheet, "A", "A", 20); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if len(headers) > 1 {
		lastCol, err := excelize.ColumnNumberToName(len(headers))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(ScheduleSheet, "B", lastCol, 18); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	// Freeze the header row and cabin column
	if err := f.SetPanes(ScheduleSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	if err := writeStatistics(f, result); err != nil {
		f.Close()
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	return buf.Bytes(), nil
}

func writeStatistics(f *excelize.File, result *scheduler.Result) error {
	if _, err := f.NewSheet(StatisticsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	stats := result.Statistics
	rows := [][]any{
		{"Run ID", stats.RunID},
		{"Success", result.Success},
		{"Phase", result.Phase.String()},
		{"Total Assignments", stats.TotalAssignments},
		{"Failed Assignments", stats.FailedAssignments},
		{"Constraint Violations", stats.ConstraintViolations},
		{"Validation Violations", stats.ValidationViolations},
		{"Double Bookings", stats.DoubleBookings},
		{"Seeded Assignments", stats.SeededAssignments},
		{"Skipped Seeds", stats.SkippedSeeds},
		{"Success Rate", stats.SuccessRate},
		{"Duration", stats.Duration.String()},
	}
	for i, values := range rows {
		for j, value := range values {
			if err := setCellValue(f, StatisticsSheet, j+1, i+1, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for i, value := range values {
		if err := setCellValue(f, sheet, i+1, row, value); err != nil {
			return err
		}
	}
	return nil
}

func setCellValue(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
