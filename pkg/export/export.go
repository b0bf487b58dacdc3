package export

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/scheduler"
)

// Format is an output format for a finished schedule
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Formats lists every supported format
var Formats = []Format{FormatJSON, FormatCSV, FormatXLSX, FormatPDF}

// ParseFormat converts a flag or config value into a Format
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Formats, format) {
		return format, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Extension returns the file extension for the format, including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// Render encodes a scheduling result in the given format
func Render(format Format, result *scheduler.Result, catalog model.Catalog) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no result to export")
	}

	switch format {
	case FormatJSON:
		return renderJSON(result)
	case FormatCSV:
		return renderCSV(BuildRows(result, catalog))
	case FormatXLSX:
		return renderXLSX(result, catalog)
	case FormatPDF:
		return renderPDF(result, BuildRows(result, catalog))
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Row is one assignment flattened with display names
type Row struct {
	Day    int    `csv:"Day"`
	Period string `csv:"Period"`
	Cabin  string `csv:"Cabin"`
	Area   string `csv:"Area"`
	Type   string `csv:"Type"`

	periodStart int
}

// BuildRows flattens the result's assignments, ordered by day, period start time and cabin name.
// IDs missing from the catalog are shown as-is.
func BuildRows(result *scheduler.Result, catalog model.Catalog) []Row {
	rows := make([]Row, 0, len(result.Assignments))

	for _, a := range result.Assignments {
		row := Row{
			Day:    a.Day,
			Period: a.PeriodID,
			Cabin:  a.CabinID,
			Area:   a.AreaID,
			Type:   string(a.Kind()),
		}
		if period, ok := catalog.PeriodAt(a.Day, a.PeriodID); ok {
			row.Period = period.Name
			row.periodStart = period.StartTime
		}
		if cabin, ok := catalog.CabinByID(a.CabinID); ok && cabin.Name != "" {
			row.Cabin = cabin.Name
		}
		if area, ok := catalog.AreaByID(a.AreaID); ok && area.Name != "" {
			row.Area = area.Name
		}
		rows = append(rows, row)
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		return cmp.Or(
			cmp.Compare(a.Day, b.Day),
			cmp.Compare(a.periodStart, b.periodStart),
			cmp.Compare(a.Cabin, b.Cabin),
		)
	})

	return rows
}
