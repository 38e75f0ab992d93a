// Package fiscal derives financial-year and month-bucket labels from
// transaction dates.
package fiscal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"salesiq/internal/etl/frame"
)

// Column names read and written by the enricher.
const (
	ColDate          = "DATE"
	ColFinancialYear = "FINANCIAL_YEAR"
	ColMonth         = "MONTH"
)

// UnknownFY labels rows whose date could not be parsed.
const UnknownFY = "UNKNOWN"

// dateLayouts are tried in order. ISO forms first, then the day-first forms
// common in Indian accounting exports.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2/1/2006",
	"02-01-06",
	"02/01/06",
	"02-Jan-2006",
	"02-Jan-06",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// excelEpoch is day zero of the 1900 date system used by .xlsx files.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses a spreadsheet date cell. Cells arrive as formatted strings
// or, when the source applied no number format, as raw Excel serial numbers.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 59 && serial < 200000 {
		days := int(serial)
		frac := serial - float64(days)
		t := excelEpoch.AddDate(0, 0, days)
		return t.Add(time.Duration(frac * 24 * float64(time.Hour))), true
	}
	return time.Time{}, false
}

// Enricher computes fiscal labels. StartMonth is the first month of the
// financial year (April for the Indian FY).
type Enricher struct {
	StartMonth int
}

// FYLabel formats the financial year containing t as FY<yy>-<yy>.
func (e Enricher) FYLabel(t time.Time) string {
	start := e.StartMonth
	if start < 1 || start > 12 {
		start = 4
	}
	year := t.Year()
	if int(t.Month()) >= start {
		return fmt.Sprintf("FY%02d-%02d", year%100, (year+1)%100)
	}
	return fmt.Sprintf("FY%02d-%02d", (year-1)%100, year%100)
}

// MonthBucket formats t as an uppercase MMM-YY grouping label, e.g. JAN-24.
func MonthBucket(t time.Time) string {
	return strings.ToUpper(t.Format("Jan-06"))
}

// Apply adds FINANCIAL_YEAR and MONTH columns derived from the DATE column.
// Rows with an unparseable or missing date get the UNKNOWN year label and an
// empty month bucket. A batch without a DATE column passes through unchanged.
func (e Enricher) Apply(df dataframe.DataFrame) dataframe.DataFrame {
	if frame.IsEmpty(df) || !frame.HasColumn(df, ColDate) {
		return df
	}
	dates := frame.Column(df, ColDate)
	years := make([]string, len(dates))
	months := make([]string, len(dates))
	for i, raw := range dates {
		t, ok := ParseDate(raw)
		if !ok {
			years[i] = UnknownFY
			continue
		}
		years[i] = e.FYLabel(t)
		months[i] = MonthBucket(t)
	}
	df = frame.WithColumn(df, ColFinancialYear, years)
	return frame.WithColumn(df, ColMonth, months)
}
