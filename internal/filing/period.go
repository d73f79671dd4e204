package filing

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Period is the calendar year and quarter a filing reports on.
type Period struct {
	Year    string
	Quarter int
}

// ParsePeriod derives the period from a YYYY-MM-DD report date.
// The year is the first four characters; the quarter comes from the month alone
// (Jan-Mar is Q1, Apr-Jun Q2, Jul-Sep Q3, Oct-Dec Q4).
func ParsePeriod(reportDate string) (Period, error) {
	if len(reportDate) < 7 {
		return Period{}, fmt.Errorf("invalid report date %q", reportDate)
	}
	month, err := strconv.Atoi(reportDate[5:7])
	if err != nil || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid month in report date %q", reportDate)
	}
	return Period{Year: reportDate[:4], Quarter: QuarterOf(month)}, nil
}

// QuarterOf maps a calendar month (1-12) to its quarter.
func QuarterOf(month int) int {
	switch {
	case month <= 3:
		return 1
	case month <= 6:
		return 2
	case month <= 9:
		return 3
	default:
		return 4
	}
}

// String formats the period as "2025 Q1".
func (p Period) String() string {
	return fmt.Sprintf("%s Q%d", p.Year, p.Quarter)
}

// OutputName returns the file name a filing is stored under,
// e.g. "AAPL_2025_Q1_en.html".
func OutputName(symbol string, p Period) string {
	return fmt.Sprintf("%s_%s_Q%d_en.html", symbol, p.Year, p.Quarter)
}

// OutputPath joins the output directory and OutputName.
func OutputPath(dir, symbol string, p Period) string {
	return filepath.Join(dir, OutputName(symbol, p))
}
