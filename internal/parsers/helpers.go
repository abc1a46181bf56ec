// Package parsers converts raw spreadsheet and CSV cells into profile values.
package parsers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Excel serial day numbers beyond 9999-12-31 are not valid dates.
const maxExcelSerial = 2958466

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"1/2/06 15:04",
}

// ParseFloat parses a numeric cell. A single decimal comma ("0,0285") is
// accepted as written by German-locale exports.
func ParseFloat(val string) *float64 {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	if strings.Count(val, ",") == 1 && !strings.Contains(val, ".") {
		val = strings.Replace(val, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseTimestamp reads a quarter-hour timestamp written either as text or as
// an Excel serial day number. Results are UTC and rounded to the minute,
// which absorbs the float error of serial values.
func ParseTimestamp(val string) (time.Time, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if serial := ParseFloat(val); serial != nil {
		if *serial <= 0 || *serial >= maxExcelSerial {
			return time.Time{}, fmt.Errorf("serial date %q out of range", val)
		}
		t, err := excelize.ExcelDateToTime(*serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("serial date %q: %w", val, err)
		}
		return normalizeTimestamp(t), nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return normalizeTimestamp(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", val)
}

func normalizeTimestamp(t time.Time) time.Time {
	// Wall-clock fields are kept as written; the offset, if any, is dropped.
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC).
		Round(time.Minute)
}
