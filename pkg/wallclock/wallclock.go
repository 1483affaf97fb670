// Package wallclock converts between the zone-less wall-clock strings used by
// alarm requests and time.Time instants in the local zone.
package wallclock

import (
	"fmt"
	"time"
)

// Layout is the accepted alarm time format, e.g. "1231-02-20T21:03".
const Layout = "2006-01-02T15:04"

const (
	headerLayout = "15:04 Monday, 02 January 2006"
	dayLayout    = "Monday, 02 January 2006"
	reportLayout = "02-01-2006"
)

// ParseError reports a malformed wall-clock string.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("wallclock: cannot parse %q as %s: %v", e.Input, Layout, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads text in Layout as a local wall-clock instant.
func Parse(text string) (time.Time, error) {
	return ParseIn(text, time.Local)
}

// ParseIn is Parse for an explicit location.
func ParseIn(text string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, text, loc)
	if err != nil {
		return time.Time{}, &ParseError{Input: text, Err: err}
	}
	return t, nil
}

// Format renders t in Layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// IsToday reports whether t falls on the same calendar day as now, judged in
// now's location.
func IsToday(t, now time.Time) bool {
	ty, tm, td := t.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	return ty == ny && tm == nm && td == nd
}

// Header renders the bulletin header line, e.g. "21:03 Thursday, 20 February 1231".
func Header(t time.Time) string {
	return t.Format(headerLayout)
}

// Day renders the long calendar date, e.g. "Thursday, 20 February 1231".
func Day(t time.Time) string {
	return t.Format(dayLayout)
}

// ReportDate renders the dd-mm-yyyy date used in statistics segments.
func ReportDate(t time.Time) string {
	return t.Format(reportLayout)
}

// PreviousDay returns the same wall-clock time one calendar day earlier.
func PreviousDay(t time.Time) time.Time {
	return t.AddDate(0, 0, -1)
}
