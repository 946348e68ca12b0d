package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISODateLayout is the canonical trade date layout.
const ISODateLayout = "2006-01-02"

// DefaultDateFormat is the day-first dashed layout many broker exports use.
const DefaultDateFormat = "02-01-2006"

var (
	isoDatePattern    = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)
	dottedDatePattern = regexp.MustCompile(`^(\d{4})\.(\d{1,2})\.(\d{1,2})`)
	usDatePattern     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})`)
	euDatePattern     = regexp.MustCompile(`^(\d{1,2})[/.](\d{1,2})[/.](\d{4})`)
	timePattern       = regexp.MustCompile(`(\d{1,2}):(\d{2})(?::(\d{2}))?`)
)

// fallbackLayouts are tried against the whole value once no positional pattern matched.
var fallbackLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"20060102",
	DefaultDateFormat,
	"01-02-2006",
	"02-Jan-2006",
	"2-Jan-06",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"Mon, 02 Jan 2006",
	"Mon Jan 2 2006",
	"Jan 2, 2006 15:04:05",
}

// NormalizeDate converts a raw date or datetime to YYYY-MM-DD. Strategies run in
// a fixed order: ISO prefix, dotted YYYY.MM.DD, US M/D/YYYY, EU DD/MM/YYYY or
// DD.MM.YYYY, then a list of common layouts. Values that match none of them
// resolve to now's date.
func NormalizeDate(raw string, now time.Time) string {
	value := strings.TrimSpace(raw)

	if m := isoDatePattern.FindStringSubmatch(value); m != nil {
		if d, ok := calendarDate(m[1], m[2], m[3]); ok {
			return d
		}
	}
	if m := dottedDatePattern.FindStringSubmatch(value); m != nil {
		if d, ok := calendarDate(m[1], m[2], m[3]); ok {
			return d
		}
	}
	if m := usDatePattern.FindStringSubmatch(value); m != nil {
		if d, ok := calendarDate(m[3], m[1], m[2]); ok {
			return d
		}
	}
	if m := euDatePattern.FindStringSubmatch(value); m != nil {
		if d, ok := calendarDate(m[3], m[2], m[1]); ok {
			return d
		}
	}
	if value != "" {
		for _, layout := range fallbackLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t.Format(ISODateLayout)
			}
		}
	}
	return now.Format(ISODateLayout)
}

// calendarDate formats year/month/day, rejecting dates that do not exist.
func calendarDate(year, month, day string) (string, bool) {
	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil {
		return "", false
	}
	if m < 1 || m > 12 || d < 1 {
		return "", false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return "", false
	}
	return t.Format(ISODateLayout), true
}

// ExtractTime returns the first valid HH:MM or HH:MM:SS found in raw as a
// zero-padded HH:MM, or nil when there is none.
func ExtractTime(raw string) *string {
	for _, m := range timePattern.FindAllStringSubmatch(raw, -1) {
		h, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if h > 23 || minute > 59 {
			continue
		}
		if m[3] != "" {
			if s, _ := strconv.Atoi(m[3]); s > 59 {
				continue
			}
		}
		out := fmt.Sprintf("%02d:%02d", h, minute)
		return &out
	}
	return nil
}
