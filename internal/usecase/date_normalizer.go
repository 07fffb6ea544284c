package usecase

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// isoDateLayout is the canonical output format
const isoDateLayout = "2006-01-02"

// monthNames maps Dutch month names and their common abbreviations
var monthNames = map[string]time.Month{
	"januari": time.January, "jan": time.January,
	"februari": time.February, "feb": time.February,
	"maart": time.March, "mrt": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"mei": time.May,
	"juni": time.June, "jun": time.June,
	"juli": time.July, "jul": time.July,
	"augustus": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"oktober": time.October, "okt": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// monthAlternation lists month names longest first so "september" wins over "sep"
var monthAlternation = func() string {
	names := make([]string, 0, len(monthNames))
	for name := range monthNames {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return strings.Join(names, "|")
}()

// Supported shapes: "13 januari 2024" and "september 22, 2024"
var (
	dayMonthYearRegex = regexp.MustCompile(`(?i)\b(\d{1,2})\.?\s+(` + monthAlternation + `)\.?\s+(\d{4})\b`)
	monthDayYearRegex = regexp.MustCompile(`(?i)\b(` + monthAlternation + `)\.?\s+(\d{1,2}),?\s+(\d{4})\b`)
	dayMonthRegex     = regexp.MustCompile(`(?i)\b(\d{1,2})\.?\s+(` + monthAlternation + `)\b\.?(?:\s+(\d{4}))?`)
)

// DateNormalizer converts locale date strings to YYYY-MM-DD
type DateNormalizer struct {
	clock func() time.Time
}

// NewDateNormalizer creates a normalizer; a nil clock means time.Now
func NewDateNormalizer(clock func() time.Time) *DateNormalizer {
	if clock == nil {
		clock = time.Now
	}
	return &DateNormalizer{clock: clock}
}

// Normalize returns the ISO form of raw. Blank input yields MissingDate();
// input in an unsupported shape is returned trimmed and unchanged.
func (n *DateNormalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return n.MissingDate()
	}

	if m := dayMonthYearRegex.FindStringSubmatch(trimmed); m != nil {
		if iso, ok := isoDate(m[3], m[2], m[1]); ok {
			return iso
		}
	}
	if m := monthDayYearRegex.FindStringSubmatch(trimmed); m != nil {
		if iso, ok := isoDate(m[3], m[1], m[2]); ok {
			return iso
		}
	}
	return trimmed
}

// MissingDate is the placeholder used for absent dates: today's date. It masks
// missing data, so callers that care must check for blank input themselves.
func (n *DateNormalizer) MissingDate() string {
	return n.clock().Format(isoDateLayout)
}

// LastDayMonth finds the last "<day> <month>" occurrence in text and returns
// its ISO form, using the year that follows it or else the current year.
func (n *DateNormalizer) LastDayMonth(text string) (string, bool) {
	all := dayMonthRegex.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return "", false
	}
	m := all[len(all)-1]
	year := m[3]
	if year == "" {
		year = strconv.Itoa(n.clock().Year())
	}
	return isoDate(year, m[2], m[1])
}

// isoDate validates the parts and formats them. Impossible dates such as
// 31 februari are rejected rather than rolled over.
func isoDate(year, month, day string) (string, bool) {
	mon, ok := monthNames[strings.ToLower(month)]
	if !ok {
		return "", false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return "", false
	}
	t := time.Date(y, mon, d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != mon {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, int(mon), d), true
}
