// Package layout infers date ranges, certificate kinds and sizing variants
// and maps them onto the template table.
package layout

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	numericDatePattern = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{2,4})\b`)
	yearPattern        = regexp.MustCompile(`\b(20\d{2})\b`)
	dayRangePattern    = regexp.MustCompile(`(?:^|\D)(\d{1,2})\s*[-–]\s*(\d{1,2})(?:\D|$)`)
	tokenSeparators    = regexp.MustCompile(`[,;]+`)
)

// DateRange is a parsed certificate date span. Day2 and Month2 are zero for
// a single day.
type DateRange struct {
	Day1   int `json:"day1"`
	Month1 int `json:"month1"`
	Day2   int `json:"day2,omitempty"`
	Month2 int `json:"month2,omitempty"`
	Year   int `json:"year"`
}

// MultiDay reports whether the range has an end date.
func (d DateRange) MultiDay() bool {
	return d.Day2 != 0
}

// ParseDates parses free-form date text using the current year as fallback.
func ParseDates(text string) DateRange {
	return ParseDatesAt(text, time.Now())
}

// ParseDatesAt never fails. Valid numeric D.M.Y dates win over month names;
// with nothing recognizable it yields 1 January of now's year.
func ParseDatesAt(text string, now time.Time) DateRange {
	text = strings.TrimSpace(text)

	var numeric []DateRange
	for _, match := range numericDatePattern.FindAllStringSubmatch(text, -1) {
		if date, ok := numericDate(match); ok {
			numeric = append(numeric, date)
		}
		if len(numeric) == 2 {
			break
		}
	}
	switch len(numeric) {
	case 1:
		return numeric[0]
	case 2:
		first := numeric[0]
		first.Day2, first.Month2 = numeric[1].Day1, numeric[1].Month1
		return first
	}

	return parseWords(strings.ToLower(text), now)
}

// numericDate rejects matches whose day or month is out of range.
func numericDate(match []string) (DateRange, bool) {
	day, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return DateRange{}, false
	}
	if year < 100 {
		year += 2000
	}
	return DateRange{Day1: day, Month1: month, Year: year}, true
}

func parseWords(text string, now time.Time) DateRange {
	year := now.Year()
	if match := yearPattern.FindStringSubmatch(text); match != nil {
		year, _ = strconv.Atoi(match[1])
	}

	tokens := strings.Fields(tokenSeparators.ReplaceAllString(text, " "))

	var days, months []int
	for _, token := range tokens {
		if day, ok := dayToken(token); ok {
			days = append(days, day)
			continue
		}
		if month := MonthFromToken(token); month != 0 {
			months = append(months, month)
		}
	}

	result := DateRange{Day1: 1, Month1: 1, Year: year}

	if match := dayRangePattern.FindStringSubmatch(text); match != nil && len(months) > 0 {
		result.Day1, _ = strconv.Atoi(match[1])
		result.Day2, _ = strconv.Atoi(match[2])
		result.Month1, result.Month2 = months[0], months[0]
		return result
	}

	if len(days) > 0 {
		result.Day1 = days[0]
	}
	if len(months) > 0 {
		result.Month1 = months[0]
	}
	if len(days) >= 2 && len(months) > 0 {
		result.Day2 = days[1]
		result.Month2 = months[0]
		if len(months) >= 2 {
			result.Month2 = months[1]
		}
	}
	return result
}

func dayToken(token string) (int, bool) {
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	day, err := strconv.Atoi(token)
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}
