package layout

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunthewhat/easy-cert-batch/internal/fields"
)

var fixedNow = time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

func TestParseDatesAt(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected DateRange
		kind     Kind
	}{
		{"same month numeric", "10.01.25 - 17.01.25", DateRange{Day1: 10, Month1: 1, Day2: 17, Month2: 1, Year: 2025}, SameMonthRange},
		{"single numeric", "01.06.25", DateRange{Day1: 1, Month1: 6, Year: 2025}, SingleDay},
		{"cross month numeric", "10.01.25 - 17.02.25", DateRange{Day1: 10, Month1: 1, Day2: 17, Month2: 2, Year: 2025}, CrossMonthRange},
		{"four digit year", "3.4.2024", DateRange{Day1: 3, Month1: 4, Year: 2024}, SingleDay},
		{"day range with month", "10-17 January 2025", DateRange{Day1: 10, Month1: 1, Day2: 17, Month2: 1, Year: 2025}, SameMonthRange},
		{"en dash range russian", "10 – 12 марта 2024", DateRange{Day1: 10, Month1: 3, Day2: 12, Month2: 3, Year: 2024}, SameMonthRange},
		{"two months", "30 May, 2 June 2025", DateRange{Day1: 30, Month1: 5, Day2: 2, Month2: 6, Year: 2025}, CrossMonthRange},
		{"two days one month", "5 and 6 oct 2023", DateRange{Day1: 5, Month1: 10, Day2: 6, Month2: 10, Year: 2023}, SameMonthRange},
		{"day and month", "14 февраля", DateRange{Day1: 14, Month1: 2, Year: 2026}, SingleDay},
		{"nothing recognizable", "tbd", DateRange{Day1: 1, Month1: 1, Year: 2026}, SingleDay},
		{"empty", "", DateRange{Day1: 1, Month1: 1, Year: 2026}, SingleDay},
		{"numbers are not months", "5 6 2025", DateRange{Day1: 5, Month1: 1, Year: 2025}, SingleDay},
		{"month out of range", "10.13.25", DateRange{Day1: 1, Month1: 1, Year: 2026}, SingleDay},
		{"zero day and month", "00.00.25", DateRange{Day1: 1, Month1: 1, Year: 2026}, SingleDay},
		{"invalid end date dropped", "10.01.25 - 17.13.25", DateRange{Day1: 10, Month1: 1, Year: 2025}, SingleDay},
		{"day out of range", "32.01.25 - 05.02.25", DateRange{Day1: 5, Month1: 2, Year: 2025}, SingleDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDatesAt(tt.text, fixedNow)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.kind, PickKind(got))
		})
	}
}

func TestMonthFromToken(t *testing.T) {
	assert.Equal(t, 3, MonthFromToken("March"))
	assert.Equal(t, 3, MonthFromToken("марта"))
	assert.Equal(t, 5, MonthFromToken("мая"))
	assert.Equal(t, 5, MonthFromToken("май"))
	assert.Equal(t, 12, MonthFromToken("DECEMBER"))
	assert.Equal(t, 0, MonthFromToken("12"))
	assert.Equal(t, 0, MonthFromToken("week"))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "January", MonthName("en", 1))
	assert.Equal(t, "декабря", MonthName("ru", 12))
	assert.Equal(t, "March", MonthName("de", 3))
	assert.Equal(t, "", MonthName("en", 13))
}

func TestTemplateKeysAreTotal(t *testing.T) {
	keys := AllKeys()
	require.Len(t, keys, 12)

	seen := map[string]bool{}
	for _, key := range keys {
		name, ok := TemplateName(key)
		require.True(t, ok, "no template for %s", key)
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "template %s used twice", name)
		seen[name] = true
	}
}

func TestParseGroup(t *testing.T) {
	group, err := ParseGroup(" Online ")
	require.NoError(t, err)
	assert.Equal(t, Online, group)

	_, err = ParseGroup("fax")
	assert.Error(t, err)
}

type runeMeasurer struct{}

func (runeMeasurer) Width(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * 0.5
}

func TestVariantFor(t *testing.T) {
	assert.Equal(t, Normal, VariantFor(runeMeasurer{}, "Ann Lee", 28, 400))
	assert.Equal(t, Small, VariantFor(runeMeasurer{}, "Konstantin Konstantinopolsky-Rimsky", 28, 400))
}

func TestCheckTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "template_duration_day.docx"), []byte("x"), 0o644))

	report := CheckTemplates(dir)

	assert.True(t, report.TemplatesDirExists)
	assert.Equal(t, []string{"template_duration_day.docx"}, report.Available)
	assert.Len(t, report.Missing, 11)
	assert.False(t, report.Complete())

	missingDir := CheckTemplates(filepath.Join(dir, "nope"))
	assert.False(t, missingDir.TemplatesDirExists)
	assert.Len(t, missingDir.Missing, 12)
}

func TestFieldValues(t *testing.T) {
	row := fields.Resolved{FirstName: "Anna", LastName: "Lee", Course: "Go", CertID: "7"}
	opts := ValueOptions{MonthLocale: "en", DefaultCity: "Москва"}

	single := FieldValues(row, DateRange{Day1: 1, Month1: 6, Year: 2025}, opts)
	assert.Equal(t, "Москва", single[KeyCity])
	assert.Equal(t, "June", single[KeyMonth1])
	assert.Equal(t, "2025", single[KeyYear])
	assert.NotContains(t, single, KeyDay2)

	row.City = "Berlin"
	span := FieldValues(row, DateRange{Day1: 30, Month1: 5, Day2: 2, Month2: 6, Year: 2025}, opts)
	assert.Equal(t, "Berlin", span[KeyCity])
	assert.Equal(t, "2", span[KeyDay2])
	assert.Equal(t, "June", span[KeyMonth2])
}
