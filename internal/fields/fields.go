// Package fields resolves canonical certificate fields from rows whose
// headers may be spelled in English, Russian or as combined "A/B" pairs.
package fields

import (
	"sort"
	"strings"

	"github.com/sunthewhat/easy-cert-batch/internal/ingest"
)

// Canonical field names.
const (
	FirstName = "first_name"
	LastName  = "last_name"
	Course    = "course"
	Dates     = "dates"
	ID        = "id"
	City      = "city"
	Country   = "country"
)

// Required lists the canonical fields a row must carry to be rendered.
var Required = []string{Course, Dates, FirstName, LastName, ID}

var aliases = map[string][]string{
	FirstName: {"имя", "name", "first name", "first_name", "имя/name", "name/имя"},
	LastName:  {"фамилия", "surname", "last name", "last_name", "фамилия/surname", "surname/фамилия"},
	Course: {
		"название тренинга", "название", "course", "course name", "course_name",
		"название тренинга/название", "название/название тренинга",
	},
	Dates:   {"даты", "дата", "dates", "date", "даты/дата", "date/dates"},
	ID:      {"id", "id/id", "идентификатор", "certificate id", "сертификат id"},
	City:    {"город", "city", "город/city", "city/город"},
	Country: {"страна", "country", "страна/country", "country/страна"},
}

// Normalize trims, lowercases, collapses inner whitespace and folds ё to е.
func Normalize(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return strings.ReplaceAll(s, "ё", "е")
}

// Row is an immutable view over a RawRow with every header variant expanded.
type Row struct {
	values map[string]string
	keys   []string
}

// NewRow expands the headers of raw once. Keys are visited in sorted order
// so lookups do not depend on map iteration.
func NewRow(raw ingest.RawRow) *Row {
	headers := make([]string, 0, len(raw))
	for header := range raw {
		headers = append(headers, header)
	}
	sort.Strings(headers)

	row := &Row{values: make(map[string]string, len(raw)*3)}
	add := func(key, value string) {
		if _, exists := row.values[key]; exists {
			return
		}
		row.values[key] = value
		row.keys = append(row.keys, key)
	}

	for _, header := range headers {
		value := raw[header]
		add(header, value)
		add(Normalize(header), value)
		if strings.Contains(header, "/") {
			for _, part := range strings.Split(header, "/") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				add(part, value)
				add(Normalize(part), value)
			}
		}
	}
	return row
}

// Get returns the value of a canonical field, or "" when no header matches.
func (r *Row) Get(canonical string) string {
	if set := aliases[canonical]; len(set) > 0 {
		for _, key := range r.keys {
			normalized := Normalize(key)
			for _, alias := range set {
				if normalized == alias {
					return strings.TrimSpace(r.values[key])
				}
			}
		}
	}
	if value, ok := r.values[canonical]; ok {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(r.values[Normalize(canonical)])
}

// Resolved holds the canonical slots of one row.
type Resolved struct {
	FirstName string
	LastName  string
	Course    string
	DatesRaw  string
	CertID    string
	City      string
	Country   string
}

// Resolve builds the canonical record for raw.
func Resolve(raw ingest.RawRow) Resolved {
	row := NewRow(raw)
	return Resolved{
		FirstName: row.Get(FirstName),
		LastName:  row.Get(LastName),
		Course:    row.Get(Course),
		DatesRaw:  row.Get(Dates),
		CertID:    row.Get(ID),
		City:      row.Get(City),
		Country:   row.Get(Country),
	}
}

// Missing returns the required canonical names that are empty in r.
func (r Resolved) Missing() []string {
	var missing []string
	for _, name := range Required {
		if r.value(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// FullName joins first and last name with a single space.
func (r Resolved) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

func (r Resolved) value(name string) string {
	switch name {
	case FirstName:
		return r.FirstName
	case LastName:
		return r.LastName
	case Course:
		return r.Course
	case Dates:
		return r.DatesRaw
	case ID:
		return r.CertID
	case City:
		return r.City
	case Country:
		return r.Country
	}
	return ""
}
