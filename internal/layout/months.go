package layout

import "strings"

// Month stems in match order; "мар" precedes the May forms.
var monthStems = []struct {
	stem  string
	month int
}{
	{"jan", 1}, {"feb", 2}, {"mar", 3}, {"apr", 4}, {"may", 5}, {"jun", 6},
	{"jul", 7}, {"aug", 8}, {"sep", 9}, {"oct", 10}, {"nov", 11}, {"dec", 12},
	{"янв", 1}, {"фев", 2}, {"мар", 3}, {"апр", 4}, {"май", 5}, {"мая", 5},
	{"июн", 6}, {"июл", 7}, {"авг", 8}, {"сен", 9}, {"окт", 10}, {"ноя", 11}, {"дек", 12},
}

var monthNames = map[string][12]string{
	"en": {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	"ru": {
		"января", "февраля", "марта", "апреля", "мая", "июня",
		"июля", "августа", "сентября", "октября", "ноября", "декабря",
	},
}

// MonthFromToken returns 1-12 when token starts with a known English or
// Russian month stem, 0 otherwise. Bare numbers are never months.
func MonthFromToken(token string) int {
	token = strings.ToLower(token)
	for _, entry := range monthStems {
		if strings.HasPrefix(token, entry.stem) {
			return entry.month
		}
	}
	return 0
}

// MonthName renders month in the given locale, falling back to English.
// Out-of-range months render empty.
func MonthName(locale string, month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	names, ok := monthNames[locale]
	if !ok {
		names = monthNames["en"]
	}
	return names[month-1]
}
