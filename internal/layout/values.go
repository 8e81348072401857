package layout

import (
	"strconv"

	"github.com/sunthewhat/easy-cert-batch/internal/fields"
)

// Placeholder names used by the certificate templates.
const (
	KeyFirstName = "Имя"
	KeyLastName  = "Фамилия"
	KeyCourse    = "Тренинг"
	KeyCertID    = "Идентификатор"
	KeyCity      = "Город"
	KeyCountry   = "Страна"
	KeyYear      = "Год"
	KeyDay1      = "Дата1"
	KeyMonth1    = "Месяц1"
	KeyDay2      = "Дата2"
	KeyMonth2    = "Месяц2"
)

// ValueOptions carries the deployment-wide value defaults.
type ValueOptions struct {
	MonthLocale string
	DefaultCity string
}

// FieldValues builds the placeholder map for one certificate.
func FieldValues(row fields.Resolved, dates DateRange, opts ValueOptions) map[string]string {
	city := row.City
	if city == "" {
		city = opts.DefaultCity
	}

	values := map[string]string{
		KeyFirstName: row.FirstName,
		KeyLastName:  row.LastName,
		KeyCourse:    row.Course,
		KeyCertID:    row.CertID,
		KeyCity:      city,
		KeyCountry:   row.Country,
		KeyYear:      strconv.Itoa(dates.Year),
		KeyDay1:      strconv.Itoa(dates.Day1),
		KeyMonth1:    MonthName(opts.MonthLocale, dates.Month1),
	}
	if dates.MultiDay() {
		values[KeyDay2] = strconv.Itoa(dates.Day2)
		values[KeyMonth2] = MonthName(opts.MonthLocale, dates.Month2)
	}
	return values
}
