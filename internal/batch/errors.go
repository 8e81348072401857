package batch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrZeroSuccess   = errors.New("no certificates were generated")
)

// RequiredColumns is the header hint shown when nothing could be rendered.
var RequiredColumns = []string{
	"Имя/Name",
	"Фамилия/Surname",
	"Название тренинга/Название",
	"Даты/Дата",
	"ID/Id",
	"(опц.) Город/City",
	"(опц.) Страна/Country",
}

// MissingFieldsError marks a row skipped for empty required fields.
type MissingFieldsError struct {
	Row    int
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, ErrMissingFields, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrMissingFields
}

// ZeroSuccessError fails a batch in which every row failed.
type ZeroSuccessError struct {
	Required []string
	Detected []string
}

func (e *ZeroSuccessError) Error() string {
	return fmt.Sprintf("%s. Required columns: %s. Detected columns: %s",
		ErrZeroSuccess, strings.Join(e.Required, ", "), strings.Join(e.Detected, ", "))
}

func (e *ZeroSuccessError) Unwrap() error {
	return ErrZeroSuccess
}
