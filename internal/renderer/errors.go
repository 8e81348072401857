package renderer

import (
	"errors"
	"fmt"

	"github.com/sunthewhat/easy-cert-batch/internal/layout"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrConversion       = errors.New("document conversion failed")
)

// TemplateNotFoundError reports a key whose backing file is absent.
type TemplateNotFoundError struct {
	Key  layout.TemplateKey
	Path string
}

func (e *TemplateNotFoundError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: no template registered for %s", ErrTemplateNotFound, e.Key)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrTemplateNotFound, e.Path, e.Key)
}

func (e *TemplateNotFoundError) Unwrap() error {
	return ErrTemplateNotFound
}

// ConversionError reports that the converter left no output file. Output
// holds the tool's diagnostic text for logging only.
type ConversionError struct {
	Source string
	Output string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrConversion, e.Source, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrConversion, e.Source)
}

func (e *ConversionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConversion, e.Err}
	}
	return []error{ErrConversion}
}
