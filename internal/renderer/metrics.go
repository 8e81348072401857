package renderer

import (
	"fmt"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
)

const fontFamily = "certfont"

// Metrics measures text with the certificate font. Without a font file it
// estimates half an em per rune.
type Metrics struct {
	mu        sync.Mutex
	pdf       *gofpdf.Fpdf
	fontBytes []byte
}

// NewMetrics loads the TrueType font at fontPath; an empty path selects the
// estimate.
func NewMetrics(fontPath string) (*Metrics, error) {
	m := &Metrics{}
	if fontPath == "" {
		return m, nil
	}

	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", fontPath, err)
	}

	pdf := gofpdf.New("L", "pt", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", data)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load font %s: %w", fontPath, err)
	}

	m.pdf = pdf
	m.fontBytes = data
	return m, nil
}

// Width returns the width of text at size, in points.
func (m *Metrics) Width(text string, size float64) float64 {
	if m.pdf == nil {
		return size * float64(max(1, utf8.RuneCountInString(text))) * 0.5
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFont(fontFamily, "", size)
	return m.pdf.GetStringWidth(text)
}

// HasFont reports whether a real font is loaded.
func (m *Metrics) HasFont() bool {
	return m.pdf != nil
}
