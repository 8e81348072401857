// Package renderer turns a template key plus placeholder values into a
// single-page PDF. Two strategies share the Renderer contract: filling a DOCX
// template and converting it, or stamping a text overlay onto a prebuilt
// background page.
package renderer

import (
	"context"
	"fmt"

	"github.com/sunthewhat/easy-cert-batch/internal/layout"
)

// Renderer produces one certificate page.
type Renderer interface {
	// Variant picks the size variant for a full name using the strategy's
	// own width threshold.
	Variant(fullName string) layout.SizeVariant
	Render(ctx context.Context, key layout.TemplateKey, values map[string]string) ([]byte, error)
}

// Strategy names accepted in the renderers config map.
const (
	StrategyTemplate = "template"
	StrategyOverlay  = "overlay"
)

// Options configures both strategies.
type Options struct {
	TemplatesDir    string
	PdfTemplatesDir string
	ScratchDir      string
	OnlineNamePad   int
	OnlineCoursePad int
	VerifyURL       string
}

// New builds the renderer for strategy. Both strategies share conv so
// converted backgrounds are reused across them.
func New(strategy string, opts Options, conv *CachedConverter, metrics *Metrics) (Renderer, error) {
	switch strategy {
	case StrategyTemplate:
		return NewTemplateRenderer(opts, conv, metrics), nil
	case StrategyOverlay:
		return NewOverlayRenderer(opts, conv, metrics), nil
	}
	return nil, fmt.Errorf("unknown renderer strategy %q", strategy)
}
