package renderer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/sunthewhat/easy-cert-batch/common/util"
	"github.com/sunthewhat/easy-cert-batch/internal/layout"
)

// Name sizing for the DOCX templates.
const (
	fillBaseSize = 28
	fillMaxWidth = 400
)

const nbsp = "\u00a0"

// TemplateRenderer fills a DOCX template and converts it to PDF.
type TemplateRenderer struct {
	opts    Options
	conv    *CachedConverter
	metrics *Metrics
}

func NewTemplateRenderer(opts Options, conv *CachedConverter, metrics *Metrics) *TemplateRenderer {
	return &TemplateRenderer{opts: opts, conv: conv, metrics: metrics}
}

func (r *TemplateRenderer) Variant(fullName string) layout.SizeVariant {
	return layout.VariantFor(r.metrics, fullName, fillBaseSize, fillMaxWidth)
}

func (r *TemplateRenderer) Render(ctx context.Context, key layout.TemplateKey, values map[string]string) ([]byte, error) {
	path, template, err := readTemplate(r.opts.TemplatesDir, key)
	if err != nil {
		return nil, err
	}

	var patch func([]byte) []byte
	if key.Group == layout.Online {
		patch = indentCourse(values[layout.KeyCourse])
		values = r.padOnline(values)
	}

	filled, err := fillDocx(template, values, patch)
	if err != nil {
		return nil, fmt.Errorf("fill %s: %w", path, err)
	}

	// Identical documents share a path and therefore a cached conversion.
	src, err := writeScratch(r.opts.ScratchDir, "filled", util.Digest(filled)+layout.TemplateExt, filled)
	if err != nil {
		return nil, err
	}

	pdfPath, err := r.conv.Convert(ctx, src)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(pdfPath)
}

func (r *TemplateRenderer) padOnline(values map[string]string) map[string]string {
	padded := maps.Clone(values)
	if padded == nil {
		padded = map[string]string{}
	}
	namePad := strings.Repeat(nbsp, r.opts.OnlineNamePad)
	padded[layout.KeyFirstName] = namePad + padded[layout.KeyFirstName]
	padded[layout.KeyCourse] = strings.Repeat(nbsp, r.opts.OnlineCoursePad) + padded[layout.KeyCourse]
	return padded
}

// readTemplate loads the DOCX backing key.
func readTemplate(dir string, key layout.TemplateKey) (string, []byte, error) {
	name, ok := layout.TemplateName(key)
	if !ok {
		return "", nil, &TemplateNotFoundError{Key: key}
	}

	path := filepath.Join(dir, name+layout.TemplateExt)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil, &TemplateNotFoundError{Key: key, Path: path}
	}
	if err != nil {
		return "", nil, fmt.Errorf("read template %s: %w", path, err)
	}
	return path, data, nil
}

// writeScratch writes data under scratchDir/sub/name via a rename so
// concurrent writers of the same name never expose a partial file.
func writeScratch(scratchDir, sub, name string, data []byte) (string, error) {
	dir := filepath.Join(scratchDir, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close scratch file: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("move scratch file: %w", err)
	}
	return path, nil
}
