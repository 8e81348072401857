package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/skip2/go-qrcode"

	"github.com/sunthewhat/easy-cert-batch/internal/layout"
)

type pageSize struct {
	Width, Height float64
}

// OverlayRenderer stamps positioned text onto a blank background page.
type OverlayRenderer struct {
	opts    Options
	conv    *CachedConverter
	metrics *Metrics
	conf    *model.Configuration

	backgrounds sync.Map // template path -> background pdf path
	sizes       sync.Map // background pdf path -> pageSize
}

func NewOverlayRenderer(opts Options, conv *CachedConverter, metrics *Metrics) *OverlayRenderer {
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if !metrics.HasFont() {
		slog.Warn("No font_path configured, overlay text falls back to Helvetica without Cyrillic support")
	}
	return &OverlayRenderer{opts: opts, conv: conv, metrics: metrics, conf: conf}
}

func (r *OverlayRenderer) Variant(fullName string) layout.SizeVariant {
	return layout.VariantFor(r.metrics, fullName, overlayBaseSize, overlayMaxWidth)
}

func (r *OverlayRenderer) Render(ctx context.Context, key layout.TemplateKey, values map[string]string) ([]byte, error) {
	background, err := r.background(ctx, key)
	if err != nil {
		return nil, err
	}

	size, err := r.pageSize(background)
	if err != nil {
		return nil, err
	}

	overlay, err := r.overlayPage(size, key, values)
	if err != nil {
		return nil, err
	}

	return r.merge(background, overlay)
}

// background resolves the prebuilt PDF for key or converts the DOCX
// template with every placeholder blank. Results are cached per template.
func (r *OverlayRenderer) background(ctx context.Context, key layout.TemplateKey) (string, error) {
	name, ok := layout.TemplateName(key)
	if !ok {
		return "", &TemplateNotFoundError{Key: key}
	}

	if r.opts.PdfTemplatesDir != "" {
		prebuilt := filepath.Join(r.opts.PdfTemplatesDir, name+".pdf")
		if _, err := os.Stat(prebuilt); err == nil {
			return prebuilt, nil
		}
	}

	templatePath := filepath.Join(r.opts.TemplatesDir, name+layout.TemplateExt)
	if cached, ok := r.backgrounds.Load(templatePath); ok {
		return cached.(string), nil
	}

	_, template, err := readTemplate(r.opts.TemplatesDir, key)
	if err != nil {
		return "", err
	}
	blank, err := FillDocx(template, nil)
	if err != nil {
		return "", fmt.Errorf("blank %s: %w", templatePath, err)
	}
	src, err := writeScratch(r.opts.ScratchDir, "blank", name+layout.TemplateExt, blank)
	if err != nil {
		return "", err
	}

	pdfPath, err := r.conv.Convert(ctx, src)
	if err != nil {
		return "", err
	}
	actual, _ := r.backgrounds.LoadOrStore(templatePath, pdfPath)
	return actual.(string), nil
}

func (r *OverlayRenderer) pageSize(background string) (pageSize, error) {
	if cached, ok := r.sizes.Load(background); ok {
		return cached.(pageSize), nil
	}

	dims, err := api.PageDimsFile(background)
	if err != nil {
		return pageSize{}, fmt.Errorf("read page size of %s: %w", background, err)
	}
	if len(dims) == 0 {
		return pageSize{}, fmt.Errorf("background %s has no pages", background)
	}

	size := pageSize{Width: dims[0].Width, Height: dims[0].Height}
	r.sizes.Store(background, size)
	return size, nil
}

// overlayPage draws the text runs on a transparent page of the background's
// size.
func (r *OverlayRenderer) overlayPage(size pageSize, key layout.TemplateKey, values map[string]string) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(true)
	pdf.AddPage()

	family, translate := "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	if r.metrics.HasFont() {
		pdf.AddUTF8FontFromBytes(fontFamily, "", r.metrics.fontBytes)
		family, translate = fontFamily, func(s string) string { return s }
	}

	scale := min(size.Width/refWidth, size.Height/refHeight)
	sx, sy := size.Width/refWidth, size.Height/refHeight
	place := layoutFor(key)

	draw := func(text string, a anchor, fontSize float64) {
		if strings.TrimSpace(text) == "" {
			return
		}
		text = translate(text)
		pdf.SetFont(family, "", fontSize)
		w := pdf.GetStringWidth(text)
		x := placeX(a.X*sx, w, size.Width, a.Align)
		y := placeY(a.Y*sy, fontSize, size.Height)
		pdf.Text(x, y, text)
	}

	pdf.SetTextColor(20, 20, 20)

	fullName := strings.TrimSpace(values[layout.KeyFirstName] + " " + values[layout.KeyLastName])
	draw(fullName, place.Name, place.Name.Size*scale)

	course := values[layout.KeyCourse]
	courseSize := place.Course.Size * scale
	pdf.SetFont(family, "", courseSize)
	for courseSize > minCourseSize*scale && pdf.GetStringWidth(translate(course)) > place.CourseMaxWidth*sx {
		courseSize--
		pdf.SetFont(family, "", courseSize)
	}
	draw(course, place.Course, courseSize)

	draw(DateLine(key.Kind, values), place.Dates, place.Dates.Size*scale)

	if id := values[layout.KeyCertID]; id != "" {
		draw("ID: "+id, place.ID, place.ID.Size*scale)
		if r.opts.VerifyURL != "" {
			if err := r.drawQR(pdf, VerifyLink(r.opts.VerifyURL, id), place.QR, sx, sy, scale); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("build overlay: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *OverlayRenderer) drawQR(pdf *gofpdf.Fpdf, link string, box qrBox, sx, sy, scale float64) error {
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode qr code: %w", err)
	}

	options := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verify-qr", options, bytes.NewReader(png))
	pdf.ImageOptions("verify-qr", box.X*sx, box.Y*sy, box.Size*scale, box.Size*scale, false, options, 0, "")
	return pdf.Error()
}

// merge stamps overlay onto background and returns the single-page result.
func (r *OverlayRenderer) merge(background string, overlay []byte) ([]byte, error) {
	dir, err := os.MkdirTemp(r.opts.ScratchDir, "overlay-*")
	if err != nil {
		return nil, fmt.Errorf("create overlay dir: %w", err)
	}
	defer os.RemoveAll(dir)

	overlayPath := filepath.Join(dir, "overlay.pdf")
	if err := os.WriteFile(overlayPath, overlay, 0o644); err != nil {
		return nil, fmt.Errorf("write overlay: %w", err)
	}

	outPath := filepath.Join(dir, "merged.pdf")
	if err := api.AddPDFWatermarksFile(background, outPath, nil, true, overlayPath, "scalefactor:1 abs, rotation:0", r.conf); err != nil {
		return nil, fmt.Errorf("stamp overlay onto %s: %w", background, err)
	}

	merged, err := os.ReadFile(outPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stamp produced no output for %s", background)
	}
	return merged, err
}

// DateLine formats the dates placeholders for the given kind.
func DateLine(kind layout.Kind, values map[string]string) string {
	year := values[layout.KeyYear]
	switch kind {
	case layout.SameMonthRange:
		return fmt.Sprintf("%s–%s %s %s", values[layout.KeyDay1], values[layout.KeyDay2], values[layout.KeyMonth1], year)
	case layout.CrossMonthRange:
		return fmt.Sprintf("%s %s – %s %s %s", values[layout.KeyDay1], values[layout.KeyMonth1], values[layout.KeyDay2], values[layout.KeyMonth2], year)
	default:
		return fmt.Sprintf("%s %s %s", values[layout.KeyDay1], values[layout.KeyMonth1], year)
	}
}

// VerifyLink expands pattern with id; a pattern without a verb gets id
// appended.
func VerifyLink(pattern, id string) string {
	if strings.Contains(pattern, "%s") {
		return fmt.Sprintf(pattern, id)
	}
	return strings.TrimRight(pattern, "/") + "/" + id
}
