package renderer

import "github.com/sunthewhat/easy-cert-batch/internal/layout"

// Overlay coordinates are laid out on A4 landscape and scaled to the
// background page.
const (
	refWidth  = 842.0
	refHeight = 595.0

	overlayMargin   = 24.0
	overlayBaseSize = 36
	overlayMaxWidth = 560
	minCourseSize   = 10.0
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// anchor positions a text run; Y is the baseline.
type anchor struct {
	X, Y  float64
	Size  float64
	Align align
}

type qrBox struct {
	X, Y, Size float64
}

type overlayLayout struct {
	Name           anchor
	Course         anchor
	CourseMaxWidth float64
	Dates          anchor
	ID             anchor
	QR             qrBox
}

func baseLayout(nameSize float64, datesY float64) overlayLayout {
	return overlayLayout{
		Name:           anchor{X: refWidth / 2, Y: 270, Size: nameSize, Align: alignCenter},
		Course:         anchor{X: refWidth / 2, Y: 345, Size: 20, Align: alignCenter},
		CourseMaxWidth: 620,
		Dates:          anchor{X: refWidth / 2, Y: datesY, Size: 16, Align: alignCenter},
		ID:             anchor{X: refWidth - 60, Y: refHeight - 40, Size: 10, Align: alignRight},
		QR:             qrBox{X: 60, Y: refHeight - 140, Size: 90},
	}
}

var overlayLayouts = map[layout.Kind]map[layout.SizeVariant]overlayLayout{
	layout.SingleDay: {
		layout.Normal: baseLayout(36, 400),
		layout.Small:  baseLayout(28, 400),
	},
	layout.SameMonthRange: {
		layout.Normal: baseLayout(36, 405),
		layout.Small:  baseLayout(28, 405),
	},
	layout.CrossMonthRange: {
		layout.Normal: baseLayout(36, 410),
		layout.Small:  baseLayout(26, 410),
	},
}

func layoutFor(key layout.TemplateKey) overlayLayout {
	if variants, ok := overlayLayouts[key.Kind]; ok {
		if l, ok := variants[key.Variant]; ok {
			return l
		}
	}
	return baseLayout(36, 400)
}

// placeX returns the left edge for a run of width w anchored at x, clamped
// to the page margin.
func placeX(x, w, pageWidth float64, a align) float64 {
	switch a {
	case alignCenter:
		x -= w / 2
	case alignRight:
		x -= w
	}
	return clamp(x, overlayMargin, pageWidth-overlayMargin-w)
}

// placeY clamps a baseline so a run of height size stays inside the margin.
func placeY(y, size, pageHeight float64) float64 {
	return clamp(y, overlayMargin+size, pageHeight-overlayMargin)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
