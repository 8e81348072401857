package layout

import (
	"fmt"
	"strings"
)

// Kind selects the certificate layout by the shape of the date range.
type Kind int

const (
	SingleDay Kind = iota
	SameMonthRange
	CrossMonthRange
)

var kindSlugs = [...]string{
	SingleDay:       "1day_1month",
	SameMonthRange:  "duration_day",
	CrossMonthRange: "2day_2month",
}

func (k Kind) String() string {
	if int(k) < len(kindSlugs) {
		return kindSlugs[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// PickKind classifies a date range.
func PickKind(d DateRange) Kind {
	switch {
	case !d.MultiDay():
		return SingleDay
	case d.Month1 == d.Month2:
		return SameMonthRange
	default:
		return CrossMonthRange
	}
}

// SizeVariant chooses between the normal and the small-name template.
type SizeVariant int

const (
	Normal SizeVariant = iota
	Small
)

func (v SizeVariant) String() string {
	if v == Small {
		return "small"
	}
	return "normal"
}

// Measurer reports the rendered width of text at a font size, in points.
type Measurer interface {
	Width(text string, size float64) float64
}

// VariantFor picks Small when name is wider than maxWidth at baseSize.
func VariantFor(m Measurer, name string, baseSize, maxWidth float64) SizeVariant {
	if m.Width(name, baseSize) > maxWidth {
		return Small
	}
	return Normal
}

// Group is the top-level certificate family chosen by the submit mode.
type Group int

const (
	Print Group = iota
	Online
)

func (g Group) String() string {
	if g == Online {
		return "online"
	}
	return "print"
}

// ParseGroup maps a mode selector onto a Group.
func ParseGroup(mode string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "print":
		return Print, nil
	case "online":
		return Online, nil
	}
	return Print, fmt.Errorf("unknown mode %q", mode)
}
