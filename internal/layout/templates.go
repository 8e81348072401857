package layout

import (
	"fmt"
	"os"
	"path/filepath"
)

// TemplateKey selects one backing template.
type TemplateKey struct {
	Group   Group
	Kind    Kind
	Variant SizeVariant
}

func (k TemplateKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Group, k.Kind, k.Variant)
}

// TemplateExt is the extension of fill templates.
const TemplateExt = ".docx"

var templateNames = map[TemplateKey]string{
	{Print, SameMonthRange, Normal}:   "template_duration_day",
	{Print, SameMonthRange, Small}:    "template_small_duration_day",
	{Print, CrossMonthRange, Normal}:  "template2_2day_2month",
	{Print, CrossMonthRange, Small}:   "template2_small_2day_2month",
	{Print, SingleDay, Normal}:        "template3_1day_1month",
	{Print, SingleDay, Small}:         "template3_small_1day_1month",
	{Online, SameMonthRange, Normal}:  "template-online_duration_day",
	{Online, SameMonthRange, Small}:   "template-online_small_duration_day",
	{Online, CrossMonthRange, Normal}: "template-online2_2day_2month",
	{Online, CrossMonthRange, Small}:  "template-online2_small_2day_2month",
	{Online, SingleDay, Normal}:       "template-online3_1day_1month",
	{Online, SingleDay, Small}:        "template-online3_small_1day_1month",
}

// TemplateName returns the base name, without extension, backing key.
func TemplateName(key TemplateKey) (string, bool) {
	name, ok := templateNames[key]
	return name, ok
}

// AllKeys enumerates the twelve template keys in a stable order.
func AllKeys() []TemplateKey {
	keys := make([]TemplateKey, 0, 12)
	for _, group := range []Group{Print, Online} {
		for _, kind := range []Kind{SameMonthRange, CrossMonthRange, SingleDay} {
			for _, variant := range []SizeVariant{Normal, Small} {
				keys = append(keys, TemplateKey{Group: group, Kind: kind, Variant: variant})
			}
		}
	}
	return keys
}

// TemplateReport lists which fill templates exist under a directory.
type TemplateReport struct {
	Available          []string `json:"available"`
	Missing            []string `json:"missing"`
	TemplatesDir       string   `json:"templates_dir"`
	TemplatesDirExists bool     `json:"templates_dir_exists"`
}

// Complete reports whether every key has a template on disk.
func (r TemplateReport) Complete() bool {
	return r.TemplatesDirExists && len(r.Missing) == 0
}

// CheckTemplates stats the template file of every key under dir.
func CheckTemplates(dir string) TemplateReport {
	report := TemplateReport{
		Available:    []string{},
		Missing:      []string{},
		TemplatesDir: dir,
	}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		report.TemplatesDirExists = true
	}

	for _, key := range AllKeys() {
		name, ok := TemplateName(key)
		if !ok {
			report.Missing = append(report.Missing, key.String())
			continue
		}
		file := name + TemplateExt
		if _, err := os.Stat(filepath.Join(dir, file)); err == nil {
			report.Available = append(report.Available, file)
		} else {
			report.Missing = append(report.Missing, file)
		}
	}
	return report
}
