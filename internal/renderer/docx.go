package renderer

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/sunthewhat/easy-cert-batch/internal/fields"
)

var (
	// Braces may be split across runs, so only tags are allowed between them.
	placeholderPattern = regexp.MustCompile(`\{(?:<[^>]*>)*\{([^{}]*?)\}(?:<[^>]*>)*\}`)
	xmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
	fillablePart       = regexp.MustCompile(`^word/(document|header\d*|footer\d*)\.xml$`)

	textboxPattern   = regexp.MustCompile(`(?s)<wps:txbx\b[^>]*>.*?</wps:txbx>|<v:textbox\b[^>]*>.*?</v:textbox>`)
	paragraphPattern = regexp.MustCompile(`(?s)<w:p(?:\s[^>]*)?>.*?</w:p>`)
	paragraphOpen    = regexp.MustCompile(`^<w:p(?:\s[^>]*)?>`)
	runTextPattern   = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>`)
	indentPattern    = regexp.MustCompile(`<w:ind\b[^>]*/>`)
	indentAnchor     = regexp.MustCompile(`<w:jc\b|<w:rPr\b|</w:pPr>`)
)

// Indent applied to the course paragraph of online textbox templates, in
// twips.
const onlineCourseIndent = `<w:ind w:left="360" w:firstLine="0"/>`

// FillDocx substitutes {{ Name }} placeholders in the document body, headers
// and footers. Unknown placeholders render empty; a nil map blanks them all.
func FillDocx(template []byte, values map[string]string) ([]byte, error) {
	return fillDocx(template, values, nil)
}

// fillDocx is FillDocx with an optional extra pass over each filled part.
func fillDocx(template []byte, values map[string]string, patch func([]byte) []byte) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}

	var out bytes.Buffer
	writer := zip.NewWriter(&out)

	for _, file := range reader.File {
		content, err := readZipFile(file)
		if err != nil {
			return nil, err
		}
		if fillablePart.MatchString(file.Name) {
			content = fillXML(content, values)
			if patch != nil {
				content = patch(content)
			}
		}

		entry, err := writer.CreateHeader(&zip.FileHeader{
			Name:     file.Name,
			Method:   file.Method,
			Modified: file.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", file.Name, err)
		}
		if _, err := entry.Write(content); err != nil {
			return nil, fmt.Errorf("write %s: %w", file.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	return out.Bytes(), nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Name, err)
	}
	return content, nil
}

// fillXML replaces each placeholder span, including any run markup inside
// it, with the escaped value. The surrounding runs stay balanced because the
// removed markup closes and reopens the same elements.
func fillXML(content []byte, values map[string]string) []byte {
	return placeholderPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		inner := placeholderPattern.FindSubmatch(match)[1]
		name := strings.TrimSpace(xmlTagPattern.ReplaceAllString(string(inner), ""))

		var escaped bytes.Buffer
		_ = xml.EscapeText(&escaped, []byte(values[name]))
		return escaped.Bytes()
	})
}

// indentCourse returns a pass that gives the textbox paragraph holding
// course a fixed left indent and no first-line indent. Paragraphs outside
// wps:txbx and v:textbox are left alone.
func indentCourse(course string) func([]byte) []byte {
	words := strings.Fields(fields.Normalize(course))
	if len(words) == 0 {
		return nil
	}
	head := strings.Join(words[:min(3, len(words))], " ")

	return func(content []byte) []byte {
		return textboxPattern.ReplaceAllFunc(content, func(box []byte) []byte {
			return paragraphPattern.ReplaceAllFunc(box, func(p []byte) []byte {
				if !strings.Contains(paragraphText(p), head) {
					return p
				}
				return setIndent(p)
			})
		})
	}
}

func paragraphText(p []byte) string {
	var text strings.Builder
	for _, m := range runTextPattern.FindAllSubmatch(p, -1) {
		text.WriteString(html.UnescapeString(string(m[1])))
	}
	return strings.Join(strings.Fields(fields.Normalize(text.String())), " ")
}

func setIndent(p []byte) []byte {
	s := string(p)
	switch {
	case strings.Contains(s, "<w:pPr/>"):
		return []byte(strings.Replace(s, "<w:pPr/>", "<w:pPr>"+onlineCourseIndent+"</w:pPr>", 1))
	case strings.Contains(s, "<w:pPr>") || strings.Contains(s, "<w:pPr "):
		start := strings.Index(s, "<w:pPr")
		end := strings.Index(s[start:], "</w:pPr>")
		if end < 0 {
			return p
		}
		end += start + len("</w:pPr>")
		props := s[start:end]
		if indentPattern.MatchString(props) {
			props = indentPattern.ReplaceAllLiteralString(props, onlineCourseIndent)
		} else {
			at := indentAnchor.FindStringIndex(props)
			props = props[:at[0]] + onlineCourseIndent + props[at[0]:]
		}
		return []byte(s[:start] + props + s[end:])
	default:
		open := paragraphOpen.FindString(s)
		return []byte(open + "<w:pPr>" + onlineCourseIndent + "</w:pPr>" + s[len(open):])
	}
}
