package batch

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const maxNamePart = 100

var unsafeChars = regexp.MustCompile(`[\\/:*?"<>|]+`)

// SanitizeName replaces path-unsafe characters and spaces with underscores
// and truncates to 100 characters.
func SanitizeName(s string) string {
	s = strings.ReplaceAll(unsafeChars.ReplaceAllString(s, "_"), " ", "_")
	if runes := []rune(s); len(runes) > maxNamePart {
		s = string(runes[:maxNamePart])
	}
	return s
}

// EntryName is the archive member name for one certificate. Equal
// (id, surname, first name) triples collide.
func EntryName(certID, lastName, firstName string) string {
	return fmt.Sprintf("%s_%s_%s.pdf", SanitizeName(certID), SanitizeName(lastName), SanitizeName(firstName))
}

// archive streams entries into an in-memory zip.
type archive struct {
	buf    bytes.Buffer
	writer *zip.Writer
}

func newArchive() *archive {
	a := &archive{}
	a.writer = zip.NewWriter(&a.buf)
	return a
}

func (a *archive) add(name string, content []byte) error {
	entry, err := a.writer.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("add %s to archive: %w", name, err)
	}
	if _, err := entry.Write(content); err != nil {
		return fmt.Errorf("write %s to archive: %w", name, err)
	}
	return nil
}

func (a *archive) close() ([]byte, error) {
	if err := a.writer.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return a.buf.Bytes(), nil
}
