package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CommandRunner abstracts command execution so conversions can be tested
// without a LibreOffice install.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (output string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	return output.String(), err
}

// Converter turns a document into a PDF and returns the PDF path.
type Converter interface {
	Convert(ctx context.Context, src string) (string, error)
}

var sofficeLocations = []string{
	"/usr/bin/soffice",
	"/usr/local/bin/soffice",
	"/usr/lib/libreoffice/program/soffice",
	"/opt/libreoffice/program/soffice",
	"/Applications/LibreOffice.app/Contents/MacOS/soffice",
	`C:\Program Files\LibreOffice\program\soffice.exe`,
}

// FindSoffice resolves the LibreOffice binary: the configured path, then
// PATH, then the usual install locations.
func FindSoffice(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("configured soffice_path %s: %w", configured, err)
		}
		return configured, nil
	}
	for _, name := range []string{"soffice", "libreoffice"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	for _, path := range sofficeLocations {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("soffice not found in PATH or standard locations")
}

// LibreOffice converts documents with a headless soffice process. Each call
// gets a private user profile so concurrent conversions do not contend for
// the profile lock.
type LibreOffice struct {
	Binary string
	OutDir string
	Runner CommandRunner
}

// NewLibreOffice writes converted files under scratchDir/converted.
func NewLibreOffice(binary, scratchDir string) *LibreOffice {
	return &LibreOffice{
		Binary: binary,
		OutDir: filepath.Join(scratchDir, "converted"),
		Runner: ExecRunner{},
	}
}

// Convert succeeds iff the expected PDF exists afterwards, whatever the
// exit status. A PDF left by an earlier run is removed first.
func (l *LibreOffice) Convert(ctx context.Context, src string) (string, error) {
	if l.Binary == "" {
		return "", &ConversionError{Source: src, Err: fmt.Errorf("soffice not available")}
	}
	if err := os.MkdirAll(l.OutDir, 0o755); err != nil {
		return "", &ConversionError{Source: src, Err: err}
	}

	profile, err := os.MkdirTemp("", "soffice-profile-*")
	if err != nil {
		return "", &ConversionError{Source: src, Err: err}
	}
	defer os.RemoveAll(profile)

	pdfPath := filepath.Join(l.OutDir, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))+".pdf")
	if err := os.Remove(pdfPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", &ConversionError{Source: src, Err: err}
	}

	output, runErr := l.Runner.Run(ctx, l.Binary,
		"--headless", "--norestore", "--nolockcheck",
		"-env:UserInstallation="+profileURL(profile),
		"--convert-to", "pdf",
		"--outdir", l.OutDir,
		src,
	)

	if _, statErr := os.Stat(pdfPath); statErr != nil {
		return "", &ConversionError{Source: src, Output: output, Err: runErr}
	}
	if runErr != nil {
		slog.Warn("soffice reported an error but produced output", "source", src, "error", runErr, "output", output)
	}
	return pdfPath, nil
}

func profileURL(dir string) string {
	return "file://" + filepath.ToSlash(dir)
}

// CachedConverter memoizes conversions by absolute source path. Concurrent
// misses for the same path share one conversion.
type CachedConverter struct {
	conv     Converter
	cache    sync.Map
	inflight singleflight.Group
}

func NewCachedConverter(conv Converter) *CachedConverter {
	return &CachedConverter{conv: conv}
}

func (c *CachedConverter) Convert(ctx context.Context, src string) (string, error) {
	key, err := filepath.Abs(src)
	if err != nil {
		key = src
	}

	if path, ok := c.lookup(key); ok {
		return path, nil
	}

	path, err, _ := c.inflight.Do(key, func() (any, error) {
		if path, ok := c.lookup(key); ok {
			return path, nil
		}
		path, err := c.conv.Convert(ctx, src)
		if err != nil {
			return "", err
		}
		c.cache.Store(key, path)
		return path, nil
	})
	if err != nil {
		return "", err
	}
	return path.(string), nil
}

// lookup returns a cached path whose file still exists.
func (c *CachedConverter) lookup(key string) (string, bool) {
	cached, ok := c.cache.Load(key)
	if !ok {
		return "", false
	}
	path := cached.(string)
	if _, err := os.Stat(path); err != nil {
		c.cache.Delete(key)
		return "", false
	}
	return path, true
}

// Len reports the number of cached conversions.
func (c *CachedConverter) Len() int {
	n := 0
	c.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
