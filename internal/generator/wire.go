package generator

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"

	"github.com/sunthewhat/easy-cert-batch/common/config"
	"github.com/sunthewhat/easy-cert-batch/common/util"
	"github.com/sunthewhat/easy-cert-batch/internal/batch"
	"github.com/sunthewhat/easy-cert-batch/internal/jobs"
	"github.com/sunthewhat/easy-cert-batch/internal/layout"
	"github.com/sunthewhat/easy-cert-batch/internal/renderer"
	"github.com/sunthewhat/easy-cert-batch/type/shared"
)

// FromConfig builds the service described by cfg. client may be nil when
// no archive bucket is configured.
func FromConfig(cfg *shared.Config, client *minio.Client) (*Service, error) {
	scratch := util.Deref(cfg.ScratchDir, filepath.Join(os.TempDir(), "easy-cert-batch"))
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir %s: %w", scratch, err)
	}

	metrics, err := renderer.NewMetrics(util.Deref(cfg.FontPath, ""))
	if err != nil {
		return nil, err
	}

	soffice, err := renderer.FindSoffice(util.Deref(cfg.SofficePath, ""))
	if err != nil {
		slog.Warn("LibreOffice not found, conversions will fail until it is installed", "error", err)
	} else {
		slog.Info("Using LibreOffice", "path", soffice)
	}
	conv := renderer.NewCachedConverter(renderer.NewLibreOffice(soffice, scratch))

	opts := renderer.Options{
		TemplatesDir:    *cfg.TemplatesDir,
		PdfTemplatesDir: util.Deref(cfg.PdfTemplatesDir, ""),
		ScratchDir:      scratch,
		OnlineNamePad:   util.Deref(cfg.OnlineNamePad, config.DefaultOnlinePad),
		OnlineCoursePad: util.Deref(cfg.OnlineCoursePad, config.DefaultOnlinePad),
		VerifyURL:       util.Deref(cfg.VerifyURL, ""),
	}

	var signer *renderer.CertificateSigner
	if util.Deref(cfg.SigningEnabled, false) {
		signer, err = renderer.NewCertificateSigner(util.Deref(cfg.SigningCertPath, ""), util.Deref(cfg.SigningKeyPath, ""))
		if err != nil {
			slog.Warn("Failed to initialize PDF signer, signatures will be disabled", "error", err)
		}
	}

	renderers := make(map[layout.Group]renderer.Renderer, 2)
	for _, group := range []layout.Group{layout.Print, layout.Online} {
		r, err := renderer.New(cfg.Renderers[group.String()], opts, conv, metrics)
		if err != nil {
			return nil, fmt.Errorf("%s renderer: %w", group, err)
		}
		if signer != nil {
			r = renderer.NewSigned(r, signer)
		}
		renderers[group] = r
		slog.Info("Renderer configured", "group", group.String(), "strategy", cfg.Renderers[group.String()])
	}

	pool := batch.NewPool(util.Deref(cfg.Workers, 0))
	slog.Info("Render pool ready", "workers", pool.Size())

	orchestrator := batch.NewOrchestrator(pool, layout.ValueOptions{
		MonthLocale: util.Deref(cfg.MonthLocale, config.DefaultMonthLocale),
		DefaultCity: util.Deref(cfg.DefaultCity, config.DefaultCity),
	})

	var sink ArchiveSink
	if client != nil && util.Deref(cfg.BucketArchive, "") != "" {
		sink = util.NewMinIOArchiveSink(client, *cfg.MinIoEndpoint, *cfg.BucketArchive)
	}

	return NewService(orchestrator, renderers, jobs.NewRegistry(), sink), nil
}
