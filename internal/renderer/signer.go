package renderer

import (
	"bytes"
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"
	"time"

	digitorus_pdf "github.com/digitorus/pdf"
	"github.com/digitorus/pdfsign/sign"

	"github.com/sunthewhat/easy-cert-batch/internal/layout"
)

// CertificateSigner applies a certification signature to rendered pages.
type CertificateSigner struct {
	certificate *x509.Certificate
	privateKey  *rsa.PrivateKey
}

// NewCertificateSigner loads a PEM certificate and an RSA key in PKCS#1 or
// PKCS#8 form.
func NewCertificateSigner(certPath, keyPath string) (*CertificateSigner, error) {
	if certPath == "" || keyPath == "" {
		return nil, fmt.Errorf("signing enabled but certificate or key path not configured")
	}

	certBlock, err := readPEM(certPath)
	if err != nil {
		return nil, err
	}
	certificate, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	keyBlock, err := readPEM(keyPath)
	if err != nil {
		return nil, err
	}
	privateKey, err := parseRSAKey(keyBlock.Bytes)
	if err != nil {
		return nil, err
	}

	slog.Info("Certificate signer initialized",
		"cert_subject", certificate.Subject.String(),
		"cert_expiry", certificate.NotAfter)

	return &CertificateSigner{certificate: certificate, privateKey: privateKey}, nil
}

func readPEM(path string) (*pem.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM from %s", path)
	}
	return block, nil
}

func parseRSAKey(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA format")
	}
	return rsaKey, nil
}

// SignPDF returns the signed document. Signing failures fall back to the
// unsigned bytes so a bad signature never costs a certificate.
func (s *CertificateSigner) SignPDF(pdfBytes []byte, certID string) (signed []byte) {
	if len(pdfBytes) == 0 {
		return pdfBytes
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic occurred during PDF signing", "panic", r, "cert_id", certID)
			signed = pdfBytes
		}
	}()

	signData := sign.SignData{
		Signature: sign.SignDataSignature{
			Info: sign.SignDataSignatureInfo{
				Name:     "Easy Cert Batch",
				Location: "Certificate Generator",
				Reason:   fmt.Sprintf("Certificate %s issued", certID),
				Date:     time.Now(),
			},
			CertType:   sign.CertificationSignature,
			DocMDPPerm: sign.AllowFillingExistingFormFieldsAndSignaturesPerms,
		},
		Signer:      s.privateKey,
		Certificate: s.certificate,
	}

	input := bytes.NewReader(pdfBytes)
	pdfReader, err := digitorus_pdf.NewReader(input, int64(len(pdfBytes)))
	if err != nil {
		slog.Warn("Failed to read PDF for signing, returning unsigned PDF", "error", err, "cert_id", certID)
		return pdfBytes
	}

	var output bytes.Buffer
	if err := sign.Sign(bytes.NewReader(pdfBytes), &output, pdfReader, int64(len(pdfBytes)), signData); err != nil || output.Len() == 0 {
		slog.Warn("PDF signing failed, returning unsigned PDF", "error", err, "cert_id", certID)
		return pdfBytes
	}
	return output.Bytes()
}

// Signed wraps a Renderer and signs every page it produces.
type Signed struct {
	Renderer
	signer *CertificateSigner
}

func NewSigned(inner Renderer, signer *CertificateSigner) *Signed {
	return &Signed{Renderer: inner, signer: signer}
}

func (s *Signed) Render(ctx context.Context, key layout.TemplateKey, values map[string]string) ([]byte, error) {
	page, err := s.Renderer.Render(ctx, key, values)
	if err != nil {
		return nil, err
	}
	return s.signer.SignPDF(page, values[layout.KeyCertID]), nil
}
