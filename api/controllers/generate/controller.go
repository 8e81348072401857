package generate_controller

import (
	"time"

	"github.com/sunthewhat/easy-cert-batch/internal/generator"
)

// MaxUploadSize bounds the uploaded spreadsheet.
const MaxUploadSize = 20 << 20

// GenerateController handles batch submission, progress and result requests
type GenerateController struct {
	service        *generator.Service
	templatesDir   string
	sampleWorkbook string
	keepalive      time.Duration
}

// NewGenerateController creates a new generate controller with injected dependencies
func NewGenerateController(service *generator.Service, templatesDir string, sampleWorkbook string, keepalive time.Duration) *GenerateController {
	if keepalive <= 0 {
		keepalive = 15 * time.Second
	}
	return &GenerateController{
		service:        service,
		templatesDir:   templatesDir,
		sampleWorkbook: sampleWorkbook,
		keepalive:      keepalive,
	}
}
