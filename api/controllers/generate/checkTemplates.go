package generate_controller

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/easy-cert-batch/internal/layout"
	"github.com/sunthewhat/easy-cert-batch/type/response"
)

// CheckTemplates reports which of the twelve templates exist on disk.
func (ctrl *GenerateController) CheckTemplates(c *fiber.Ctx) error {
	report := layout.CheckTemplates(ctrl.templatesDir)
	if !report.Complete() {
		slog.Warn("Templates missing", "missing", report.Missing, "dir", report.TemplatesDir)
	}
	return response.SendSuccess(c, "Template check", report)
}
