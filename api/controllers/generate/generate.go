package generate_controller

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Generate renders the uploaded batch and responds with the archive.
func (ctrl *GenerateController) Generate(c *fiber.Ctx) error {
	sub, err := parseSubmission(c)
	if sub == nil {
		return err
	}

	jobID, archive, err := ctrl.service.Generate(c.UserContext(), *sub)
	if err != nil {
		return sendGenerateError(c, sub.JobID, err)
	}

	slog.Info("Certificates generated", "job_id", jobID, "bytes", len(archive))
	return sendArchive(c, jobID, archive)
}
