package generate_controller

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/easy-cert-batch/type/response"
)

// GenerateAsync starts the batch in the background and returns its job id.
func (ctrl *GenerateController) GenerateAsync(c *fiber.Ctx) error {
	sub, err := parseSubmission(c)
	if sub == nil {
		return err
	}

	jobID, err := ctrl.service.Launch(c.UserContext(), *sub)
	if err != nil {
		return sendGenerateError(c, sub.JobID, err)
	}

	slog.Info("Certificate job started", "job_id", jobID, "mode", sub.Mode, "filename", sub.Filename)
	return response.SendSuccess(c, "Generation started", fiber.Map{
		"job_id": jobID,
	})
}
