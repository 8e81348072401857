package generate_controller

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/easy-cert-batch/internal/jobs"
	"github.com/sunthewhat/easy-cert-batch/type/response"
)

// Download hands out a finished archive exactly once.
func (ctrl *GenerateController) Download(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.SendFailed(c, "Job ID is required")
	}

	archive, err := ctrl.service.Registry().TakeResult(jobID)
	if errors.Is(err, jobs.ErrNotReady) {
		return response.SendNotFound(c, "Result not ready")
	}
	if err != nil {
		slog.Error("Failed to fetch job result", "error", err, "job_id", jobID)
		return response.SendInternalError(c, err)
	}

	slog.Info("Archive downloaded", "job_id", jobID, "bytes", len(archive))
	return sendArchive(c, jobID, archive)
}
