package generate_controller

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/easy-cert-batch/common/util"
	"github.com/sunthewhat/easy-cert-batch/internal/batch"
	"github.com/sunthewhat/easy-cert-batch/internal/generator"
	"github.com/sunthewhat/easy-cert-batch/internal/ingest"
	"github.com/sunthewhat/easy-cert-batch/internal/jobs"
	"github.com/sunthewhat/easy-cert-batch/type/payload"
	"github.com/sunthewhat/easy-cert-batch/type/response"
)

// parseSubmission reads the multipart form. A nil submission means a
// response has already been written.
func parseSubmission(c *fiber.Ctx) (*generator.Submission, error) {
	body := new(payload.GeneratePayload)
	if err := c.BodyParser(body); err != nil {
		return nil, response.SendFailed(c, "Invalid form data")
	}

	if err := util.ValidateStruct(*body); err != nil {
		messages := util.GetValidationErrors(err)
		return nil, response.SendFailed(c, messages[0])
	}

	file, err := c.FormFile("file")
	if err != nil {
		return nil, response.SendFailed(c, "No file uploaded")
	}
	if file.Size == 0 {
		return nil, response.SendFailed(c, "Uploaded file is empty")
	}
	if file.Size > MaxUploadSize {
		return nil, response.SendFailed(c, fmt.Sprintf("File size exceeds %dMB limit", MaxUploadSize>>20))
	}

	src, err := file.Open()
	if err != nil {
		slog.Error("Failed to open uploaded file", "error", err, "filename", file.Filename)
		return nil, response.SendError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		slog.Error("Failed to read uploaded file", "error", err, "filename", file.Filename)
		return nil, response.SendError(c, "Failed to read uploaded file")
	}

	return &generator.Submission{
		JobID:    body.JobID,
		Mode:     body.Mode,
		Filename: file.Filename,
		Data:     data,
	}, nil
}

// sendGenerateError maps pipeline failures onto status codes. Client-side
// problems carry their message, everything else is logged and hidden.
func sendGenerateError(c *fiber.Ctx, jobID string, err error) error {
	switch {
	case errors.Is(err, jobs.ErrJobExists):
		return response.SendConflict(c, fmt.Sprintf("Job %s already started", jobID))
	case errors.Is(err, generator.ErrInvalidMode),
		errors.Is(err, ingest.ErrFormat),
		errors.Is(err, batch.ErrZeroSuccess):
		return response.SendFailed(c, err.Error())
	default:
		slog.Error("Certificate generation failed", "error", err, "job_id", jobID)
		return response.SendError(c, "Failed to generate certificates")
	}
}

func sendArchive(c *fiber.Ctx, jobID string, archive []byte) error {
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="certificates_%s.zip"`, jobID))
	c.Set("X-Job-Id", jobID)
	return c.Status(fiber.StatusOK).Send(archive)
}
