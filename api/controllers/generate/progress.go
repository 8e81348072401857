package generate_controller

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/easy-cert-batch/internal/jobs"
	"github.com/sunthewhat/easy-cert-batch/type/response"
	"github.com/valyala/fasthttp"
)

const pingFrame = "event: ping\ndata: {}\n\n"

// Progress streams job snapshots as server-sent events until the job
// reaches a terminal stage or the client goes away.
func (ctrl *GenerateController) Progress(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.SendFailed(c, "Job ID is required")
	}

	job := ctrl.service.Registry().Get(jobID)
	keepalive := ctrl.keepalive

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		streamProgress(w, job, keepalive)
	}))
	return nil
}

func streamProgress(w *bufio.Writer, job *jobs.Job, keepalive time.Duration) {
	notify, cancel := job.Subscribe()
	defer cancel()

	ticker := time.NewTicker(keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-notify:
			snapshot := job.Snapshot()
			data, err := json.Marshal(snapshot)
			if err != nil {
				slog.Error("Failed to encode progress", "error", err, "job_id", job.ID)
				return
			}
			if _, err := w.WriteString("data: " + string(data) + "\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				slog.Debug("Progress subscriber disconnected", "job_id", job.ID)
				return
			}
			if snapshot.Stage.Terminal() {
				return
			}
		case <-ticker.C:
			if _, err := w.WriteString(pingFrame); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				slog.Debug("Progress subscriber disconnected", "job_id", job.ID)
				return
			}
		}
	}
}
