package payload

// GeneratePayload is the multipart form accompanying an uploaded file.
type GeneratePayload struct {
	Mode  string `form:"mode" validate:"required,oneof=print online"`
	JobID string `form:"job_id" validate:"omitempty,max=128"`
}
