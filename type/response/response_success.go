package response

type SuccessResponse struct {
	Success bool    `json:"success"`
	Message *string `json:"message,omitempty"`
	Data    any     `json:"data,omitempty"`
}

// Success wraps msg and an optional payload; only the first payload is kept.
func Success(msg string, data ...any) *SuccessResponse {
	response := &SuccessResponse{
		Success: true,
		Message: &msg,
	}
	if len(data) > 0 {
		response.Data = data[0]
	}
	return response
}
