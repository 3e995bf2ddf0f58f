package types

// Status constants for API responses
const (
	StatusOK         = "ok"
	StatusError      = "error"
	StatusProcessing = "processing"
	StatusFailed     = "failed"
	StatusQueued     = "queued"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`  // One of the Status constants above
	Message string `json:"message"` // Human-readable message
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// JobResponse for async job status
type JobResponse struct {
	BaseResponse
	JobID    uint        `json:"jobId"`
	JobType  string      `json:"jobType,omitempty"`
	Progress int         `json:"progress,omitempty"` // 0-100
	Result   interface{} `json:"result,omitempty"`
}

// CountResponse for operations that report how many records they touched
type CountResponse struct {
	BaseResponse
	Count int `json:"count"`
}

// NewErrorResponse builds the standard error envelope
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Status:  StatusError,
		Message: message,
	}
}
