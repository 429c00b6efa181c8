package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope written for every failed request.
type ErrorResponse struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Error     interface{} `json:"error,omitempty"`
}

// MessageResponse is a bare confirmation body, e.g. after a delete.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON writes data as the response body.
func JSON(ctx *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

// Message writes {"message": msg}.
func Message(ctx *gin.Context, status int, msg string) {
	JSON(ctx, status, MessageResponse{Message: msg})
}

// Error aborts the request chain and writes the error envelope.
func Error(ctx *gin.Context, status int, message string, err interface{}) ErrorResponse {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := ErrorResponse{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}
