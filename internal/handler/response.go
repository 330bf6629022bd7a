package handler

import (
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const (
	errTypeValidation = "validation_error"
	errTypeNotFound   = "not_found"
	errTypeConflict   = "conflict"
	errTypeProcessing = "processing_error"
)

func respondError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, ErrorResponse{
		Error:   errType,
		Message: message,
	})
}
