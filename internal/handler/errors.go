package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
	"github.com/jengzang/llm-benchmarks-backend/internal/service"
	"github.com/jengzang/llm-benchmarks-backend/pkg/response"
)

// fail maps service and store errors to status codes
func fail(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		response.BadRequest(c, message, err)
	case errors.Is(err, repository.ErrNotFound):
		response.NotFound(c, message, err)
	case errors.Is(err, repository.ErrConflict):
		response.Conflict(c, message, err)
	case errors.Is(err, repository.ErrBackupUnsupported):
		response.Error(c, http.StatusNotImplemented, message, err)
	default:
		response.InternalError(c, message, err)
	}
}
