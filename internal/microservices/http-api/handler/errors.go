package handler

import (
	"errors"
	"net/http"

	"codelens/internal/llm"
	"codelens/internal/logger"
	"codelens/internal/microservices/http-api/dto"
	"codelens/internal/microservices/http-api/repository"
	"codelens/internal/microservices/http-api/service"
	"codelens/internal/middleware/auth"

	"github.com/gin-gonic/gin"
)

// writeError maps service and repository errors to an HTTP status with an
// {error} body. Unknown errors are logged and reported as 500.
func writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, dto.ErrorResponse{Error: msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return http.StatusServiceUnavailable, "review service is not configured"
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrReviewFailed):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, repository.ErrReviewNotFound):
		return http.StatusNotFound, "review not found"
	case errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrExpiredToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrEmailInUse):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrNoChanges),
		errors.Is(err, service.ErrInvalidResetToken),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordTooLong):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
