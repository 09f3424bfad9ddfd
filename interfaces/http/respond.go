package http

import (
	"errors"
	"net/http"
	"strconv"

	"nova-studio/domain/dto"
	"nova-studio/infrastructure/logger"
	"nova-studio/interfaces/middleware"
	"nova-studio/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ErrorUnmarshal = "Error while unmarshal"
)

// statusOf maps usecase errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrAuthFailure), errors.Is(err, usecase.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrUnknownPlatform):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidPrompt):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNoProject),
		errors.Is(err, usecase.ErrEmptySelection),
		errors.Is(err, usecase.ErrRunInProgress),
		errors.Is(err, usecase.ErrCommandPending):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrConnectionFailure):
		return http.StatusBadGateway
	case errors.Is(err, usecase.ErrNotConfigured):
		return http.StatusNotImplemented
	case errors.Is(err, usecase.ErrAnalysisUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.GetLogger().WithField("error", err).WithField("path", c.FullPath()).Error("Request failed")
		message = http.StatusText(status)
	}
	c.JSON(status, dto.Fail(strconv.Itoa(status), message))
}

func badRequest(c *gin.Context, err error) {
	logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
	c.JSON(http.StatusBadRequest, dto.Fail("400", ErrorUnmarshal+" "+err.Error()))
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.OK(data))
}

func userID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}
