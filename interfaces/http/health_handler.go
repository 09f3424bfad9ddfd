package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type IHealthHandler interface {
	Healthz(c *gin.Context)
}

type HealthHandler struct {
	storage string
}

// NewHealthHandler reports the storage driver in use alongside the status.
func NewHealthHandler(storage string) IHealthHandler {
	return &HealthHandler{storage: storage}
}

// Healthz returns OK for health checks
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "storage": h.storage})
}
