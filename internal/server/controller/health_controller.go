package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthController reports service readiness.
type HealthController struct {
	workingDir string
}

// NewHealthController creates a new controller.
func NewHealthController(workingDir string) *HealthController {
	return &HealthController{workingDir: workingDir}
}

// Health reports readiness and the configured work root.
func (h *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"workingDir": h.workingDir,
	})
}
