package controller

import (
	"crypto/subtle"
	"time"

	"scriptbox/internal/executor"
	"scriptbox/internal/executor/spec"
	"scriptbox/internal/telemetry"
	appErr "scriptbox/pkg/errors"
	"scriptbox/pkg/utils/logger"
	"scriptbox/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RunScriptRequest is the execution request wire shape.
type RunScriptRequest struct {
	Script  string `json:"script"`
	Kind    string `json:"kind"`
	Timeout *int   `json:"timeout"`
	APIKey  string `json:"apiKey"`
}

// RunScriptResponse is the execution result wire shape. Validation and
// execution-setup failures come back as success=false with the error
// field set; the script's own failure is a successful report.
type RunScriptResponse struct {
	Success            bool     `json:"success"`
	ScriptDir          string   `json:"scriptDir,omitempty"`
	ScriptPath         string   `json:"scriptPath,omitempty"`
	ExitCode           *int     `json:"exitCode,omitempty"`
	Stdout             string   `json:"stdout"`
	Stderr             string   `json:"stderr"`
	Timeout            bool     `json:"timeout"`
	Message            string   `json:"message,omitempty"`
	CreatedFiles       []string `json:"createdFiles"`
	CreatedDirectories []string `json:"createdDirectories"`
	Error              string   `json:"error,omitempty"`
}

// RunController handles script execution requests.
type RunController struct {
	exec   *executor.Executor
	apiKey string
}

// NewRunController creates a new controller.
func NewRunController(exec *executor.Executor, apiKey string) *RunController {
	return &RunController{exec: exec, apiKey: apiKey}
}

// RunScript executes a submitted script in a fresh session directory.
func (h *RunController) RunScript(c *gin.Context) {
	var req RunScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Credential check happens before any directory or process work.
	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.apiKey)) != 1 {
		response.Unauthorized(c, "Invalid API key")
		return
	}

	timeoutSeconds := spec.DefaultTimeoutSeconds
	if req.Timeout != nil {
		timeoutSeconds = *req.Timeout
	}

	scriptSpec, err := spec.New(req.Script, req.Kind, timeoutSeconds)
	if err != nil {
		c.JSON(200, RunScriptResponse{Success: false, Error: appErr.GetError(err).Error()})
		return
	}

	telemetry.Metrics.ExecutionsActive.Inc()
	start := time.Now()
	res, err := h.exec.Execute(c.Request.Context(), scriptSpec)
	telemetry.Metrics.ExecutionsActive.Dec()
	telemetry.Metrics.ExecutionDuration.WithLabelValues(string(scriptSpec.Kind)).Observe(time.Since(start).Seconds())

	if err != nil {
		logger.Error(c.Request.Context(), "execution setup failed", zap.Error(err))
		c.JSON(200, RunScriptResponse{
			Success: false,
			Error:   "Failed to execute script: " + appErr.GetError(err).Error(),
		})
		return
	}

	telemetry.Metrics.ExecutionsTotal.
		WithLabelValues(string(scriptSpec.Kind), telemetry.ExecutionOutcome(res.TimedOut, res.ExitCode)).
		Inc()

	exitCode := res.ExitCode
	c.JSON(200, RunScriptResponse{
		Success:            true,
		ScriptDir:          res.SessionDir,
		ScriptPath:         res.ScriptPath,
		ExitCode:           &exitCode,
		Stdout:             res.Stdout,
		Stderr:             res.Stderr,
		Timeout:            res.TimedOut,
		Message:            res.Message,
		CreatedFiles:       res.CreatedFiles,
		CreatedDirectories: res.CreatedDirs,
	})
}
