package controller

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"scriptbox/internal/fileserve"
	"scriptbox/internal/telemetry"
	appErr "scriptbox/pkg/errors"
	"scriptbox/pkg/utils/logger"
	"scriptbox/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileController serves execution artifacts from the confined work root.
type FileController struct {
	fs *fileserve.Server
}

// NewFileController creates a new controller.
func NewFileController(fs *fileserve.Server) *FileController {
	return &FileController{fs: fs}
}

// Head reports file size and range capability without a body.
func (h *FileController) Head(c *gin.Context) {
	info, err := h.fs.Resolve(c.Param("filepath"))
	if err != nil {
		h.reject(c, err)
		return
	}
	telemetry.Metrics.FileRequestsTotal.WithLabelValues("ok").Inc()
	c.Header("Content-Length", strconv.FormatInt(info.Size, 10))
	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Type", contentType(info.Path))
	c.Status(http.StatusOK)
}

// Get streams the file, honoring a single bytes=start-end range when one
// parses; anything unparseable falls back to a full transfer.
func (h *FileController) Get(c *gin.Context) {
	info, err := h.fs.Resolve(c.Param("filepath"))
	if err != nil {
		h.reject(c, err)
		return
	}

	file, err := os.Open(info.Path)
	if err != nil {
		h.reject(c, appErr.Wrap(err, appErr.FileReadFailed))
		return
	}
	defer func() { _ = file.Close() }()

	telemetry.Metrics.FileRequestsTotal.WithLabelValues("ok").Inc()
	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Type", contentType(info.Path))

	if byteRange, ok := fileserve.ParseRange(c.GetHeader("Range"), info.Size); ok {
		if _, err := file.Seek(byteRange.Start, io.SeekStart); err != nil {
			h.reject(c, appErr.Wrap(err, appErr.FileReadFailed))
			return
		}
		length := byteRange.End - byteRange.Start + 1
		c.Header("Content-Length", strconv.FormatInt(length, 10))
		c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", byteRange.Start, byteRange.End, info.Size))
		c.Status(http.StatusPartialContent)
		if _, err := io.CopyN(c.Writer, file, length); err != nil {
			logger.Warn(c.Request.Context(), "partial file stream interrupted", zap.Error(err))
		}
		return
	}

	c.Header("Content-Length", strconv.FormatInt(info.Size, 10))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		logger.Warn(c.Request.Context(), "file stream interrupted", zap.Error(err))
	}
}

func (h *FileController) reject(c *gin.Context, err error) {
	telemetry.Metrics.FileRequestsTotal.WithLabelValues("rejected").Inc()
	response.Error(c, err)
}

func contentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
