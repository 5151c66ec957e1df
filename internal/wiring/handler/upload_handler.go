package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/devprbtt/wiringmaster/internal/wiring/service"
	"github.com/gin-gonic/gin"
)

// UploadHandler 文件上传处理器
type UploadHandler struct {
	svc     *service.UploadService
	maxSize int64
}

// NewUploadHandler 创建文件上传处理器
func NewUploadHandler(svc *service.UploadService, maxSize int64) *UploadHandler {
	return &UploadHandler{svc: svc, maxSize: maxSize}
}

// Upload 处理文件上传
// POST /api/upload, multipart field "file"
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.maxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			BadRequest(c, "File too large")
		case emptyFilePart(c):
			BadRequest(c, uploadErrorMessage(service.ErrNoFilename))
		default:
			BadRequest(c, uploadErrorMessage(service.ErrNoFile))
		}
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(err)
		InternalError(c, "failed to read upload")
		return
	}
	defer src.Close()

	url, err := h.svc.Save(c.Request.Context(), fileHeader.Filename, src, fileHeader.Size)
	if err != nil {
		if msg := uploadErrorMessage(err); msg != "" {
			BadRequest(c, msg)
			return
		}
		_ = c.Error(err)
		InternalError(c, "failed to save upload")
		return
	}

	Created(c, gin.H{"file_url": url})
}

// Serve GET /uploads/:filename
func (h *UploadHandler) Serve(c *gin.Context) {
	name := c.Param("filename")
	rc, err := h.svc.Open(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			NotFound(c, "file not found")
			return
		}
		_ = c.Error(err)
		InternalError(c, "failed to open file")
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		_ = c.Error(err)
	}
}

// emptyFilePart reports whether the form carried a "file" part with an empty
// filename. The multipart reader files such parts as plain values.
func emptyFilePart(c *gin.Context) bool {
	form := c.Request.MultipartForm
	if form == nil {
		return false
	}
	_, ok := form.Value["file"]
	return ok
}

// uploadErrorMessage returns the client-facing text for a rejected upload,
// or "" when err is not a rejection.
func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNoFile):
		return "No file provided"
	case errors.Is(err, service.ErrNoFilename):
		return "No file selected"
	case errors.Is(err, service.ErrUnsupportedMedia):
		return "Invalid file type"
	}
	return ""
}
