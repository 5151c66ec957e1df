package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/devprbtt/wiringmaster/internal/wiring/service"
	"github.com/devprbtt/wiringmaster/internal/wiring/sse"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Handlers 处理器集合
type Handlers struct {
	Device        *DeviceHandler
	DeviceIO      *DeviceIOHandler
	Diagram       *DiagramHandler
	DiagramDevice *DiagramDeviceHandler
	Connection    *ConnectionHandler
	Upload        *UploadHandler
	SSE           *SSEHandler
}

// NewHandlers 创建处理器集合. maxUpload bounds the multipart body size in bytes.
func NewHandlers(svc *service.Services, hub *sse.Hub, maxUpload int64) *Handlers {
	h := &Handlers{
		Device:        NewDeviceHandler(svc.Device),
		DeviceIO:      NewDeviceIOHandler(svc.DeviceIO),
		Diagram:       NewDiagramHandler(svc.Diagram, svc.CableSchedule),
		DiagramDevice: NewDiagramDeviceHandler(svc.DiagramDevice),
		Connection:    NewConnectionHandler(svc.Connection),
		Upload:        NewUploadHandler(svc.Upload, maxUpload),
	}
	if hub != nil {
		h.SSE = NewSSEHandler(hub, svc.Diagram)
	}
	return h
}

// Register mounts the REST API on api, normally the "/api" group.
func Register(api *gin.RouterGroup, h *Handlers) {
	devices := api.Group("/devices")
	devices.GET("", h.Device.List)
	devices.POST("", h.Device.Create)
	devices.GET("/:id", h.Device.Get)
	devices.PUT("/:id", h.Device.Update)
	devices.PATCH("/:id", h.Device.Update)
	devices.DELETE("/:id", h.Device.Delete)

	ios := api.Group("/device-ios")
	ios.GET("", h.DeviceIO.List)
	ios.POST("", h.DeviceIO.Create)
	ios.GET("/:id", h.DeviceIO.Get)
	ios.PUT("/:id", h.DeviceIO.Update)
	ios.PATCH("/:id", h.DeviceIO.Update)
	ios.DELETE("/:id", h.DeviceIO.Delete)

	diagrams := api.Group("/diagrams")
	diagrams.GET("", h.Diagram.List)
	diagrams.POST("", h.Diagram.Create)
	diagrams.GET("/:id", h.Diagram.Get)
	diagrams.PUT("/:id", h.Diagram.Update)
	diagrams.PATCH("/:id", h.Diagram.Update)
	diagrams.DELETE("/:id", h.Diagram.Delete)
	diagrams.GET("/:id/cable-schedule", h.Diagram.CableSchedule)
	if h.SSE != nil {
		diagrams.GET("/:id/events", h.SSE.Stream)
	}

	placed := api.Group("/diagram-devices")
	placed.GET("", h.DiagramDevice.List)
	placed.POST("", h.DiagramDevice.Create)
	placed.GET("/:id", h.DiagramDevice.Get)
	placed.PUT("/:id", h.DiagramDevice.Update)
	placed.PATCH("/:id", h.DiagramDevice.Update)
	placed.DELETE("/:id", h.DiagramDevice.Delete)

	conns := api.Group("/connections")
	conns.GET("", h.Connection.List)
	conns.POST("", h.Connection.Create)
	conns.GET("/:id", h.Connection.Get)
	conns.PUT("/:id", h.Connection.Update)
	conns.PATCH("/:id", h.Connection.Update)
	conns.DELETE("/:id", h.Connection.Delete)

	api.POST("/upload", h.Upload.Upload)
}

// RegisterFiles serves stored uploads under /uploads.
func RegisterFiles(r gin.IRoutes, h *Handlers) {
	r.GET("/uploads/:filename", h.Upload.Serve)
	r.HEAD("/uploads/:filename", h.Upload.Serve)
}

// Success writes data as the whole 200 response body.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes {"error": message} with the given status.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// respondError maps a service error onto its HTTP status. The error is
// attached to the context so the request logger records it.
func respondError(c *gin.Context, err error, what string) {
	_ = c.Error(err)
	switch {
	case service.IsValidation(err):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, what+" not found")
	default:
		InternalError(c, "internal server error")
	}
}

// bindJSON decodes the request body into dst, answering 400 on malformed
// input. The body must be a JSON object; a bare null is rejected.
func bindJSON(c *gin.Context, dst interface{}) bool {
	body, err := c.GetRawData()
	if err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		BadRequest(c, "invalid request body: expected a JSON object")
		return false
	}
	if err := binding.JSON.BindBody(body, dst); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}
