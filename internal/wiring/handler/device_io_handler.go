package handler

import (
	"github.com/devprbtt/wiringmaster/internal/wiring/service"
	"github.com/gin-gonic/gin"
)

type DeviceIOHandler struct {
	svc *service.DeviceIOService
}

func NewDeviceIOHandler(svc *service.DeviceIOService) *DeviceIOHandler {
	return &DeviceIOHandler{svc: svc}
}

// List GET /api/device-ios?device_id=xxx
func (h *DeviceIOHandler) List(c *gin.Context) {
	ios, err := h.svc.List(c.Request.Context(), c.Query("device_id"))
	if err != nil {
		respondError(c, err, "device io")
		return
	}
	Success(c, ios)
}

func (h *DeviceIOHandler) Get(c *gin.Context) {
	io, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "device io")
		return
	}
	Success(c, io)
}

func (h *DeviceIOHandler) Create(c *gin.Context) {
	var input service.CreateDeviceIOInput
	if !bindJSON(c, &input) {
		return
	}
	io, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err, "device io")
		return
	}
	Created(c, io)
}

func (h *DeviceIOHandler) Update(c *gin.Context) {
	var input service.UpdateDeviceIOInput
	if !bindJSON(c, &input) {
		return
	}
	io, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, err, "device io")
		return
	}
	Success(c, io)
}

func (h *DeviceIOHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "device io")
		return
	}
	NoContent(c)
}
