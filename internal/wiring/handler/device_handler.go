package handler

import (
	"github.com/devprbtt/wiringmaster/internal/wiring/service"
	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	svc *service.DeviceService
}

func NewDeviceHandler(svc *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{svc: svc}
}

// List GET /api/devices
func (h *DeviceHandler) List(c *gin.Context) {
	devices, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "device")
		return
	}
	Success(c, devices)
}

// Get GET /api/devices/:id
func (h *DeviceHandler) Get(c *gin.Context) {
	device, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "device")
		return
	}
	Success(c, device)
}

// Create POST /api/devices
func (h *DeviceHandler) Create(c *gin.Context) {
	var input service.CreateDeviceInput
	if !bindJSON(c, &input) {
		return
	}
	device, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err, "device")
		return
	}
	Created(c, device)
}

// Update PUT|PATCH /api/devices/:id
func (h *DeviceHandler) Update(c *gin.Context) {
	var input service.UpdateDeviceInput
	if !bindJSON(c, &input) {
		return
	}
	device, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, err, "device")
		return
	}
	Success(c, device)
}

// Delete DELETE /api/devices/:id
// Also removes the device's IOs.
func (h *DeviceHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "device")
		return
	}
	NoContent(c)
}
