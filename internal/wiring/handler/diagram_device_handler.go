package handler

import (
	"github.com/devprbtt/wiringmaster/internal/wiring/service"
	"github.com/gin-gonic/gin"
)

type DiagramDeviceHandler struct {
	svc *service.DiagramDeviceService
}

func NewDiagramDeviceHandler(svc *service.DiagramDeviceService) *DiagramDeviceHandler {
	return &DiagramDeviceHandler{svc: svc}
}

// List GET /api/diagram-devices?diagram_id=xxx
func (h *DiagramDeviceHandler) List(c *gin.Context) {
	placed, err := h.svc.List(c.Request.Context(), c.Query("diagram_id"))
	if err != nil {
		respondError(c, err, "diagram device")
		return
	}
	Success(c, placed)
}

func (h *DiagramDeviceHandler) Get(c *gin.Context) {
	dd, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "diagram device")
		return
	}
	Success(c, dd)
}

func (h *DiagramDeviceHandler) Create(c *gin.Context) {
	var input service.CreateDiagramDeviceInput
	if !bindJSON(c, &input) {
		return
	}
	dd, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err, "diagram device")
		return
	}
	Created(c, dd)
}

func (h *DiagramDeviceHandler) Update(c *gin.Context) {
	var input service.UpdateDiagramDeviceInput
	if !bindJSON(c, &input) {
		return
	}
	dd, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, err, "diagram device")
		return
	}
	Success(c, dd)
}

func (h *DiagramDeviceHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "diagram device")
		return
	}
	NoContent(c)
}
