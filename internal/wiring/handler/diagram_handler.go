package handler

import (
	"bytes"
	"mime"
	"net/http"

	"github.com/devprbtt/wiringmaster/internal/wiring/export"
	"github.com/devprbtt/wiringmaster/internal/wiring/service"
	"github.com/gin-gonic/gin"
)

type DiagramHandler struct {
	svc      *service.DiagramService
	schedule *service.CableScheduleService
}

func NewDiagramHandler(svc *service.DiagramService, schedule *service.CableScheduleService) *DiagramHandler {
	return &DiagramHandler{svc: svc, schedule: schedule}
}

// List GET /api/diagrams
func (h *DiagramHandler) List(c *gin.Context) {
	diagrams, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "diagram")
		return
	}
	Success(c, diagrams)
}

// Get GET /api/diagrams/:id
func (h *DiagramHandler) Get(c *gin.Context) {
	diagram, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "diagram")
		return
	}
	Success(c, diagram)
}

// Create POST /api/diagrams
func (h *DiagramHandler) Create(c *gin.Context) {
	var input service.CreateDiagramInput
	if !bindJSON(c, &input) {
		return
	}
	diagram, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err, "diagram")
		return
	}
	Created(c, diagram)
}

// Update PUT|PATCH /api/diagrams/:id
func (h *DiagramHandler) Update(c *gin.Context) {
	var input service.UpdateDiagramInput
	if !bindJSON(c, &input) {
		return
	}
	diagram, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, err, "diagram")
		return
	}
	Success(c, diagram)
}

// Delete DELETE /api/diagrams/:id
// Removes the diagram's connections and placed devices with it.
func (h *DiagramHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "diagram")
		return
	}
	NoContent(c)
}

// CableSchedule GET /api/diagrams/:id/cable-schedule?format=json|csv|xlsx|pdf
func (h *DiagramHandler) CableSchedule(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	schedule, err := h.schedule.Build(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "diagram")
		return
	}

	if format == export.FormatJSON {
		Success(c, schedule)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, schedule); err != nil {
		_ = c.Error(err)
		InternalError(c, "failed to render cable schedule")
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": format.Filename(schedule.DiagramName),
	})
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
