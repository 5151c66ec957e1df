package handler

import (
	"github.com/devprbtt/wiringmaster/internal/wiring/service"
	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	svc *service.ConnectionService
}

func NewConnectionHandler(svc *service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{svc: svc}
}

// List GET /api/connections?diagram_id=xxx
func (h *ConnectionHandler) List(c *gin.Context) {
	conns, err := h.svc.List(c.Request.Context(), c.Query("diagram_id"))
	if err != nil {
		respondError(c, err, "connection")
		return
	}
	Success(c, conns)
}

func (h *ConnectionHandler) Get(c *gin.Context) {
	conn, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "connection")
		return
	}
	Success(c, conn)
}

func (h *ConnectionHandler) Create(c *gin.Context) {
	var input service.CreateConnectionInput
	if !bindJSON(c, &input) {
		return
	}
	conn, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err, "connection")
		return
	}
	Created(c, conn)
}

func (h *ConnectionHandler) Update(c *gin.Context) {
	var input service.UpdateConnectionInput
	if !bindJSON(c, &input) {
		return
	}
	conn, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, err, "connection")
		return
	}
	Success(c, conn)
}

func (h *ConnectionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "connection")
		return
	}
	NoContent(c)
}
