package handler

import (
	"fmt"
	"time"

	"github.com/devprbtt/wiringmaster/internal/wiring/service"
	"github.com/devprbtt/wiringmaster/internal/wiring/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SSEHandler streams diagram change events.
type SSEHandler struct {
	hub       *sse.Hub
	diagrams  *service.DiagramService
	heartbeat time.Duration
}

func NewSSEHandler(hub *sse.Hub, diagrams *service.DiagramService) *SSEHandler {
	return &SSEHandler{hub: hub, diagrams: diagrams, heartbeat: 30 * time.Second}
}

// Stream handles the SSE endpoint
// GET /api/diagrams/:id/events
func (h *SSEHandler) Stream(c *gin.Context) {
	diagramID := c.Param("id")
	if _, err := h.diagrams.Get(c.Request.Context(), diagramID); err != nil {
		respondError(c, err, "diagram")
		return
	}

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:        clientID,
		DiagramID: diagramID,
		Events:    make(chan sse.Event, 64),
	}
	h.hub.Register(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Writer.WriteString("event: connected\ndata: {\"client_id\":\"" + clientID + "\"}\n\n")
	c.Writer.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	clientGone := c.Request.Context().Done()

	for {
		select {
		case <-clientGone:
			h.hub.Unregister(clientID)
			return
		case event, ok := <-client.Events:
			if !ok {
				return
			}
			c.Writer.WriteString(fmt.Sprintf("event: %s\ndata: %s\n\n", event.EventType, event.Data))
			c.Writer.Flush()
		case <-heartbeat.C:
			c.Writer.WriteString(": keepalive\n\n")
			c.Writer.Flush()
		}
	}
}
