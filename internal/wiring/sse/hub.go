package sse

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const EventDiagramUpdate = "diagram_update"

// Event represents a Server-Sent Event
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client is one open event stream, scoped to a single diagram.
type Client struct {
	ID        string
	DiagramID string
	Events    chan Event
}

// Hub fans diagram events out to the streams watching that diagram.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger.Named("sse"),
	}
}

// Register adds a new client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Debug("Client registered",
		zap.String("client_id", client.ID),
		zap.String("diagram_id", client.DiagramID),
		zap.Int("total", len(h.clients)),
	)
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.logger.Debug("Client unregistered", zap.String("client_id", clientID), zap.Int("total", len(h.clients)))
	}
}

// ClientCount returns the number of open streams.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Send delivers event to every client of diagramID. A client whose buffer
// is full misses the event.
func (h *Hub) Send(diagramID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.DiagramID != diagramID {
			continue
		}
		select {
		case client.Events <- event:
		default:
			h.logger.Warn("Client buffer full, skipping event", zap.String("client_id", client.ID))
		}
	}
}

type diagramUpdate struct {
	DiagramID string `json:"diagram_id"`
	Entity    string `json:"entity"`
	ID        string `json:"id"`
	Action    string `json:"action"`
}

// PublishDiagramUpdate notifies the diagram's watchers that one of its rows changed.
func (h *Hub) PublishDiagramUpdate(diagramID, entityType, id, action string) {
	data, err := json.Marshal(diagramUpdate{DiagramID: diagramID, Entity: entityType, ID: id, Action: action})
	if err != nil {
		h.logger.Error("Failed to encode diagram update", zap.Error(err))
		return
	}
	h.Send(diagramID, Event{EventType: EventDiagramUpdate, Data: string(data)})
	h.logger.Debug("Published diagram_update",
		zap.String("diagram_id", diagramID),
		zap.String("entity", entityType),
		zap.String("id", id),
		zap.String("action", action),
	)
}
