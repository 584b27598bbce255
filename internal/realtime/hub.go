package realtime

// Central hub managing product-stream subscribers.
// Each WebSocket connection runs in its own goroutine but all
// registration and broadcasting goes through the hub's channels to
// avoid race conditions.

import (
	"encoding/json"
	"log/slog"
)

// SnapshotFunc produces the full current result set pushed to every
// subscriber whenever the underlying data changes. Subscribers always
// receive complete snapshots, never diffs.
type SnapshotFunc func() (interface{}, error)

type Hub struct {
	snapshot   SnapshotFunc
	logger     *slog.Logger
	clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	changed    chan struct{}
}

func NewHub(snapshot SnapshotFunc, logger *slog.Logger) *Hub {
	return &Hub{
		snapshot:   snapshot,
		logger:     logger,
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		changed:    make(chan struct{}, 1),
	}
}

// ProductsChanged signals that the published product set may have
// changed. Never blocks; bursts of changes coalesce into one refresh.
func (h *Hub) ProductsChanged() {
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

// Run owns the client set. New subscribers get the current snapshot
// immediately; every change pushes a fresh snapshot to everyone.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.logger.Info("stream client connected", "client_id", client.ID, "clients", len(h.clients))
			if payload, err := h.currentSnapshot(); err == nil {
				client.Send(payload)
			}

		case client := <-h.Unregister:
			if h.clients[client] {
				delete(h.clients, client)
				close(client.SendChannel)
				h.logger.Info("stream client disconnected", "client_id", client.ID, "clients", len(h.clients))
			}

		case <-h.changed:
			if len(h.clients) == 0 {
				continue
			}
			payload, err := h.currentSnapshot()
			if err != nil {
				h.logger.Error("snapshot refresh failed", "error", err)
				continue
			}
			for client := range h.clients {
				client.Send(payload)
			}
		}
	}
}

func (h *Hub) currentSnapshot() ([]byte, error) {
	data, err := h.snapshot()
	if err != nil {
		return nil, err
	}
	return json.Marshal(data)
}
