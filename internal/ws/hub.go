package ws

import (
	"context"
	"encoding/json"
	"sync"

	"bilingual-chat-demo/backend/internal/models"
	"bilingual-chat-demo/backend/internal/timeline"
	"bilingual-chat-demo/backend/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "ws_connected_clients",
	Help: "Currently connected websocket clients.",
})

// HistoryLoader supplies the durable side of the timeline for a room
type HistoryLoader interface {
	GetRoomEntries(ctx context.Context, roomID string) ([]timeline.Entry, error)
}

// MessageBus is the cross-instance fan-out path. When nil the hub delivers
// only to its own clients.
type MessageBus interface {
	Publish(ctx context.Context, roomID string, payload []byte) error
}

type roomDelivery struct {
	roomID string
	msg    LiveMessage
}

// Hub tracks websocket clients per room and routes live messages to them.
// Delivery is at-least-once from the client's point of view: a message can
// arrive both in the history baseline and as a push event, and the client's
// timeline view is what collapses the duplicates.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	deliver    chan roomDelivery

	history   HistoryLoader
	bus       MessageBus
	log       *logger.Logger
	readLimit int64

	mu sync.Mutex
}

// NewHub creates a hub. bus may be nil for single-instance deployments.
func NewHub(history HistoryLoader, bus MessageBus, log *logger.Logger) *Hub {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan roomDelivery, 64),
		history:    history,
		bus:        bus,
		log:        log,
		readLimit:  defaultMaxMessageSize,
	}
}

// SetHistory attaches the history loader after construction, breaking the
// hub/message-service reference cycle
func (h *Hub) SetHistory(history HistoryLoader) {
	h.history = history
}

// SetReadLimit overrides the per-connection inbound message size cap
func (h *Hub) SetReadLimit(limit int64) {
	if limit > 0 {
		h.readLimit = limit
	}
}

// Run processes registration and delivery until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			clients := h.rooms[client.RoomID]
			if clients == nil {
				clients = make(map[*Client]bool)
				h.rooms[client.RoomID] = clients
			}
			clients[client] = true
			h.mu.Unlock()
			connectedClients.Inc()
			h.log.Info("websocket client joined", "clientId", client.ID, "roomId", client.RoomID)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.RoomID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					connectedClients.Dec()
					if len(clients) == 0 {
						delete(h.rooms, client.RoomID)
					}
				}
			}
			h.mu.Unlock()
			h.log.Info("websocket client left", "clientId", client.ID, "roomId", client.RoomID)

		case delivery := <-h.deliver:
			h.mu.Lock()
			for client := range h.rooms[delivery.roomID] {
				if !client.enqueue(delivery.msg) {
					close(client.send)
					delete(h.rooms[delivery.roomID], client)
					connectedClients.Dec()
					h.log.Warn("websocket client dropped, send buffer full", "clientId", client.ID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PublishMessage implements service.Publisher. With a bus configured the
// message goes through redis so every instance delivers it; without one it
// goes straight to this hub's clients.
func (h *Hub) PublishMessage(ctx context.Context, roomID string, msg *models.MessageResponse) error {
	live := NewLiveMessage(msg)
	if h.bus == nil {
		h.Deliver(roomID, live)
		return nil
	}

	payload, err := json.Marshal(live)
	if err != nil {
		return err
	}
	return h.bus.Publish(ctx, roomID, payload)
}

// Deliver routes one live message to this instance's clients in the room
func (h *Hub) Deliver(roomID string, msg LiveMessage) {
	h.deliver <- roomDelivery{roomID: roomID, msg: msg}
}

// DeliverRaw is the bus subscription handler; it decodes the payload and
// delivers it locally
func (h *Hub) DeliverRaw(roomID string, payload []byte) {
	var live LiveMessage
	if err := json.Unmarshal(payload, &live); err != nil {
		h.log.Warn("dropping malformed live message", "roomId", roomID, "error", err.Error())
		return
	}
	h.Deliver(roomID, live)
}
