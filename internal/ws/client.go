package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bilingual-chat-demo/backend/internal/timeline"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Default maximum message size allowed from peer
	defaultMaxMessageSize = 512 * 1024 // 512KB
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
	HandshakeTimeout: 10 * time.Second,
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
}

// frame is the envelope of everything sent over the socket
type frame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Client is one websocket connection scoped to a room. Each client keeps its
// own timeline view: the history baseline plus every live message it was
// handed, so a reconciled snapshot can be produced at any point.
type Client struct {
	ID     string
	RoomID string

	conn *websocket.Conn
	send chan []byte
	hub  *Hub
	view *timeline.View
}

// enqueue hands a live message to the client. It feeds the client's timeline
// view first, then queues the push frame. Returns false when the send buffer
// is full.
func (c *Client) enqueue(msg LiveMessage) bool {
	c.view.Append(msg.ToEntry())

	data, err := json.Marshal(frame{Type: "message", Payload: msg})
	if err != nil {
		c.hub.log.Error("marshaling live message failed", "error", err.Error())
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// sendFrame queues an arbitrary frame, dropping it if the buffer is full
func (c *Client) sendFrame(frameType string, payload any) {
	data, err := json.Marshal(frame{Type: frameType, Payload: payload})
	if err != nil {
		c.hub.log.Error("marshaling frame failed", "type", frameType, "error", err.Error())
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// sendSnapshot sends the client's current reconciled timeline
func (c *Client) sendSnapshot() {
	c.sendFrame("history", c.view.Snapshot())
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket read error", "clientId", c.ID, "error", err.Error())
			}
			break
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			c.hub.log.Warn("dropping malformed frame", "clientId", c.ID, "error", err.Error())
			continue
		}

		switch f.Type {
		case "ping":
			c.sendFrame("pong", nil)
		case "snapshot":
			// Client asks for a fresh reconciled timeline, typically after
			// a reconnect
			c.sendSnapshot()
		default:
			c.hub.log.Debug("unknown frame type", "clientId", c.ID, "type", f.Type)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

			// Flush anything already queued as separate frames
			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the connection and attaches the client to its room. The
// client is registered before the history baseline loads, so messages posted
// during the load are appended to the view and the first snapshot already
// contains them, ordered and deduplicated.
func ServeWs(hub *Hub, c *gin.Context) {
	roomID := c.Query("roomId")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.log.Error("websocket upgrade failed", "error", err.Error())
		return
	}
	conn.EnableWriteCompression(true)

	client := &Client{
		ID:     uuid.NewString(),
		RoomID: roomID,
		conn:   conn,
		send:   make(chan []byte, 256),
		hub:    hub,
		view:   timeline.NewView(),
	}

	hub.register <- client

	if hub.history != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		entries, err := hub.history.GetRoomEntries(ctx, roomID)
		cancel()
		if err != nil {
			hub.log.Error("loading room history failed", "roomId", roomID, "error", err.Error())
		} else {
			client.view.SetBaseline(entries)
		}
	}
	client.sendSnapshot()

	go client.writePump()
	go client.readPump()
}
