package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait    = 10 * time.Second
	pingPeriod   = 30 * time.Second
	maxFrameSize = 64 * 1024
	sendBuffer   = 256
)

// Client is one websocket connection watching a scene. Editors, who
// presented a token for the scene, may send pointer and key input; viewers
// only receive frames and presence.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	SceneID     string
	ClientID    string
	DisplayName string
	CanEdit     bool

	// Window size in pixels, owned by the hub goroutine.
	width, height int
}

func NewClient(hub *Hub, conn *websocket.Conn, sceneID, clientID, displayName string, canEdit bool) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		SceneID:     sceneID,
		ClientID:    clientID,
		DisplayName: displayName,
		CanEdit:     canEdit,
	}
}

func (c *Client) role() string {
	if c.CanEdit {
		return "editor"
	}
	return "viewer"
}

// ReadPump feeds the client's messages to the hub until the connection
// drops or the hub stops. It unregisters the client on return.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxFrameSize)
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				slog.Debug("scene connection lost", "error", err, "client", c.ClientID, "scene", c.SceneID, "role", c.role())
			}
			return
		}

		msg := new(Message)
		if err := json.Unmarshal(data, msg); err != nil {
			slog.Warn("undecodable scene message", "error", err, "client", c.ClientID)
			continue
		}
		// Identity comes from the connection, never from the payload.
		msg.ClientID, msg.SceneID = c.ClientID, c.SceneID

		if !c.hub.dispatch(c, msg) {
			return
		}
	}
}

// WritePump drains queued frames to the socket and keeps the connection
// alive with pings.
func (c *Client) WritePump(ctx context.Context) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				// The hub closed the queue.
				return
			}
			if err := c.writeFrame(ctx, data); err != nil {
				slog.Debug("scene write failed", "error", err, "client", c.ClientID, "scene", c.SceneID)
				return
			}

		case <-ping.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) writeFrame(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

// Send queues msg for the client, dropping it when the queue is full. Only
// the hub goroutine may call Send; it owns closing the queue.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("encode scene message", "error", err, "type", msg.Type)
		return
	}

	select {
	case c.send <- data:
	default:
		slog.Warn("client queue full, message dropped", "client", c.ClientID, "scene", c.SceneID, "type", msg.Type)
	}
}
