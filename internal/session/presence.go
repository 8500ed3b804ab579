package session

import (
	"github.com/inamate/inamate/shapes-go/internal/geometry"
)

// roster tracks where each client in a room is pointing. It belongs to the
// room and is only touched on the hub goroutine.
type roster map[string]*PresencePayload // clientID -> presence

// put replaces a client's presence as sent by the client itself.
func (r roster) put(c *Client, p PresencePayload) *PresencePayload {
	p.DisplayName = c.DisplayName
	r[c.ClientID] = &p
	return &p
}

// point records a client's pointer at scene position at. A non-empty
// grabbed names the shape the client is dragging; it replaces the
// selection, while a plain move keeps the previous one.
func (r roster) point(c *Client, at geometry.Point, grabbed string) *PresencePayload {
	p, ok := r[c.ClientID]
	if !ok {
		p = &PresencePayload{DisplayName: c.DisplayName}
		r[c.ClientID] = p
	}
	p.Cursor = &CursorPos{X: at.X, Y: at.Y}
	if grabbed != "" {
		p.Selection = []string{grabbed}
	}
	return p
}

func (r roster) forget(clientID string) { delete(r, clientID) }

// stateMessage snapshots the roster for a client that just joined.
func (r roster) stateMessage() *Message {
	all := make(map[string]*PresencePayload, len(r))
	for id, p := range r {
		cp := *p
		all[id] = &cp
	}
	return newMessage(TypePresenceState, PresenceStatePayload{Presences: all})
}
