package session

import (
	"encoding/json"

	"github.com/inamate/inamate/shapes-go/internal/document"
	"github.com/inamate/inamate/shapes-go/internal/render"
)

type Message struct {
	Type     string          `json:"type"`
	SceneID  string          `json:"sceneId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

const (
	// Client → server
	TypePointer = "pointer" // payload: input.PointerEvent
	TypeKey     = "key"     // payload: input.KeyEvent
	TypeResize  = "resize"

	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Server → client
	TypeFrame = "frame"
)

type WelcomePayload struct {
	ClientID string               `json:"clientId"`
	SceneID  string               `json:"sceneId"`
	CanEdit  bool                 `json:"canEdit"`
	Document *document.InDocument `json:"document"`
}

type FramePayload struct {
	Commands []render.DrawCommand `json:"commands"`
}

type ResizePayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

// CursorPos is a pointer position in scene coordinates.
type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	ClientID    string `json:"clientId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
}

func newMessage(typ string, payload interface{}) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("null")
	}
	return &Message{Type: typ, Payload: data}
}

func errorMessage(text string) *Message {
	return newMessage(TypeError, ErrorPayload{Message: text})
}
