package session

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/inamate/inamate/shapes-go/internal/typeid"
)

// TokenValidator returns the scene a token grants edit access to.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// Handler upgrades GET /ws/scene/{id} to a session connection. Clients
// with a token for the scene may edit; others watch.
type Handler struct {
	hub            *Hub
	tokens         TokenValidator
	originPatterns []string
}

func NewHandler(hub *Hub, tokens TokenValidator, originPatterns []string) *Handler {
	return &Handler{hub: hub, tokens: tokens, originPatterns: originPatterns}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sceneID := mux.Vars(r)["id"]

	canEdit := false
	if token := r.URL.Query().Get("token"); token != "" {
		tokenScene, err := h.tokens.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if tokenScene != sceneID {
			http.Error(w, "token not valid for this scene", http.StatusForbidden)
			return
		}
		canEdit = true
	}

	displayName := r.URL.Query().Get("name")
	if displayName == "" {
		displayName = "Anonymous"
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, sceneID, typeid.NewClientID(), displayName, canEdit)
	if err := h.hub.Register(client); err != nil {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
