// Package session runs live scenes shared over websockets. A single hub
// goroutine owns every loaded engine; connections and REST calls reach
// it through channels.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/inamate/shapes-go/internal/document"
	"github.com/inamate/inamate/shapes-go/internal/engine"
	"github.com/inamate/inamate/shapes-go/internal/input"
)

var ErrHubStopped = errors.New("session hub stopped")

// Loader returns the stored document for a scene.
type Loader func(sceneID string) (*document.InDocument, error)

// Saver persists a scene's document.
type Saver func(sceneID string, doc *document.InDocument) error

type Room struct {
	sceneID  string
	engine   *engine.Engine
	clients  map[string]*Client // clientID -> client
	presence roster
	seq      int64
}

func NewRoom(sceneID string, e *engine.Engine) *Room {
	return &Room{
		sceneID:  sceneID,
		engine:   e,
		clients:  make(map[string]*Client),
		presence: make(roster),
	}
}

type inbound struct {
	client *Client
	msg    *Message
}

type job struct {
	sceneID string
	fn      func(*engine.Engine) error
	evict   bool
	result  chan error
}

type Hub struct {
	load     Loader
	save     Saver
	autosave time.Duration

	// Owned by the Run goroutine.
	rooms map[string]*Room // sceneID -> room

	register   chan *Client
	unregister chan *Client
	incoming   chan inbound
	jobs       chan job

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewHub creates a hub. Dirty scenes are saved every autosave interval
// when it is positive, and always when their last client leaves.
func NewHub(load Loader, save Saver, autosave time.Duration) *Hub {
	return &Hub{
		load:       load,
		save:       save,
		autosave:   autosave,
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan inbound, 64),
		jobs:       make(chan job),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	var tick <-chan time.Time
	if h.autosave > 0 {
		ticker := time.NewTicker(h.autosave)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case in := <-h.incoming:
			h.handleMessage(in.client, in.msg)
		case j := <-h.jobs:
			j.result <- h.runJob(j)
		case <-tick:
			for _, room := range h.rooms {
				h.saveRoom(room)
			}
		case <-h.stop:
			h.shutdown()
			return
		}
	}
}

// Stop saves every dirty scene, disconnects all clients and waits for Run
// to return.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

// Register adds a client to its scene's room, loading the scene if needed.
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) dispatch(client *Client, msg *Message) bool {
	select {
	case h.incoming <- inbound{client: client, msg: msg}:
		return true
	case <-h.done:
		return false
	}
}

// Do runs fn against the scene's engine on the hub goroutine. A scene
// nobody is connected to is loaded for the call and unloaded after it.
// Changes are saved and broadcast to connected clients.
func (h *Hub) Do(ctx context.Context, sceneID string, fn func(*engine.Engine) error) error {
	return h.submit(ctx, job{sceneID: sceneID, fn: fn})
}

// Evict unloads a scene without saving it and disconnects its clients.
func (h *Hub) Evict(ctx context.Context, sceneID string) error {
	return h.submit(ctx, job{sceneID: sceneID, evict: true})
}

func (h *Hub) submit(ctx context.Context, j job) error {
	j.result = make(chan error, 1)
	select {
	case h.jobs <- j:
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-j.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) runJob(j job) error {
	if j.evict {
		h.evictRoom(j.sceneID)
		return nil
	}

	room, err := h.room(j.sceneID)
	if err != nil {
		return err
	}
	defer func() {
		h.saveRoom(room)
		if len(room.clients) == 0 {
			delete(h.rooms, room.sceneID)
		}
	}()

	if err := j.fn(room.engine); err != nil {
		return err
	}
	if room.engine.Dirty() {
		h.broadcastFrame(room)
	}
	return nil
}

// room returns the loaded room for sceneID, loading it if needed.
func (h *Hub) room(sceneID string) (*Room, error) {
	if room, ok := h.rooms[sceneID]; ok {
		return room, nil
	}

	doc, err := h.load(sceneID)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	e := engine.NewEngine()
	if err := e.SetDocument(doc); err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	room := NewRoom(sceneID, e)
	h.rooms[sceneID] = room
	slog.Info("scene loaded", "scene", sceneID, "shapes", e.Manager().Len())
	return room, nil
}

func (h *Hub) saveRoom(room *Room) {
	if !room.engine.Dirty() {
		return
	}
	if err := h.save(room.sceneID, room.engine.Document()); err != nil {
		slog.Error("save scene", "error", err, "scene", room.sceneID)
		return
	}
	room.engine.MarkClean()
	slog.Debug("scene saved", "scene", room.sceneID)
}

func (h *Hub) addClient(client *Client) {
	room, err := h.room(client.SceneID)
	if err != nil {
		slog.Warn("client rejected", "error", err, "scene", client.SceneID)
		client.Send(errorMessage("scene not available"))
		close(client.send)
		return
	}
	room.clients[client.ClientID] = client

	client.Send(newMessage(TypeWelcome, WelcomePayload{
		ClientID: client.ClientID,
		SceneID:  room.sceneID,
		CanEdit:  client.CanEdit,
		Document: room.engine.Document(),
	}))

	client.Send(room.presence.stateMessage())
	client.Send(h.frameMessage(room))

	// Broadcast join to other clients
	joinMsg := newMessage(TypePresenceJoin, PresenceJoinPayload{
		ClientID:    client.ClientID,
		DisplayName: client.DisplayName,
	})
	joinMsg.ClientID = client.ClientID
	h.broadcastToRoom(room, joinMsg, client.ClientID)

	slog.Info("client joined", "client", client.ClientID, "scene", client.SceneID, "edit", client.CanEdit)
}

func (h *Hub) removeClient(client *Client) {
	room, ok := h.rooms[client.SceneID]
	if !ok || room.clients[client.ClientID] != client {
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.forget(client.ClientID)

	if len(room.clients) == 0 {
		h.saveRoom(room)
		delete(h.rooms, client.SceneID)
		slog.Info("scene unloaded", "scene", client.SceneID)
	}

	// Broadcast leave to remaining clients
	leaveMsg := newMessage(TypePresenceLeave, PresenceLeavePayload{ClientID: client.ClientID})
	leaveMsg.ClientID = client.ClientID
	h.broadcastToRoom(room, leaveMsg, "")

	slog.Info("client left", "client", client.ClientID, "scene", client.SceneID)
}

func (h *Hub) evictRoom(sceneID string) {
	room, ok := h.rooms[sceneID]
	if !ok {
		return
	}
	for _, c := range room.clients {
		c.Send(errorMessage("scene deleted"))
		close(c.send)
	}
	delete(h.rooms, sceneID)
	slog.Info("scene evicted", "scene", sceneID, "clients", len(room.clients))
}

func (h *Hub) shutdown() {
	for id, room := range h.rooms {
		h.saveRoom(room)
		for _, c := range room.clients {
			close(c.send)
		}
		delete(h.rooms, id)
	}
	close(h.done)
	slog.Info("session hub stopped")
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	room, ok := h.rooms[sender.SceneID]
	if !ok || room.clients[sender.ClientID] != sender {
		return
	}

	switch msg.Type {
	case TypePointer:
		h.handlePointer(room, sender, msg)
	case TypeKey:
		h.handleKey(room, sender, msg)
	case TypeResize:
		h.handleResize(room, sender, msg)
	case TypePresenceUpdate:
		h.handlePresenceUpdate(room, sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.Send(errorMessage("unknown message type: " + msg.Type))
	}
}

func (h *Hub) handlePointer(room *Room, sender *Client, msg *Message) {
	if !sender.CanEdit {
		sender.Send(errorMessage("read-only session"))
		return
	}
	var ev input.PointerEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		sender.Send(errorMessage("invalid pointer payload"))
		return
	}

	// The engine maps pixels with the sender's window size.
	if sender.width > 0 && sender.height > 0 {
		room.engine.Resize(sender.width, sender.height)
	}
	grabbed := ""
	if room.engine.HandlePointer(ev) {
		order := room.engine.Manager().DrawOrder()
		grabbed = order[len(order)-1].ID()
	}
	h.broadcastFrame(room)

	at := room.engine.View().PointToScene(ev.Position)
	h.broadcastPresence(room, sender, room.presence.point(sender, at, grabbed))
}

func (h *Hub) handleKey(room *Room, sender *Client, msg *Message) {
	if !sender.CanEdit {
		sender.Send(errorMessage("read-only session"))
		return
	}
	var ev input.KeyEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		sender.Send(errorMessage("invalid key payload"))
		return
	}
	if room.engine.HandleKey(ev) {
		h.broadcastFrame(room)
	}
}

func (h *Hub) handleResize(room *Room, sender *Client, msg *Message) {
	var size ResizePayload
	if err := json.Unmarshal(msg.Payload, &size); err != nil || size.Width <= 0 || size.Height <= 0 {
		sender.Send(errorMessage("invalid resize payload"))
		return
	}
	sender.width, sender.height = size.Width, size.Height
}

func (h *Hub) handlePresenceUpdate(room *Room, sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	h.broadcastPresence(room, sender, room.presence.put(sender, presence))
}

func (h *Hub) broadcastPresence(room *Room, sender *Client, p *PresencePayload) {
	msg := newMessage(TypePresenceUpdate, p)
	msg.ClientID = sender.ClientID
	h.broadcastToRoom(room, msg, sender.ClientID)
}

func (h *Hub) frameMessage(room *Room) *Message {
	room.seq++
	msg := newMessage(TypeFrame, FramePayload{Commands: room.engine.Frame()})
	msg.SceneID = room.sceneID
	msg.Seq = room.seq
	return msg
}

func (h *Hub) broadcastFrame(room *Room) {
	if len(room.clients) == 0 {
		return
	}
	h.broadcastToRoom(room, h.frameMessage(room), "")
}

func (h *Hub) broadcastToRoom(room *Room, msg *Message, excludeClientID string) {
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}
