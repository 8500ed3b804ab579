package session

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gorilla/mux"

	"github.com/inamate/inamate/shapes-go/internal/document"
	"github.com/inamate/inamate/shapes-go/internal/engine"
	"github.com/inamate/inamate/shapes-go/internal/input"
)

const testScene = "scene_live"

var errNoScene = errors.New("no such scene")

type fakeTokens struct{}

func (fakeTokens) ValidateToken(token string) (string, error) {
	if strings.HasPrefix(token, "ok:") {
		return strings.TrimPrefix(token, "ok:"), nil
	}
	return "", errors.New("bad token")
}

type savedDocs struct {
	mu   sync.Mutex
	docs map[string][]*document.InDocument
}

func (s *savedDocs) save(sceneID string, doc *document.InDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[sceneID] = append(s.docs[sceneID], doc)
	return nil
}

func (s *savedDocs) count(sceneID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs[sceneID])
}

func (s *savedDocs) last(sceneID string) *document.InDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.docs[sceneID]
	if len(docs) == 0 {
		return nil
	}
	return docs[len(docs)-1]
}

func newTestHub(t *testing.T) (*Hub, *savedDocs, *document.InDocument) {
	t.Helper()
	sample := document.NewSampleDocument(testScene)
	saved := &savedDocs{docs: make(map[string][]*document.InDocument)}
	load := func(sceneID string) (*document.InDocument, error) {
		if sceneID != testScene {
			return nil, errNoScene
		}
		return sample, nil
	}
	hub := NewHub(load, saved.save, 0)
	go hub.Run()
	return hub, saved, sample
}

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	r.Handle("/ws/scene/{id}", NewHandler(hub, fakeTokens{}, nil))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, sceneID, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/scene/" + sceneID
	if token != "" {
		url += "?token=" + token
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

// readUntil reads messages until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) *Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		var msg Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		if msg.Type == typ {
			return &msg
		}
	}
}

func write(t *testing.T, conn *websocket.Conn, typ string, payload interface{}) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wsjson.Write(ctx, conn, newMessage(typ, payload)); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func decode[T any](t *testing.T, msg *Message) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		t.Fatalf("decode %s: %v", msg.Type, err)
	}
	return v
}

func TestViewerAndEditorSession(t *testing.T) {
	hub, saved, sample := newTestHub(t)
	srv := newTestServer(t, hub)
	triID := sample.Scene.Order[0]

	viewer := dial(t, srv, testScene, "")
	defer viewer.CloseNow()
	welcome := decode[WelcomePayload](t, readUntil(t, viewer, TypeWelcome))
	if welcome.CanEdit || welcome.SceneID != testScene || welcome.Document == nil {
		t.Fatalf("viewer welcome = %+v", welcome)
	}
	if frame := decode[FramePayload](t, readUntil(t, viewer, TypeFrame)); len(frame.Commands) != 3 {
		t.Fatalf("initial frame has %d commands", len(frame.Commands))
	}

	write(t, viewer, TypePointer, input.PointerEvent{Type: input.PointerMove})
	if e := decode[ErrorPayload](t, readUntil(t, viewer, TypeError)); e.Message != "read-only session" {
		t.Fatalf("viewer pointer error = %q", e.Message)
	}

	editor := dial(t, srv, testScene, "ok:"+testScene)
	defer editor.CloseNow()
	if w := decode[WelcomePayload](t, readUntil(t, editor, TypeWelcome)); !w.CanEdit {
		t.Fatalf("editor cannot edit")
	}
	readUntil(t, editor, TypeFrame)
	join := decode[PresenceJoinPayload](t, readUntil(t, viewer, TypePresenceJoin))
	if join.ClientID == "" || join.ClientID == welcome.ClientID {
		t.Fatalf("join = %+v", join)
	}

	// In a 100x100 window one scene unit is one pixel; scene (20,10) is
	// only inside the triangle.
	write(t, editor, TypeResize, ResizePayload{Width: 100, Height: 100})
	write(t, editor, TypePointer, input.PointerEvent{
		Type:     input.PointerMove,
		Position: input.PixelPoint{X: 20, Y: 90},
		Delta:    input.PixelPoint{X: 5, Y: -2},
		Buttons:  input.ButtonPrimary,
	})
	for _, conn := range []*websocket.Conn{editor, viewer} {
		frame := decode[FramePayload](t, readUntil(t, conn, TypeFrame))
		last := frame.Commands[len(frame.Commands)-1]
		if last.ObjectID != triID {
			t.Fatalf("dragged triangle not drawn last: %s", last.ObjectID)
		}
	}

	// The viewer sees the editor's cursor in scene units and the grabbed shape.
	cursor := decode[PresencePayload](t, readUntil(t, viewer, TypePresenceUpdate))
	if cursor.Cursor == nil || math.Abs(cursor.Cursor.X-20) > 1e-9 || math.Abs(cursor.Cursor.Y-10) > 1e-9 {
		t.Fatalf("presence cursor = %+v", cursor.Cursor)
	}
	if len(cursor.Selection) != 1 || cursor.Selection[0] != triID {
		t.Fatalf("presence selection = %v, want [%s]", cursor.Selection, triID)
	}

	hub.Stop()
	if saved.count(testScene) != 1 {
		t.Fatalf("saves = %d, want 1", saved.count(testScene))
	}
	tr := saved.last(testScene).Shapes[triID].Transform
	if math.Abs(tr.X-5) > 1e-9 || math.Abs(tr.Y-2) > 1e-9 {
		t.Fatalf("saved triangle transform = %+v", tr)
	}
}

func TestRejectsUnknownSceneAndForeignToken(t *testing.T) {
	hub, _, _ := newTestHub(t)
	defer hub.Stop()
	srv := newTestServer(t, hub)

	conn := dial(t, srv, "scene_missing", "")
	defer conn.CloseNow()
	if e := decode[ErrorPayload](t, readUntil(t, conn, TypeError)); e.Message != "scene not available" {
		t.Fatalf("error = %q", e.Message)
	}

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/scene/" + testScene + "?token=ok:scene_other"
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, resp, err := websocket.Dial(ctx, url, nil); err == nil || resp == nil || resp.StatusCode != 403 {
		t.Fatalf("foreign token dial err = %v", err)
	}
}

func TestDoLoadsSavesAndUnloads(t *testing.T) {
	hub, saved, sample := newTestHub(t)
	defer hub.Stop()
	ctx := context.Background()

	var pivot string
	err := hub.Do(ctx, testScene, func(e *engine.Engine) error {
		pivot = e.Pivot()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if pivot != sample.Scene.Pivot {
		t.Fatalf("pivot = %q", pivot)
	}
	if saved.count(testScene) != 0 {
		t.Fatalf("read-only job saved the scene")
	}

	err = hub.Do(ctx, testScene, func(e *engine.Engine) error {
		return e.RemoveShape(sample.Scene.Order[1])
	})
	if err != nil {
		t.Fatal(err)
	}
	if saved.count(testScene) != 1 || len(saved.last(testScene).Shapes) != 2 {
		t.Fatalf("removal not saved")
	}

	jobErr := errors.New("boom")
	if err := hub.Do(ctx, testScene, func(*engine.Engine) error { return jobErr }); !errors.Is(err, jobErr) {
		t.Fatalf("job err = %v", err)
	}
	if err := hub.Do(ctx, "scene_missing", func(*engine.Engine) error { return nil }); !errors.Is(err, errNoScene) {
		t.Fatalf("missing scene err = %v", err)
	}
}

func TestEvictDisconnectsClients(t *testing.T) {
	hub, _, _ := newTestHub(t)
	defer hub.Stop()
	srv := newTestServer(t, hub)

	conn := dial(t, srv, testScene, "")
	defer conn.CloseNow()
	readUntil(t, conn, TypeFrame)

	if err := hub.Evict(context.Background(), testScene); err != nil {
		t.Fatal(err)
	}
	if e := decode[ErrorPayload](t, readUntil(t, conn, TypeError)); e.Message != "scene deleted" {
		t.Fatalf("error = %q", e.Message)
	}
}

func TestStoppedHub(t *testing.T) {
	hub, _, _ := newTestHub(t)
	hub.Stop()
	hub.Stop()
	err := hub.Do(context.Background(), testScene, func(*engine.Engine) error { return nil })
	if !errors.Is(err, ErrHubStopped) {
		t.Fatalf("err = %v", err)
	}
}
