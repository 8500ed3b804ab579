package scenes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inamate/inamate/shapes-go/internal/document"
	"github.com/inamate/inamate/shapes-go/internal/engine"
	"github.com/inamate/inamate/shapes-go/internal/scene"
	"github.com/inamate/inamate/shapes-go/internal/shape"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name   string `json:"name"`
	Sample bool   `json:"sample"`
}

type intersectRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Routes registers the scene endpoints on r. Mutating routes are wrapped
// with requireEdit.
func (h *Handler) Routes(r *mux.Router, requireEdit func(http.Handler) http.Handler) {
	r.HandleFunc("/scenes", h.List).Methods("GET")
	r.HandleFunc("/scenes", h.Create).Methods("POST")
	r.HandleFunc("/scenes/{id}", h.Get).Methods("GET")
	r.HandleFunc("/scenes/{id}/hit", h.HitTest).Methods("GET")
	r.HandleFunc("/scenes/{id}/render", h.Render).Methods("GET")
	r.HandleFunc("/scenes/{id}/render.png", h.RenderPNG).Methods("GET")
	r.HandleFunc("/scenes/{id}/intersect", h.Intersect).Methods("POST")

	r.Handle("/scenes/{id}", requireEdit(http.HandlerFunc(h.Delete))).Methods("DELETE")
	r.Handle("/scenes/{id}/shapes", requireEdit(http.HandlerFunc(h.AddShape))).Methods("POST")
	r.Handle("/scenes/{id}/shapes/{shapeId}", requireEdit(http.HandlerFunc(h.RemoveShape))).Methods("DELETE")
	r.Handle("/scenes/{id}/commit", requireEdit(http.HandlerFunc(h.Commit))).Methods("POST")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	result, err := h.service.Create(r.Context(), req.Name, req.Sample)
	if err != nil {
		slog.Error("create scene failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scenes, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("list scenes failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, scenes)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddShape(w http.ResponseWriter, r *http.Request) {
	var node document.ShapeNode
	if err := json.NewDecoder(r.Body).Decode(&node); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	id, err := h.service.AddShape(r.Context(), mux.Vars(r)["id"], node)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) RemoveShape(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.service.RemoveShape(r.Context(), vars["id"], vars["shapeId"]); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Commit(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Intersect(w http.ResponseWriter, r *http.Request) {
	var req intersectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	hit, err := h.service.Intersects(r.Context(), mux.Vars(r)["id"], req.A, req.B)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"intersects": hit})
}

func (h *Handler) HitTest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x and y are required numbers"})
		return
	}

	id, err := h.service.HitTest(r.Context(), mux.Vars(r)["id"], x, y)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	cmds, err := h.service.Render(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"commands": cmds})
}

func (h *Handler) RenderPNG(w http.ResponseWriter, r *http.Request) {
	width, height := 640, 360
	q := r.URL.Query()
	if v := q.Get("w"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid width"})
			return
		}
		width = n
	}
	if v := q.Get("h"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid height"})
			return
		}
		height = n
	}

	data, err := h.service.RenderPNG(r.Context(), mux.Vars(r)["id"], width, height)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, scene.ErrShapeNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "shape not found"})
	case errors.Is(err, engine.ErrShapeExists):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "shape already exists"})
	case errors.Is(err, shape.ErrPairUnimplemented):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, engine.ErrInvalidShape), errors.Is(err, document.ErrInvalidDocument),
		errors.Is(err, ErrBadRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
