package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/census-map/internal/boundary"
	"github.com/sells-group/census-map/internal/mapview"
	"github.com/sells-group/census-map/internal/model"
	"github.com/sells-group/census-map/internal/session"
)

// buildRouter wires the HTTP API.
func buildRouter(e *engine, reg *session.Registry, origins []string) http.Handler {
	h := &handlers{engine: e, sessions: reg}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)
	if e.Metrics != nil {
		r.Handle("/metrics", e.Metrics.Handler())
	}
	if e.Basemap != nil {
		r.Get("/basemap/{z}/{x}/{y}", e.Basemap.ServeHTTP)
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/regions", h.regions)
		api.Get("/attributes", h.attributes)

		api.Post("/sessions", h.createSession)
		api.Route("/sessions/{id}", func(s chi.Router) {
			s.Get("/", h.getSession)
			s.Delete("/", h.deleteSession)
			s.Put("/attribute", h.selectAttribute)
			s.Post("/view", h.applyView)
			s.Post("/pointer", h.pointer)
			s.Get("/map.svg", h.mapSVG)
			s.Get("/features", h.features)
		})
	})

	return r
}

type handlers struct {
	engine   *engine
	sessions *session.Registry
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type regionJSON struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId,omitempty"`
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
}

type geoViewJSON struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

// regions lists the catalog. ?parent=<code> narrows the sub-regions to one
// district.
func (h *handlers) regions(w http.ResponseWriter, r *http.Request) {
	cat := h.engine.Catalog
	subs := cat.SubRegions()
	if parent := r.URL.Query().Get("parent"); parent != "" {
		if !cat.IsParentID(parent) {
			writeError(w, http.StatusNotFound, "unknown district")
			return
		}
		subs = cat.Children(parent)
	}

	var resp struct {
		Parents    []regionJSON `json:"parents"`
		SubRegions []regionJSON `json:"subRegions"`
		GeoView    geoViewJSON  `json:"geoView"`
	}
	resp.GeoView = geoViewJSON{Lat: mapview.GeoCenterLat, Lng: mapview.GeoCenterLng, Zoom: mapview.GeoZoom}
	for _, p := range cat.Parents() {
		resp.Parents = append(resp.Parents, regionJSON{ID: p.ID, Name: p.Name})
	}
	for _, s := range subs {
		resp.SubRegions = append(resp.SubRegions, regionJSON{ID: s.ID, ParentID: s.ParentID, Name: s.Name, Path: s.Path})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) attributes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default":   model.DefaultAttribute().Key,
		"dashboard": model.DashboardAttributes,
		"all":       model.AllAttributes(),
	})
}

func (h *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var profile model.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile")
		return
	}

	s, err := h.sessions.Create(profile)
	if err != nil {
		zap.L().Error("create session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}
	writeJSON(w, http.StatusCreated, s.Snapshot())
}

// session resolves {id} or writes a 404.
func (h *handlers) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := h.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
	}
	return s, ok
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Close(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) selectAttribute(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	attr, ok := model.LookupAttribute(req.Key)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown attribute")
		return
	}

	seq, err := s.SelectAttribute(attr)
	if err != nil {
		writeError(w, http.StatusGone, "session closed")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"attribute": attr, "seq": seq})
}

func (h *handlers) applyView(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var ev session.ViewEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := s.ApplyView(ev)
	if errors.Is(err, mapview.ErrInvalidGesture) {
		writeError(w, http.StatusBadRequest, "view gesture out of range")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown view event")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"view": t, "labels": t.ShowLabels()})
}

func (h *handlers) mapSVG(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := s.RenderSVG(w); err != nil {
		zap.L().Error("render svg", zap.String("session", s.ID), zap.Error(err))
	}
}

func (h *handlers) features(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	fc, err := s.Features()
	if err != nil {
		writeBoundaryError(w, err)
		return
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		zap.L().Error("encode features", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not encode features")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

func (h *handlers) pointer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var ev session.PointerEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := s.Pointer(ev)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, mapview.ErrUnknownFeature), errors.Is(err, session.ErrUnknownRegion):
		writeError(w, http.StatusNotFound, "no region under pointer")
	case errors.Is(err, session.ErrNoBoundary), errors.Is(err, session.ErrBoundaryLoad), errors.Is(err, boundary.ErrLoadFailed):
		writeBoundaryError(w, err)
	default:
		writeError(w, http.StatusBadRequest, "unknown pointer event")
	}
}

// writeBoundaryError maps geo-accurate map availability to a status. Load
// failures only ever show the generic message.
func writeBoundaryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrBoundaryLoad):
		writeJSON(w, http.StatusAccepted, map[string]string{"status": boundary.Loading.String()})
	case errors.Is(err, session.ErrNoBoundary):
		writeError(w, http.StatusNotFound, "geo-accurate map not configured")
	default:
		writeError(w, http.StatusServiceUnavailable, boundary.UserMessage)
	}
}
