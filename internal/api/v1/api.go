// Package v1 implements the local shot API served in watch mode.
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vmunix/shotman/internal/coordinator"
	"github.com/vmunix/shotman/internal/shotpaths"
	"github.com/vmunix/shotman/pkg/shotid"
)

const maxSuggestions = 3

// Server is the v1 API server.
type Server struct {
	deps   ServerDeps
	logger *slog.Logger
}

// New creates a new v1 API server.
func New(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{deps: deps, logger: logger.With("component", "api")}
}

// Handler returns the router with logging and panic recovery installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(recoverPanics(s.logger))
	r.Use(logRequests(s.logger))

	r.Get("/health", s.health)
	r.Route("/api/v1", s.RegisterRoutes)
	return r
}

// RegisterRoutes registers API routes on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	// Shots
	r.Get("/shots", s.listShots)
	r.Get("/shots/{shot}/paths", s.shotPaths)

	// Hierarchy
	r.Get("/episodes", s.listEpisodes)
	r.Get("/episodes/{ep}/sequences", s.listSequences)
	r.Get("/episodes/{ep}/sequences/{sq}/shots", s.listSequenceShots)

	// Scanning
	r.Post("/scan", s.triggerScan)

	// Navigation
	r.Get("/navigation", s.getNavigation)
	r.Post("/navigation", s.setNavigation)

	// Events
	r.Get("/events", s.requireEventLog(s.listEvents))
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	writeJSON(w, code, errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// token strips an optional "ep"/"sq"/"sh" prefix from a path parameter.
func token(r *http.Request, name, prefix string) string {
	v := chi.URLParam(r, name)
	if len(v) > len(prefix) && strings.EqualFold(v[:len(prefix)], prefix) {
		return v[len(prefix):]
	}
	return v
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		State:  s.deps.Shots.State().String(),
		Shots:  s.deps.Shots.Index().Len(),
	})
}

func (s *Server) listShots(w http.ResponseWriter, r *http.Request) {
	ep := strings.TrimPrefix(strings.ToLower(r.URL.Query().Get("episode")), "ep")
	sq := strings.TrimPrefix(strings.ToLower(r.URL.Query().Get("sequence")), "sq")

	items := []string{}
	for _, id := range s.deps.Shots.Index().All() {
		if ep != "" && id.Episode != ep || sq != "" && id.Sequence != sq {
			continue
		}
		items = append(items, id.String())
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: len(items)})
}

func (s *Server) listEpisodes(w http.ResponseWriter, _ *http.Request) {
	writeList(w, s.deps.Shots.Index().Episodes())
}

func (s *Server) listSequences(w http.ResponseWriter, r *http.Request) {
	writeList(w, s.deps.Shots.Index().Sequences(token(r, "ep", "ep")))
}

func (s *Server) listSequenceShots(w http.ResponseWriter, r *http.Request) {
	writeList(w, s.deps.Shots.Index().Shots(token(r, "ep", "ep"), token(r, "sq", "sq")))
}

func writeList(w http.ResponseWriter, items []string) {
	if items == nil {
		items = []string{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: len(items)})
}

// lookupShot resolves the {shot} parameter against the index, writing the
// error response itself when it cannot.
func (s *Server) lookupShot(w http.ResponseWriter, r *http.Request) (shotid.ID, bool) {
	name := chi.URLParam(r, "shot")
	id, ok := shotid.Parse(name)
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_SHOT", "not a shot name: "+name)
		return shotid.ID{}, false
	}

	idx := s.deps.Shots.Index()
	if idx.Contains(id) {
		return id, true
	}

	resp := errorResponse{Error: "shot not found: " + id.String(), Code: "NOT_FOUND"}
	for _, sug := range idx.Suggest(name, maxSuggestions) {
		resp.Suggestions = append(resp.Suggestions, sug.Name)
	}
	writeJSON(w, http.StatusNotFound, resp)
	return shotid.ID{}, false
}

func (s *Server) shotPaths(w http.ResponseWriter, r *http.Request) {
	id, ok := s.lookupShot(w, r)
	if !ok {
		return
	}

	paths, err := s.deps.Layout.For(id)
	if errors.Is(err, shotpaths.ErrNoCompRoot) {
		writeError(w, http.StatusServiceUnavailable, "NO_COMP_ROOT", "comp root not configured")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "PATHS_ERROR", err.Error())
		return
	}

	resp := pathsResponse{
		Paths:      paths,
		Layers:     []string{},
		Thumbnails: []thumbnailResponse{},
	}
	if script, err := shotpaths.LatestScript(paths.NkDir); err == nil {
		resp.LatestScript = script
	}
	if movie, _, err := shotpaths.LatestMovie(paths.MovDir); err == nil {
		resp.LatestMovie = movie
	}
	if paths.RenderDir != "" {
		for _, l := range shotpaths.RenderLayers(paths.RenderDir) {
			resp.Layers = append(resp.Layers, l.Name)
		}
	}
	for _, t := range shotpaths.Thumbnails(paths.ThumbDir) {
		resp.Thumbnails = append(resp.Thumbnails, thumbnailResponse{Version: t.Version, Path: t.Path})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) triggerScan(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	if force && s.deps.ForceLimit != nil && !s.deps.ForceLimit.Allow() {
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "forced rescans are rate limited, try again later")
		return
	}

	// The scan outlives the request; shutdown cancels it through the coordinator.
	outcome := s.deps.Shots.EnsureFresh(context.WithoutCancel(r.Context()), force)

	code := http.StatusOK
	switch outcome {
	case coordinator.OutcomeStarted:
		code = http.StatusAccepted
	case coordinator.OutcomeInProgress:
		code = http.StatusConflict
	}
	writeJSON(w, code, scanResponse{
		Outcome: outcome.String(),
		State:   s.deps.Shots.State().String(),
	})
}

func (s *Server) navigationResponse() navigationResponse {
	nav := s.deps.Shots.Navigation()
	resp := navigationResponse{
		Index:       nav.Current,
		Position:    nav.Position(),
		Total:       nav.Total,
		CanPrevious: nav.CanPrevious(),
		CanNext:     nav.CanNext(),
	}
	if id, ok := s.deps.Shots.Current(); ok {
		resp.Shot = id.String()
	}
	return resp
}

func (s *Server) getNavigation(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.navigationResponse())
}

func (s *Server) setNavigation(w http.ResponseWriter, r *http.Request) {
	var req navigationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	switch {
	case req.Shot != "":
		id, ok := shotid.Parse(req.Shot)
		if !ok {
			writeError(w, http.StatusBadRequest, "INVALID_SHOT", "not a shot name: "+req.Shot)
			return
		}
		if _, ok := s.deps.Shots.GoTo(id); !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "shot not found: "+id.String())
			return
		}
	case req.Index != nil:
		if _, ok := s.deps.Shots.GoToIndex(*req.Index); !ok {
			writeError(w, http.StatusBadRequest, "INVALID_INDEX", "index out of range: "+strconv.Itoa(*req.Index))
			return
		}
	default:
		s.deps.Shots.Move(req.Delta)
	}

	writeJSON(w, http.StatusOK, s.navigationResponse())
}
