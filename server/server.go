package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"buildergpt/artifact"
	"buildergpt/component"
	"buildergpt/schematic"
)

//go:embed static
var embeddedStatic embed.FS

// Server exposes the generation page and its JSON API.
type Server struct {
	comp     *component.Component
	writer   *artifact.Writer
	store    *generationStore
	staticFS http.Handler
	log      zerolog.Logger
}

// generationStore keeps this process's generation history for the page.
type generationStore struct {
	mu      sync.Mutex
	results []component.Result
}

func newStore() *generationStore {
	return &generationStore{}
}

func (s *generationStore) add(r component.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *generationStore) list() []component.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]component.Result, len(s.results))
	copy(out, s.results)
	return out
}

func New(comp *component.Component, writer *artifact.Writer, log zerolog.Logger) (*Server, error) {
	if comp == nil {
		return nil, errors.New("component required")
	}
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return nil, err
	}
	return &Server{
		comp:     comp,
		writer:   writer,
		store:    newStore(),
		staticFS: http.FileServer(http.FS(sub)),
		log:      log,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/generations", s.handleGenerations)
	mux.HandleFunc("/api/versions", s.handleVersions)
	mux.HandleFunc("/files/", s.handleDownload)
	mux.Handle("/", s.staticHandler())
	return s.logMiddleware(mux)
}

func (s *Server) staticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upath := r.URL.Path
		if upath == "/" {
			r.URL.Path = "/index.html"
		}
		s.staticFS.ServeHTTP(w, r)
	})
}

// --- Handlers ---

type generateReq struct {
	Description string `json:"description"`
	Version     string `json:"version"`
	Format      string `json:"format"`
	// Image is an optional data: URL of a reference picture, produced by the
	// page's file input.
	Image string `json:"image,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		http.Error(w, "description is required", http.StatusBadRequest)
		return
	}
	format, err := schematic.ParseExportFormat(req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Image != "" && !strings.HasPrefix(req.Image, "data:image/") {
		http.Error(w, "image must be a data:image/... URL", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	result, err := s.comp.Generate(ctx, component.Request{
		Description:  req.Description,
		Version:      req.Version,
		Format:       format,
		ImageDataURL: req.Image,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("generation failed")
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	s.store.add(*result)
	writeJSON(w, result)
}

// statusFor maps the error taxonomy to HTTP: provider failures are 502,
// parse/encoding failures 422, unknown selectors 400, the rest 500.
func statusFor(err error) int {
	var provider *component.ProviderError
	if errors.As(err, &provider) {
		return http.StatusBadGateway
	}
	var enc *schematic.EncodingError
	if errors.Is(err, schematic.ErrNoPlacements) || errors.As(err, &enc) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, schematic.ErrUnknownVersion) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) handleGenerations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.store.list())
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, schematic.KnownVersions())
}

// handleDownload serves only files the artifact manifest records; nothing
// else in the output directory is reachable.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/files/")
	if name == "" || name != path.Base(name) {
		http.NotFound(w, r)
		return
	}
	if !s.writer.Has(name) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	http.ServeFile(w, r, path.Join(s.writer.Dir(), name))
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
