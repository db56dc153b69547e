package preview

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepress/internal/logfields"
	"git.home.luguber.info/inful/sitepress/internal/metrics"
	"git.home.luguber.info/inful/sitepress/internal/site"
)

// Server serves preview documents of the current site version. Documents are
// built on first request and cached until the site is replaced; replacing
// the site revokes every blob handle handed out so far.
type Server struct {
	Addr     string
	router   *chi.Mux
	server   *http.Server
	opts     Options
	registry *prom.Registry
	errors   *errors.HTTPErrorAdapter

	mu      sync.RWMutex
	site    *site.Site
	version int
	docs    map[string]*Document
	blobs   map[string]Blob
}

// NewServer creates a preview server for s. When reg is non-nil its metrics
// are exposed on /metrics.
func NewServer(addr string, s *site.Site, opts Options, reg *prom.Registry) *Server {
	srv := &Server{
		Addr:     addr,
		router:   chi.NewRouter(),
		opts:     opts,
		registry: reg,
		errors:   errors.NewHTTPErrorAdapter(nil),
	}
	srv.SetSite(s)
	srv.setupRoutes()

	srv.server = &http.Server{
		Addr:         addr,
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/_version", s.handleVersion)
	s.router.Get(BlobPrefix+"{id}", s.handleBlob)
	if s.registry != nil {
		s.router.Method(http.MethodGet, "/metrics", metrics.HTTPHandler(s.registry))
	}
	s.router.Get("/*", s.handlePage)
}

// Handler returns the router (for tests and embedding).
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// SetSite replaces the previewed site and drops cached documents and blobs.
func (s *Server) SetSite(in *site.Site) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.site = in
	s.version++
	s.docs = map[string]*Document{}
	s.blobs = map[string]Blob{}
}

// Version counts site replacements; clients poll /_version to reload.
func (s *Server) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Server) document(ctx context.Context, route string) (*Document, error) {
	s.mu.RLock()
	doc, ok := s.docs[route]
	current, version := s.site, s.version
	s.mu.RUnlock()
	if ok {
		return doc, nil
	}

	opts := s.opts
	opts.Route = route
	doc, err := Build(ctx, current, opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		// The site changed while building; serve the stale document without caching it.
		return doc, nil
	}
	s.docs[route] = doc
	for h, b := range doc.Blobs {
		s.blobs[h] = b
	}
	return doc, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	doc, err := s.document(r.Context(), r.URL.Path)
	if err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}
	for _, f := range doc.Failures {
		slog.Warn("Component failed to render", logfields.Page(f.Page), logfields.Component(string(f.Kind)), slog.String("reason", f.Reason))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(doc.HTML))
}

func (s *Server) handleBlob(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	b, ok := s.blobs[BlobPrefix+chi.URLParam(r, "id")]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", b.MIME)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(b.Data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"version": s.Version()})
}
