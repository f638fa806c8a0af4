package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/studyplan/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Extractor produces the current page content.
type Extractor interface {
	Extract() (pipeline.Extraction, error)
}

// Server is the preview HTTP server: it serves the site directory and a
// JSON view of the extracted plan.
type Server struct {
	router chi.Router
	source Extractor
	root   string
	title  string
	timing *Latency
	log    *slog.Logger
}

// NewServer creates and configures the HTTP server. root is the directory
// holding the page and its data files.
func NewServer(source Extractor, root string, log *slog.Logger) *Server {
	s := &Server{
		source: source,
		root:   root,
		title:  "Study plan",
		timing: NewLatency(time.Hour),
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/items", s.handleItems)
		r.Get("/steps", s.handleSteps)
		r.Get("/stats", s.handleStats)
	})
	r.Get("/outline", s.handleOutline)

	r.Handle("/*", http.FileServer(http.Dir(s.root)))

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
