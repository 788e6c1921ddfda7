package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"simchecker/internal/analysis"
	"simchecker/internal/gateway"
	"simchecker/internal/session"
	"simchecker/internal/storage"
)

// Analyzer runs one submission against the analysis backend.
type Analyzer interface {
	Analyze(ctx context.Context, sub gateway.Submission) (*analysis.Result, error)
}

// History is the optional submission log behind the dashboard.
type History interface {
	RecordSubmission(ctx context.Context, s *storage.Submission) error
	Recent(ctx context.Context, limit int) ([]storage.Submission, error)
	Stats(ctx context.Context) (storage.Stats, error)
}

type Deps struct {
	Analyzer       Analyzer
	Results        session.Store
	Cookies        session.Cookies
	History        History // nil keeps the dashboard on its placeholder figures
	AllowedOrigins []string
}

type Server struct {
	analyzer Analyzer
	results  session.Store
	cookies  session.Cookies
	history  History
	origins  []string
	pages    *pages
}

func NewServer(d Deps) (*Server, error) {
	p, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Server{
		analyzer: d.Analyzer,
		results:  d.Results,
		cookies:  d.Cookies,
		history:  d.History,
		origins:  d.AllowedOrigins,
		pages:    p,
	}, nil
}

// Router wires the three views and the JSON API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.Dashboard)
	r.Get("/submit", s.SubmitForm)
	r.Post("/submit", s.Submit)
	r.Get("/results", s.Results)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Get("/health", s.Health)
		r.Post("/analyze", s.AnalyzeJSON)
		r.Get("/submissions", s.Submissions)
	})

	return r
}
