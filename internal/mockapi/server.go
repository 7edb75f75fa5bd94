package mockapi

import (
	"net/http"

	"wellhub-backend-go/internal/middleware"
	"wellhub-backend-go/internal/telemetry"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Server is the unauthenticated stand-in for the external monitoring API.
type Server struct {
	Gen *telemetry.Generator
	Log logrus.FieldLogger
}

func NewServer(gen *telemetry.Generator, logger logrus.FieldLogger) *Server {
	return &Server{Gen: gen, Log: logger}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.StripSlashes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(s.Log))
	r.Use(middleware.Recoverer(s.Log, "error"))

	r.Get("/", s.Root)
	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/wells", s.ListWells)
		api.Get("/wells/{wellID}", s.WellDetail)
		api.Get("/wells/{wellID}/telemetry", s.WellTelemetry)
		api.Get("/health", s.Health)
	})
	return r
}
