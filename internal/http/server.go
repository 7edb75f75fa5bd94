package httpapi

import (
	"net/http"
	"slices"

	"wellhub-backend-go/internal/config"
	"wellhub-backend-go/internal/middleware"
	"wellhub-backend-go/internal/models"
	"wellhub-backend-go/internal/services"
	"wellhub-backend-go/internal/telemetry"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type Server struct {
	DB       *sqlx.DB
	Config   config.Config
	Tokens   services.TokenService
	Source   telemetry.Source
	Log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewServer(db *sqlx.DB, cfg config.Config, source telemetry.Source, logger logrus.FieldLogger) *Server {
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}
	s := &Server{
		DB:     db,
		Config: cfg,
		Tokens: tokens,
		Source: source,
		Log:    logger,
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.StripSlashes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(s.Log))
	r.Use(middleware.Recoverer(s.Log, "detail"))
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders:   []string{middleware.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(s.Authenticate)
		api.Get("/health", s.Health)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", s.Register)
			auth.Post("/login", s.Login)
			auth.Post("/refresh", s.Refresh)
			auth.With(RequireRoles(models.AnyRole)).Get("/profile", s.Profile)
			auth.With(RequireRoles(models.AnyRole)).Get("/me", s.Profile)
		})

		api.Route("/wells", func(wells chi.Router) {
			wells.Use(RequireRoles(models.OperatorOrAbove))
			wells.Get("/", s.ListWells)
			wells.Post("/", s.CreateWell)
			wells.Get("/{wellID}", s.GetWell)
			wells.Put("/{wellID}", s.ReplaceWell)
			wells.Patch("/{wellID}", s.PatchWell)
			wells.Delete("/{wellID}", s.DeleteWell)
		})

		api.Route("/external", func(ext chi.Router) {
			ext.Use(RequireRoles(models.ViewerOrAbove))
			ext.Get("/health", s.ExternalHealth)
			ext.Get("/wells", s.ExternalWells)
			ext.Get("/wells/{wellID}", s.ExternalWell)
			ext.Get("/wells/{wellID}/telemetry", s.ExternalTelemetry)
		})

		api.With(RequireRoles(models.AdminOnly)).Get("/admin/metrics", s.Metrics)
	})

	r.Get("/ws/wells/{wellID}/telemetry", s.TelemetrySocket)
	return r
}

// checkOrigin accepts any origin unless CORS origins are configured.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.Config.CorsOrigins) == 0 {
		return true
	}
	return slices.Contains(s.Config.CorsOrigins, origin) || slices.Contains(s.Config.CorsOrigins, "*")
}
