package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/studybuddy-api/internal/config"
	"github.com/studybuddy-api/internal/transport/http/handler"
	appmiddleware "github.com/studybuddy-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds the rate limiter's background sweep.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10, for code issuance, verification and login.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	otcH := handler.NewOTCHandler(deps.OTC, cfg.AllowedEmailSuffix)
	sessionH := handler.NewSessionHandler(deps.Students)
	studentH := handler.NewStudentHandler(deps.Students, deps.Matches)
	optionsH := handler.NewOptionsHandler(cfg.Options)
	courseH := handler.NewCourseHandler(deps.Courses)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		// Public routes
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/otc/{action}", otcH.Action)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.With(sensitiveRL.Limit).Post("/students", studentH.Register)
		r.Get("/options", optionsH.List)
		r.Get("/departments/{college}", optionsH.Departments)
		r.Get("/courses/search", courseH.Search)
		r.Post("/courses/names", courseH.Names)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/me", studentH.Me)
			r.Get("/students", studentH.List)
			r.Get("/students/{id}", studentH.Get)
			r.Put("/students/{id}", studentH.Update)
			r.Get("/students/{id}/matches", studentH.Matches)
		})
	})

	return r
}
