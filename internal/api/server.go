// internal/api/server.go

// Package api exposes the candidature intake and data-rights operations
// over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"candidature-api/internal/candidature"
	"candidature-api/internal/common/config"
	"candidature-api/internal/common/errors"
	"candidature-api/internal/common/logger"
	"candidature-api/internal/gdpr"
)

// Server wires the HTTP stack around the candidature and data-rights
// services.
type Server struct {
	cfg         *config.Config
	logger      logger.Logger
	errHandler  *errors.HTTPHandler
	candidature *candidature.Service
	gdpr        *gdpr.Service
	limiter     *RateLimiter

	router *chi.Mux
	server *http.Server
}

// NewServer builds the router with its middleware and routes. The rate
// limiter may be nil when rate limiting is disabled.
func NewServer(cfg *config.Config, log logger.Logger, candidatureSvc *candidature.Service, gdprSvc *gdpr.Service, limiter *RateLimiter) *Server {
	s := &Server{
		cfg:         cfg,
		logger:      log.WithFields(map[string]interface{}{"component": "http-server"}),
		errHandler:  errors.NewHTTPHandler(log, cfg.App.IsDevelopment()),
		candidature: candidatureSvc,
		gdpr:        gdprSvc,
		limiter:     limiter,
		router:      chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(s.recoverer)
	s.router.Use(securityHeaders)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(metricsMiddleware)
	s.router.Use(bodyLimit(s.cfg.Server.BodyLimitBytes))

	if s.limiter != nil {
		s.router.Use(s.limiter.Middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/candidatures", s.handleCreateCandidature)

		r.Route("/gdpr", func(r chi.Router) {
			r.Get("/export/{email}", s.handleExportData)
			r.Put("/update/{id}", s.handleUpdateData)
			r.Delete("/delete/{id}", s.handleDeleteData)
		})
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("route not found", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "Route not found",
		})
	})
}

// Start begins listening for HTTP requests and blocks until the server
// stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("http server listening", map[string]interface{}{"addr": addr})
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "OK",
		"timestamp": time.Now().UTC(),
	})
}

// recoverer turns panics into structured 500 responses instead of the
// default text body.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", map[string]interface{}{
					"panic":  rec,
					"method": r.Method,
					"path":   r.URL.Path,
				})
				s.errHandler.WriteError(w, errors.NewInternalError(fmt.Errorf("panic: %v", rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// securityHeaders hardens every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none';")

		// Responses under /api carry personal data, keep them out of caches.
		if len(r.URL.Path) >= 4 && r.URL.Path[:4] == "/api" {
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
			w.Header().Set("Pragma", "no-cache")
		}

		next.ServeHTTP(w, r)
	})
}
