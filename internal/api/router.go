package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tourguard/internal/api/handlers/http/alerts"
	"tourguard/internal/api/handlers/http/incidents"
	"tourguard/internal/api/handlers/http/locations"
	"tourguard/internal/api/handlers/http/sos"
	"tourguard/internal/api/handlers/http/system"
	"tourguard/internal/config"
	"tourguard/internal/domain"
	"tourguard/internal/middleware"
	"tourguard/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service, db system.Pinger) *Server {
	prod := cfg.IsProd()

	incidentHandler := incidents.NewHandler(logger, svc.Incidents, svc.Stats, prod)
	alertHandler := alerts.NewHandler(logger, svc.Alerts, prod)
	sosHandler := sos.NewHandler(logger, svc.SOS, prod)
	locationHandler := locations.NewHandler(logger, svc.Locations, svc.Stats, prod)
	systemHandler := system.NewHandler(logger, db)

	r := InitRouter(cfg, logger, incidentHandler, alertHandler, sosHandler, locationHandler, systemHandler)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(
	cfg *config.Config,
	logger *slog.Logger,
	incidentHandler *incidents.Handler,
	alertHandler *alerts.Handler,
	sosHandler *sos.Handler,
	locationHandler *locations.Handler,
	systemHandler *system.Handler,
) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Http.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Limit(10, 20, 10*time.Minute, logger))

	elevated := middleware.RequireRoles(domain.RoleAdmin, domain.RoleSafetyOfficer)

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/health", systemHandler.SystemHealth)

		api.Group(func(authed chi.Router) {
			authed.Use(middleware.Auth(cfg.Auth.JWTSecret))

			authed.Route("/incidents", func(ir chi.Router) {
				// stats must be registered before the {id} routes
				ir.With(elevated).Get("/stats/overview", incidentHandler.StatsOverview)

				ir.Get("/", incidentHandler.List)
				ir.Post("/", incidentHandler.Create)

				ir.Route("/{id}", func(rr chi.Router) {
					rr.Get("/", incidentHandler.Get)
					rr.With(elevated).Put("/", incidentHandler.Update)
				})
			})

			// legacy simplified report path kept for mobile clients
			authed.Post("/incident", incidentHandler.CreateSimple)

			authed.Route("/alerts", func(ar chi.Router) {
				ar.Get("/", alertHandler.Feed)
				ar.Get("/emergency-contacts", alertHandler.EmergencyContacts)

				ar.Route("/safety", func(sr chi.Router) {
					sr.Get("/", alertHandler.ListSafety)
					sr.With(elevated).Post("/", alertHandler.CreateSafety)

					sr.Route("/{id}", func(rr chi.Router) {
						rr.Get("/", alertHandler.GetSafety)
						rr.With(elevated).Put("/", alertHandler.UpdateSafety)
						rr.With(elevated).Delete("/", alertHandler.DeleteSafety)
					})
				})
			})

			authed.Route("/sos", func(sr chi.Router) {
				sr.Post("/", sosHandler.Create)
				sr.Get("/latest", sosHandler.Latest)
				sr.Put("/{id}/status", sosHandler.UpdateStatus)
			})

			authed.Route("/locations", func(lr chi.Router) {
				lr.Get("/stats/overview", locationHandler.StatsOverview)

				lr.Get("/", locationHandler.List)
				lr.Get("/{id}", locationHandler.Get)
			})
		})
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
