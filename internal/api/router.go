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

	"siteproof/internal/api/handlers/http/ingest"
	"siteproof/internal/api/handlers/http/reports"
	"siteproof/internal/api/handlers/http/system"
	"siteproof/internal/config"
	"siteproof/internal/middleware"
	"siteproof/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service) *Server {
	ingestHandler := ingest.NewHandler(logger, svc.IngestService)
	reportsHandler := reports.NewHandler(logger, svc.ReportService)
	systemHandler := system.NewHandler(logger)

	r := InitRouter(cfg, ingestHandler, reportsHandler, systemHandler, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(cfg *config.Config, ingestHandler *ingest.Handler, reportsHandler *reports.Handler, systemHandler *system.Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/tasks/{task}", func(tr chi.Router) {
			// Uploads are authenticated upstream; the API key guards the
			// write path, and the tight limit reflects that batches are
			// CPU-bound (decode/resize/encode per image).
			tr.Route("/locations/{locationID}/photos", func(pr chi.Router) {
				pr.Use(middleware.APIKey(cfg.APIKey))
				pr.Use(middleware.Limit(2, 5, 10*time.Minute, logger))
				pr.Post("/", ingestHandler.IngestPhotos)
			})

			tr.With(middleware.Limit(10, 20, 5*time.Minute, logger)).
				Get("/reports", reportsHandler.ListByTask)
		})

		api.Get("/health", systemHandler.SystemHealth)
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
		s.logger.Info("Starting HTTP server",
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
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
