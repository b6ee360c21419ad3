// Пакет server — HTTP-сервер контент-бэкенда с TLS и graceful shutdown.
//
// Маршруты делятся на публичные (чтение контента сайта, приём
// откликов, отдача вложений) и административные, защищённые
// bearer-токенами. Пустой CMS_AUTH_SECRET отключает проверку.
package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arturkryukov/corpsite/content-backend/internal/api/handlers"
	"github.com/arturkryukov/corpsite/content-backend/internal/api/middleware"
	"github.com/arturkryukov/corpsite/content-backend/internal/config"
)

// Handlers — набор доменных обработчиков, монтируемых сервером.
type Handlers struct {
	Jobs         *handlers.JobsHandler
	Applications *handlers.ApplicationsHandler
	Users        *handlers.UsersHandler
	News         *handlers.NewsHandler
	Social       *handlers.SocialHandler
	Culture      *handlers.CultureHandler
	Company      *handlers.CompanyHandler
	Uploads      *handlers.UploadsHandler
	Maintenance  *handlers.MaintenanceHandler
	System       *handlers.SystemHandler
	Health       *handlers.HealthHandler
}

// Server — HTTP-сервер контент-бэкенда.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, h Handlers) *Server {
	auth := middleware.NewBearerAuth(cfg.AuthSecret, logger)
	if !auth.Enabled() {
		logger.Warn("CMS_AUTH_SECRET не задан, админ-API работает без аутентификации")
	}

	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.MetricsMiddleware())

	// Публичные служебные endpoints
	router.Get("/healthz/live", h.Health.Live)
	router.Get("/healthz/ready", h.Health.Ready)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		// Публичный контент сайта
		r.Get("/jobs", h.Jobs.List)
		r.Get("/jobs/{id}", h.Jobs.Get)
		r.Post("/applications", h.Applications.Create)
		r.Get("/news", h.News.List)
		r.Get("/news/{id}", h.News.Get)
		r.Get("/social", h.Social.List)
		r.Get("/social/{id}", h.Social.Get)
		r.Get("/culture", h.Culture.List)
		r.Get("/culture/{id}", h.Culture.Get)
		r.Get("/company", h.Company.Scopes)
		r.Get("/company/{scope}", h.Company.Get)
		r.Get("/uploads/{category}/{name}", h.Uploads.Serve)

		// Административные операции
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware())

			r.Post("/jobs", h.Jobs.Create)
			r.Patch("/jobs/{id}", h.Jobs.Update)
			r.Delete("/jobs/{id}", h.Jobs.Delete)

			r.Get("/applications", h.Applications.List)
			r.Get("/applications/{id}", h.Applications.Get)
			r.Patch("/applications/{id}", h.Applications.Update)
			r.Delete("/applications/{id}", h.Applications.Delete)

			r.Get("/users", h.Users.List)
			r.Post("/users", h.Users.Create)
			r.Get("/users/{id}", h.Users.Get)
			r.Patch("/users/{id}", h.Users.Update)
			r.Delete("/users/{id}", h.Users.Delete)

			r.Post("/news", h.News.Create)
			r.Patch("/news/{id}", h.News.Update)
			r.Delete("/news/{id}", h.News.Delete)

			r.Post("/social", h.Social.Create)
			r.Patch("/social/{id}", h.Social.Update)
			r.Delete("/social/{id}", h.Social.Delete)

			r.Post("/culture", h.Culture.Create)
			r.Patch("/culture/{id}", h.Culture.Update)
			r.Delete("/culture/{id}", h.Culture.Delete)

			r.Patch("/company/{scope}", h.Company.Update)
			r.Post("/company/{scope}/brands", h.Company.AddBrand)
			r.Patch("/company/{scope}/brands/{id}", h.Company.UpdateBrand)
			r.Delete("/company/{scope}/brands/{id}", h.Company.DeleteBrand)
			r.Post("/company/{scope}/services", h.Company.AddService)
			r.Patch("/company/{scope}/services/{id}", h.Company.UpdateService)
			r.Delete("/company/{scope}/services/{id}", h.Company.DeleteService)
			r.Post("/company/{scope}/awards", h.Company.AddAward)
			r.Patch("/company/{scope}/awards/{id}", h.Company.UpdateAward)
			r.Delete("/company/{scope}/awards/{id}", h.Company.DeleteAward)

			r.Post("/uploads", h.Uploads.Upload)

			r.Get("/system/stats", h.System.Stats)
			r.Post("/maintenance/reconcile", h.Maintenance.Reconcile)
			r.Post("/maintenance/gc", h.Maintenance.GC)
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Настройка TLS
	if cfg.TLSCert != "" && cfg.TLSKey != "" {
		srv.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown с таймаутом
// CMS_SHUTDOWN_TIMEOUT.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
			slog.Bool("tls", s.cfg.TLSCert != ""),
		)

		var err error
		if s.cfg.TLSCert != "" && s.cfg.TLSKey != "" {
			err = s.httpServer.ListenAndServeTLS(s.cfg.TLSCert, s.cfg.TLSKey)
		} else {
			err = s.httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
