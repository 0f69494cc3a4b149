// Пакет server — HTTP-сервер DeviceHub с graceful shutdown.
// Без TLS — сервис работает на рабочей станции оператора за reverse proxy.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/devicehub/internal/api/generated"
	"github.com/bigkaa/devicehub/internal/api/handlers"
	"github.com/bigkaa/devicehub/internal/api/middleware"
	"github.com/bigkaa/devicehub/internal/config"
	"github.com/bigkaa/devicehub/internal/i18n"
)

// ScopeNAS — scope JWT для прямого доступа к NAS (прокси-маршрут и выход из сессии).
const ScopeNAS = "devicehub:nas"

// nasPaths — маршруты, требующие ScopeNAS.
var nasPaths = []string{"/api/synology", "/api/v1/nas/logout"}

// publicPrefixes — пути без JWT: проверки здоровья и метрики опрашиваются напрямую.
var publicPrefixes = []string{"/health/", "/metrics", "/api/openapi.yaml"}

// Options — middleware, зависящие от конфигурации.
// JWTAuth и Validator могут быть nil (проверка отключена).
type Options struct {
	Messages  *i18n.Bundle
	JWTAuth   *middleware.JWTAuth
	Validator *middleware.OpenAPIValidator
}

// Server — HTTP-сервер DeviceHub.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными маршрутами и middleware.
// api — реализация сгенерированного интерфейса, proxy — сырой прокси Synology API.
func New(cfg *config.Config, logger *slog.Logger, api generated.ServerInterface, proxy http.Handler, opts Options) *Server {
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     NewRouter(logger, api, proxy, opts),
		ReadTimeout: cfg.HTTPReadTimeout,
		// 0 — без ограничения: SSE и скачивание файлов длятся дольше любого таймаута
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает chi-маршрутизатор DeviceHub.
// Маршруты /api/v1, проверки здоровья и метрики регистрирует сгенерированный
// HandlerWithOptions; прокси принимает любой метод и регистрируется отдельно.
func NewRouter(logger *slog.Logger, api generated.ServerInterface, proxy http.Handler, opts Options) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	if opts.Messages != nil {
		router.Use(opts.Messages.Middleware())
	}
	if opts.JWTAuth != nil {
		router.Use(jwtAuthWithExclusions(opts.JWTAuth, publicPrefixes...))
		router.Use(requireScopeOn(ScopeNAS, nasPaths...))
	}
	if opts.Validator != nil {
		router.Use(opts.Validator.Middleware())
	}

	// Не-GET запросы к прокси получают 405 в формате API
	router.Handle("/api/synology", proxy)

	return generated.HandlerWithOptions(api, generated.ChiServerOptions{
		BaseRouter:       router,
		ErrorHandlerFunc: handlers.WriteParamError,
	})
}

// requireScopeOn применяет RequireScope только к перечисленным путям.
// Сгенерированные маршруты регистрируются без собственных middleware,
// поэтому проверка scope выполняется по пути запроса.
func requireScopeOn(scope string, paths ...string) func(http.Handler) http.Handler {
	guard := middleware.RequireScope(scope)

	return func(next http.Handler) http.Handler {
		guarded := guard(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range paths {
				if r.URL.Path == p {
					guarded.ServeHTTP(w, r)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// jwtAuthWithExclusions оборачивает JWTAuth.Middleware(), пропуская указанные пути.
// Запросы к путям, начинающимся с любого из excludePrefixes, проходят без JWT.
func jwtAuthWithExclusions(jwtAuth *middleware.JWTAuth, excludePrefixes ...string) func(http.Handler) http.Handler {
	jwtMiddleware := jwtAuth.Middleware()

	return func(next http.Handler) http.Handler {
		protected := jwtMiddleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range excludePrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}
			protected.ServeHTTP(w, r)
		})
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
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

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
