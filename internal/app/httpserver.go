package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger зависимость, доступность которой проверяет /readyz
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc адаптер функции к Pinger
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type healthResponse struct {
	Status       string            `json:"status"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// HTTPServer отдаёт пробы и метрики
type HTTPServer struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewHTTPServer собирает роутер: /healthz, /readyz, /metrics.
// deps проверяются по очереди; недоступность любой даёт 503
func NewHTTPServer(addr, env string, gatherer prometheus.Gatherer, deps map[string]Pinger, logger *zap.Logger) *HTTPServer {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, healthResponse{Status: "ok", Env: env})
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Env: env, Dependencies: make(map[string]string, len(deps))}
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				logger.Warn("Readiness check failed", zap.String("dependency", name), zap.Error(err))
				resp.Dependencies[name] = "down"
				resp.Status = "error"
				continue
			}
			resp.Dependencies[name] = "ok"
		}

		if resp.Status != "ok" {
			render.Status(r, http.StatusServiceUnavailable)
		}
		render.JSON(w, r, resp)
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &HTTPServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Handler роутер сервера
func (s *HTTPServer) Handler() http.Handler {
	return s.srv.Handler
}

// Run слушает до отмены ctx, затем корректно останавливает сервер
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
