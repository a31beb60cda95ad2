// Package searchservice assembles and runs the message search service.
package searchservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/november7/message-search/internal/api/http"
	"github.com/november7/message-search/internal/config"
	"github.com/november7/message-search/internal/metrics"
	"github.com/november7/message-search/internal/platform/logger"
	"github.com/november7/message-search/internal/search"
	"github.com/november7/message-search/internal/store"
	"github.com/november7/message-search/internal/upstream"
)

// Run starts the message search HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("message-search")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("upstream_url", cfg.UpstreamURL).
		Msg("Message search service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	// Populate the cache before accepting search traffic.
	st := store.New(log)
	if err := loadCache(ctx, cfg, log, st); err != nil {
		if cfg.FailHard {
			return err
		}
		// Keep serving: /api/search and /api/ready answer 503 until an
		// operator restarts the process with a reachable upstream.
		httpapi.SetLoadError(err)
		log.Error().Err(err).Msg("startup cache load failed, serving unready")
	}

	svc := search.New(st, cfg.MaxPageSize, log)
	router := httpapi.NewRouter(svc, st, cfg.DefaultPageSize)

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}
}

// loadCache performs the single startup fetch within the configured budget.
func loadCache(ctx context.Context, cfg *config.Config, log zerolog.Logger, st *store.Store) error {
	src := upstream.New(cfg.UpstreamURL, cfg.UpstreamTimeout(), cfg.LoadMaxRetries, log)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout())
	defer cancel()

	if err := st.Load(loadCtx, src); err != nil {
		return err
	}
	metrics.MessagesLoaded.Set(float64(st.Len()))
	return nil
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
