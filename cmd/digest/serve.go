package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"news-digest/internal/config"
	hhttp "news-digest/internal/handler/http"
	"news-digest/internal/observability/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the news HTTP API",
	Long: `Serve the news API for the UI layer:

  GET /api/news     run the pipeline and return today's news
  GET /api/prompt   preview the prompt (?date=YYYY-MM-DD)
  GET /health       liveness and completion API circuit breaker state
  GET /metrics      Prometheus metrics

The server stops gracefully on SIGINT or SIGTERM. When NEWS_PROMPT_FILE is set
the file is watched and prompt changes apply without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := cmdLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.HTTP.Addr, err)
	}

	shutdownTracing := tracing.Setup()

	srv := &http.Server{
		Handler:           newHandler(a, log),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting",
			slog.String("addr", ln.Addr().String()),
			slog.String("version", getVersion()),
			slog.String("model", cfg.Completion.Model),
			slog.Bool("news_rate_limit", cfg.HTTP.NewsRateLimitEnabled))
		return serveHTTP(gctx, srv, ln, cfg.HTTP.ShutdownTimeout, log)
	})

	if cfg.PromptFile != "" {
		watcher := config.NewPromptWatcher(cfg.PromptFile, a.svc.SetPromptBuilder, log)
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	err = g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if tErr := shutdownTracing(shutdownCtx); tErr != nil {
		log.Warn("tracer shutdown failed", slog.Any("error", tErr))
	}

	if err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

// serveHTTP serves srv on ln until ctx ends, then drains in-flight requests
// for up to shutdownTimeout. Request contexts do not inherit ctx's
// cancellation: they are canceled only once draining is over.
func serveHTTP(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration, log *slog.Logger) error {
	requestCtx, cancelRequests := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelRequests()
	srv.BaseContext = func(net.Listener) context.Context {
		return requestCtx
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// newHandler builds the API router for a wired app.
func newHandler(a *app, log *slog.Logger) http.Handler {
	return hhttp.NewRouter(hhttp.RouterConfig{
		News:             a.svc,
		Breaker:          a.client.Breaker(),
		Model:            a.client.Model(),
		Version:          getVersion(),
		Logger:           log,
		RateLimitEnabled: a.cfg.HTTP.NewsRateLimitEnabled,
		NewsRate:         a.cfg.HTTP.NewsRate,
		NewsBurst:        a.cfg.HTTP.NewsBurst,
		NewsTimeout:      a.cfg.HTTP.NewsTimeout,
		CORSOrigins:      a.cfg.HTTP.CORSAllowedOrigins,
	})
}
