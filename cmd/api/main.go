package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/config"
	"github.com/careercompass/backend/internal/handler"
	handlerchat "github.com/careercompass/backend/internal/handler/chat"
	"github.com/careercompass/backend/internal/logger"
	"github.com/careercompass/backend/internal/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logr, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()
	zap.ReplaceGlobals(logr)

	if envErr != nil {
		logr.Info("no .env file loaded, using system environment only", zap.Error(envErr))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	sessions, closeSessions, err := newSessionStore(ctx, cfg.Session)
	if err != nil {
		logr.Fatal("failed to initialize session store", zap.Error(err))
	}
	defer closeSessions()

	opts := handler.Options{
		Sessions: sessions,
		Cookie: handlerchat.CookieOptions{
			Secure: cfg.Session.SecureCookie,
			MaxAge: cfg.Session.TTL,
		},
		Gatherer: reg,
		Logger:   logr,
	}

	if cfg.AI.Enabled() {
		orchestrator, err := newOrchestrator(ctx, cfg, logr, m)
		if err != nil {
			logr.Warn("failed to initialize chatbot, continuing without it", zap.Error(err))
		} else {
			opts.Processor = orchestrator
			logr.Info("chatbot initialized", zap.String("retriever", cfg.Retrieval.Backend))
		}
	} else {
		logr.Warn("ark credentials not configured, chatbot disabled")
	}

	startServer(ctx, cfg.Server, handler.NewRouter(opts), logr)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logr *zap.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logr.Info("career assistant backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logr.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
