package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"timescape_backend/internal/config"
	"timescape_backend/internal/discovery"
	apphttp "timescape_backend/internal/http"
	"timescape_backend/platform/ai/gemini"
	"timescape_backend/platform/logger"
	"timescape_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "engine", cfg.SuggestEngine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := gemini.NewClient(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
	if err != nil {
		log.Error("failed to initialize gemini client", "error", err)
		panic("failed to initialize gemini client: " + err.Error())
	}
	log.Info("gemini client initialized", "model", client.ModelName())

	// Shared validator instance for dependency injection
	val := validator.New()

	discoveryModule, err := discovery.NewModule(cfg, client, val, log)
	if err != nil {
		log.Error("failed to initialize discovery module", "error", err)
		panic("failed to initialize discovery module: " + err.Error())
	}

	engine := apphttp.NewRouter(cfg, log, discoveryModule)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")

		// Close live suggestion sessions before the listener stops so
		// in-flight backend calls are cancelled rather than abandoned.
		discoveryModule.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}
