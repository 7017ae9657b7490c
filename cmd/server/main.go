package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"party-lab/api"
	"party-lab/auth"
	"party-lab/bus"
	"party-lab/clock"
	"party-lab/emoji"
	apperrors "party-lab/errors"
	"party-lab/internal"
	"party-lab/moderation"
	"party-lab/observability"
	"party-lab/runtime"
	"party-lab/services"
	"party-lab/workers"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Calling os.Exit here directly would skip the deferred cleanups, so errors bubble up instead.
func run() (int, error) {
	// 1. Configuration & Logger
	// A local .env is a convenience for development; production relies
	// on real environment variables.
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(&config); err != nil {
		return exitConfig, fmt.Errorf("%w: %v", apperrors.ErrInvalidConfig, err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Core components
	moderator, err := moderation.NewDefault(charReplacement)
	if err != nil {
		return exitRuntime, fmt.Errorf("moderation init failed: %w", err)
	}

	tokens, err := auth.NewTokenManager(logger, config.AuthTokenDuration)
	if err != nil {
		return exitRuntime, fmt.Errorf("auth init failed: %w", err)
	}

	clk := clock.System{}
	events := bus.NewBus(logger)
	monitor := observability.NewManager(logger)

	engine := runtime.NewEngine(logger, clk, events, emoji.NewProvider(), monitor, runtime.Settings{
		MinPlayers:      config.MinPlayers,
		RoundsPerGame:   config.RoundsPerGame,
		RoundDuration:   config.RoundDuration,
		ResultsDuration: config.ResultsDuration,
	})
	grace := runtime.NewGrace(logger, clk, engine, config.DisconnectGrace)
	service := services.NewGameService(logger, engine, tokens, moderator, grace, events)

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Background workers
	sup := workers.NewSupervisor(logger, config.RestartInterval).
		Add(observability.NewSampler(logger, monitor, config.MetricInterval))

	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 5. HTTP server
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{
		Addr:    address,
		Handler: api.NewRouter(logger, service, monitor),
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 7. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	sup.Stop()
	<-supDone
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}
