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

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/esi-go/pkg/auth"
	"github.com/Sternrassler/esi-go/pkg/client"
	"github.com/Sternrassler/esi-go/pkg/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "esi-proxy",
		Short: "HTTP proxy in front of the EVE Swagger Interface",
		Long: `esi-proxy forwards GET /esi/<route> to ESI through the esi-go client.
Paginated routes are fetched completely and returned as one JSON array.
Transient ESI errors are retried with backoff.`,
		SilenceUsage: true,
	}
	registerFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		v, err := newViper(cmd.Flags())
		if err != nil {
			return err
		}
		cfg, err := loadConfig(v)
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(ctx, cfg)
	}

	return cmd
}

func run(ctx context.Context, cfg proxyConfig) error {
	logging.Setup(cfg.loggingConfig())
	logger := logging.NewLogger("esi-proxy")

	esiClient, err := client.New(cfg.clientConfig())
	if err != nil {
		return fmt.Errorf("create ESI client: %w", err)
	}
	defer esiClient.Close()

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		store := auth.NewRedisStore(redisClient, cfg.TokenName, logging.NewLogger("esi-auth"))
		if err := esiClient.LoadToken(ctx, store); err != nil {
			return err
		}
		logger.Info().Str("redis", cfg.RedisAddr).Str("key", store.Key()).Msg("Loaded bearer token")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newMux(esiClient, cfg.RequestTimeout, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("user_agent", cfg.UserAgent).
			Str("base_url", cfg.BaseURL).
			Msg("Starting ESI proxy server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down ESI proxy server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return shutdown(shutdownCtx, srv, logger)
}

func shutdown(ctx context.Context, srv *http.Server, logger zerolog.Logger) error {
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		return err
	}
	return nil
}
