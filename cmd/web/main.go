package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/georgemunganga/localmarket/internal/client"
	"github.com/georgemunganga/localmarket/internal/config"
	"github.com/georgemunganga/localmarket/internal/logging"
	"github.com/georgemunganga/localmarket/internal/server"
	"github.com/georgemunganga/localmarket/internal/session"
	"github.com/georgemunganga/localmarket/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadWeb()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	store, err := session.NewRedisStore(context.Background(), cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis (%s): %w", logging.RedactURL(cfg.RedisURL), err)
	}
	logger.Info("connected to redis", "url", logging.RedactURL(cfg.RedisURL))

	apiClient, err := client.New(cfg.APIBaseURL,
		client.WithTimeout(cfg.APITimeout),
		client.WithLogger(logger),
		client.WithUserAgent("localmarket-web/1.0"),
	)
	if err != nil {
		store.Close()
		return err
	}

	sessions := session.NewManager(store, apiClient.Auth, cfg.SessionTTL)
	h, err := web.New(apiClient, sessions, store, logger, web.Options{
		CookieSecure:  cfg.CookieSecure,
		SessionTTL:    cfg.SessionTTL,
		IsDevelopment: cfg.IsDevelopment(),
		Health:        store,
	})
	if err != nil {
		store.Close()
		return err
	}

	srv := server.New(h.Routes(), server.Options{
		Port:            cfg.WebPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("redis", func(context.Context) error { return store.Close() })

	logger.Info("storefront starting",
		slog.Int("port", cfg.WebPort),
		slog.String("api", logging.RedactURL(cfg.APIBaseURL)),
	)
	return srv.Run(context.Background())
}
