package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/localmarket/internal/config"
	"github.com/georgemunganga/localmarket/internal/httpx"
	"github.com/georgemunganga/localmarket/internal/logging"
	"github.com/georgemunganga/localmarket/internal/middleware"
	"github.com/georgemunganga/localmarket/internal/modules/auth"
	"github.com/georgemunganga/localmarket/internal/modules/buyinggroup"
	"github.com/georgemunganga/localmarket/internal/modules/catalog"
	"github.com/georgemunganga/localmarket/internal/modules/order"
	"github.com/georgemunganga/localmarket/internal/modules/payment"
	"github.com/georgemunganga/localmarket/internal/modules/user"
	"github.com/georgemunganga/localmarket/internal/modules/vendor"
	"github.com/georgemunganga/localmarket/internal/server"
	"github.com/georgemunganga/localmarket/migrations"
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
	cfg, err := config.LoadAPI()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	deliveryFee, err := decimal.NewFromString(cfg.DeliveryFee)
	if err != nil || deliveryFee.IsNegative() {
		return fmt.Errorf("DELIVERY_FEE must be a non-negative amount, got %q", cfg.DeliveryFee)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("connect to database (%s): %w", logging.RedactURL(cfg.DatabaseURL), err)
	}
	logger.Info("connected to database", "url", logging.RedactURL(cfg.DatabaseURL))

	if cfg.AutoMigrate {
		if err := migrations.Up(pingCtx, db); err != nil {
			db.Close()
			return fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("schema migrations applied")
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Security(cfg.IsDevelopment(), false))
	router.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			httpx.Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		httpx.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	requireUser := auth.RequireUser(tokens)
	optionalUser := auth.OptionalUser(tokens)

	router.Route("/api", func(r chi.Router) {
		// ── Identity ────────────────────────────────────────────
		userRepo := user.NewPostgresRepository(db)
		user.NewHandler(user.NewService(userRepo, logger), logger).RegisterRoutes(r, requireUser)
		auth.NewHandler(auth.NewService(userRepo, tokens), logger).RegisterRoutes(r, requireUser)

		// ── Vendors & Catalog ───────────────────────────────────
		vendorRepo := vendor.NewPostgresRepository(db)
		vendor.NewHandler(vendor.NewService(vendorRepo), logger).RegisterRoutes(r, requireUser)
		catalogService := catalog.NewService(catalog.NewPostgresRepository(db), vendorRepo)
		catalog.NewHandler(catalogService, logger).RegisterRoutes(r, requireUser)
		groupService := buyinggroup.NewService(buyinggroup.NewPostgresRepository(db))
		buyinggroup.NewHandler(groupService, logger).RegisterRoutes(r, optionalUser)

		// ── Orders & Payments ───────────────────────────────────
		orderService := order.NewService(order.NewPostgresRepository(db), deliveryFee)
		order.NewHandler(orderService, logger).RegisterRoutes(r, requireUser)
		paymentService := payment.NewService(payment.NewPostgresRepository(db),
			payment.NewSandboxGateway(cfg.SandboxAutoConfirm), cfg.PaymentCurrency, logger)
		payment.NewHandler(paymentService, logger).RegisterRoutes(r, requireUser)
	})

	// ── Start Server ─────────────────────────────────────────
	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("database", func(context.Context) error { return db.Close() })

	logger.Info("marketplace API starting", slog.Int("port", cfg.AppPort), slog.String("env", cfg.AppEnv))
	return srv.Run(context.Background())
}
