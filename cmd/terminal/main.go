package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/altamira/pos-checkout/internal/backoffice"
	"github.com/altamira/pos-checkout/internal/config"
	"github.com/altamira/pos-checkout/internal/handlers"
	"github.com/altamira/pos-checkout/internal/middleware"
	"github.com/altamira/pos-checkout/internal/notify"
	"github.com/altamira/pos-checkout/internal/receipt"
	"github.com/altamira/pos-checkout/internal/session"
	"github.com/altamira/pos-checkout/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting pos terminal service",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"branch_id", cfg.Terminal.BranchID,
		"log_level", cfg.LogLevel,
	)

	// Back-office client for catalog, payment methods and sales
	client := backoffice.NewClient(
		cfg.Backoffice.BaseURL,
		cfg.Backoffice.APIKey,
		time.Duration(cfg.Backoffice.RequestTimeout)*time.Second,
		log,
	)

	// Notifications surface through the structured log; a front-end
	// would subscribe here instead.
	sink := notify.NewSlogSink(log)

	sessions := session.NewManager(session.Config{
		TenantID: cfg.Terminal.TenantID,
		BranchID: cfg.Terminal.BranchID,
		ReceiptOpts: receipt.Options{
			Width:        cfg.Terminal.ReceiptWidth,
			CurrencyCode: cfg.Terminal.CurrencyCode,
			MinorUnits:   cfg.Terminal.MinorUnits,
		},
	}, client, sink, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	checkoutHandler := handlers.NewCheckoutHandler(sessions, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.Auth))

		r.Post("/session", checkoutHandler.OpenSession)
		r.Route("/session/{sessionId}", func(r chi.Router) {
			r.Delete("/", checkoutHandler.CloseSession)
			r.Get("/cart", checkoutHandler.GetCart)
			r.Get("/products", checkoutHandler.ListProducts)
			r.Get("/payment-methods", checkoutHandler.ListPaymentMethods)

			r.Post("/cart/items", checkoutHandler.AddItem)
			r.Put("/cart/items/{productId}", checkoutHandler.SetQuantity)
			r.Delete("/cart/items/{productId}", checkoutHandler.RemoveItem)

			r.Put("/tender", checkoutHandler.SelectTender)
			r.Put("/tender/amount", checkoutHandler.SetAmountTendered)

			r.Post("/submit", checkoutHandler.Submit)
			r.Get("/receipt", checkoutHandler.GetReceipt)
			r.Post("/catalog/refresh", checkoutHandler.RefreshCatalog)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
