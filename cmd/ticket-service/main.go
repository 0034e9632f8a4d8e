package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"instapic-ticketing/internal/app"
	"instapic-ticketing/internal/auth"
	"instapic-ticketing/internal/config"
	"instapic-ticketing/internal/logger"
	"instapic-ticketing/internal/monitoring"
	"instapic-ticketing/internal/ratelimit"
	"instapic-ticketing/internal/tickets/template"
	"instapic-ticketing/internal/tickets/ticket_api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := logger.NewLogger("ticket-service")
	defer logger.Close()

	logger.Info("APP", "Starting Ticket Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("APP", fmt.Sprintf("Failed to initialize: %v", err))
	}
	defer a.Close()

	handler := ticket_api.NewHandler(a.Service, a.CheckoutURLs(), logger)
	handler.Vouchers = template.NewTicketPDFGenerator(a.Settings.SiteName)

	routeOpts := ticket_api.RouteOptions{
		MirrorAuth: auth.MirrorMiddleware(a.Settings.SecretKey, cfg.Mirror.AuthRequired, logger),
	}
	if a.Redis != nil {
		routeOpts.Limiter = ratelimit.NewLimiter(a.Redis, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
		logger.Info("ROUTER", fmt.Sprintf("Rate limiting code lookups to %d per %s", cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	if cfg.Mirror.AuthRequired {
		logger.Info("AUTH", "Mirror endpoints require a bearer token")
	}

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Handle("/metrics", monitoring.Handler())
	handler.Routes(r, routeOpts)

	// no WriteTimeout: ticket status streams stay open
	server := &http.Server{
		Addr:        cfg.Server.Port,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("%s ticket service running on %s", a.Settings.SiteName, cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "Ticket Service shutdown complete")
	}
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.LogAPI(r.Method, r.URL.Path, fmt.Sprintf("%d", ww.Status()), time.Since(start).String())
		})
	}
}
