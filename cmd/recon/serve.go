package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/handlers"
	"github.com/SscSPs/payment_reconciler/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the report notification endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := a.connect(ctx); err != nil {
				return err
			}
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if a.cfg.NotificationUser == "" || a.cfg.NotificationPasswordHash == "" {
		return errors.New("NOTIFICATION_USER and NOTIFICATION_PASSWORD_HASH must be set to serve notifications")
	}

	rate, err := limiter.NewRateFromFormatted(a.cfg.IntakeRateLimit)
	if err != nil {
		return fmt.Errorf("invalid INTAKE_RATE_LIMIT %q: %w", a.cfg.IntakeRateLimit, err)
	}
	intakeLimiter := limiter.New(memory.NewStore(), rate)

	if a.cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(a.logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, a.cfg, a.services, a.methods, intakeLimiter)

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Server starting", slog.String("port", a.cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		a.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
