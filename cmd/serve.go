package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/faunapedia/api-go/config"
	"github.com/faunapedia/api-go/middleware"
	"github.com/faunapedia/api-go/routes"
	"github.com/faunapedia/api-go/services"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := config.OpenStore(connectCtx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()
	logger.Info("store connected", zap.String("driver", cfg.StoreDriver))

	var presigner services.Presigner
	if cfg.S3.Enabled() {
		presigner = s3PresignClient(cfg.S3)
	} else {
		logger.Warn("object storage is not configured, uploads and new posts are disabled")
	}
	uploads := services.NewUploadService(presigner, cfg.S3.BucketName, cfg.S3.Region, cfg.S3.Endpoint)

	router := routes.SetupRouter(routes.Dependencies{
		Store:          st,
		StoreDriver:    cfg.StoreDriver,
		Uploads:        uploads,
		Verifier:       middleware.NewTokenVerifier(cfg.JWTSecret, cfg.JWTIssuer),
		Logger:         logger,
		AdminAPIKey:    cfg.AdminAPIKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
