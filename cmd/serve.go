package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/omoarwwa-coder/ayman-ai/routes"
	"github.com/omoarwwa-coder/ayman-ai/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	if !rt.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := services.NewRealtimeHub()
	app, err := rt.newApp(ctx, services.NewAlertBus(hub, rt.logger))
	if err != nil {
		return err
	}

	port := rt.cfg.Port
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}
	srv := &http.Server{
		Addr: ":" + port,
		Handler: routes.SetupRouter(routes.Deps{
			App:           app,
			Analytics:     services.NewAnalyticsService(rt.store),
			RT:            hub,
			Logger:        rt.logger,
			SessionSecret: rt.cfg.SessionSecret,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	rt.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
