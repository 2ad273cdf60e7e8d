package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/omoarwwa-coder/ayman-ai/config"
	"github.com/omoarwwa-coder/ayman-ai/services"
)

var rootCmd = &cobra.Command{
	Use:   "nutriai",
	Short: "Personal nutrition analysis service",
	Long: `nutriai analyses food photos and recipes against the local user's
health profile, keeps a daily intake log and a recipe book, and serves the
state to a front end over HTTP and websockets.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, tokenCmd)
}

// appEnv bundles what both commands need from the environment.
type appEnv struct {
	cfg    *config.Config
	logger zerolog.Logger
	store  *services.Store
}

func loadRuntime() (*appEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger(cfg.AppEnv)

	db, err := config.OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("driver", cfg.DBDriver).Msg("database ready")

	return &appEnv{cfg: cfg, logger: logger, store: services.NewStore(db)}, nil
}

func (rt *appEnv) newApp(ctx context.Context, events services.EventPublisher) (*services.App, error) {
	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:      rt.cfg.GeminiAPIKey,
		BaseURL:     rt.cfg.GeminiBaseURL,
		Model:       rt.cfg.GeminiModel,
		PlacesModel: rt.cfg.GeminiPlacesModel,
		Logger:      &rt.logger,
	})
	if err != nil {
		return nil, err
	}
	if rt.cfg.GeminiAPIKey == "" {
		rt.logger.Warn().Msg("GEMINI_API_KEY is not set; analyses will fail")
	}

	opts := services.AppOptions{
		Store:          rt.store,
		Gateway:        gemini,
		Payments:       services.NewSimulatedPayment(rt.cfg.PaymentDelay),
		Logger:         rt.logger,
		FreeDailyScans: rt.cfg.FreeDailyScans,
		DefaultLang:    rt.cfg.DefaultLang,
		Events:         events,
	}
	if rt.cfg.S3Bucket != "" {
		archive, err := services.NewS3Archive(ctx, rt.cfg.S3Bucket, rt.cfg.S3Region, rt.cfg.CloudFrontURL)
		if err != nil {
			return nil, err
		}
		opts.Archive = archive
		rt.logger.Info().Str("bucket", rt.cfg.S3Bucket).Msg("scan images will be archived to S3")
	}

	app := services.NewApp(opts)
	if err := app.Start(ctx); err != nil {
		return nil, fmt.Errorf("start app: %w", err)
	}
	return app, nil
}
