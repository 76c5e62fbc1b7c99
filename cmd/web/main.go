package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/ledgercheck/finhealth/pkg/runtime/bootstrap"
	"github.com/ledgercheck/finhealth/pkg/server"
	"github.com/ledgercheck/finhealth/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the financial health API",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a config file; FINHEALTH_* environment variables override it")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfgPath != "" {
		logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)
	}

	app, err := bootstrap.Open(ctx, *cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to release resources")
		}
	}()

	logger.Info().
		Str("history_backend", string(cfg.History.Backend)).
		Str("default_currency", cfg.Presentation.DefaultCurrency).
		Msg("Services initialized")

	api := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Analysis:       app.Analysis,
			Facade:         app.Facade,
			MaxUploadBytes: cfg.Server.MaxUploadBytes,
		},
	})

	return api.Start(ctx)
}
