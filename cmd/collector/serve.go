package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/collector/internal/config"
	"github.com/dropDatabas3/collector/internal/http/server"
	"github.com/dropDatabas3/collector/internal/observability/logger"
)

func newServeCmd() *cobra.Command {
	var (
		configPath = envOr("COLLECTOR_CONFIG", "configs/collector.yaml")
		envFile    = ".env"
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el collector HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// .env es opcional
			_ = godotenv.Load(envFile)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       cfg.Log.Level,
				ServiceName: "collector",
				Version:     version,
			})
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logger.ToContext(ctx, logger.L())

			app, err := server.Build(ctx, cfg, server.BuildInfo{Version: version, Commit: commit})
			if err != nil {
				logger.L().Error("wiring failed", logger.Err(err))
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.L().Warn("cleanup error", logger.Err(err))
				}
			}()

			if err := app.Start(ctx); err != nil {
				return err
			}
			return app.Serve(ctx)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", configPath, "Archivo YAML de configuración (env COLLECTOR_CONFIG)")
	cmd.Flags().StringVar(&envFile, "env-file", envFile, "Archivo .env a cargar si existe")
	return cmd
}
