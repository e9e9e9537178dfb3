package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "task-manager.com/task-manager/internal/configs"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "task-manager",
	Short:         "Personal task manager API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file loaded before reading the environment")
}

// bootstrap loads the env file and configuration and builds the global logger.
func bootstrap() (config.Config, *zap.Logger, error) {
	envErr := godotenv.Load(envFile)

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Info("env file not loaded, using environment variables", zap.String("path", envFile))
	}
	return cfg, logger, nil
}
