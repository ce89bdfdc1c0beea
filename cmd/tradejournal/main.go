package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"tradejournal/internal/cli"
	"tradejournal/internal/config"
	"tradejournal/internal/logging"
)

func main() {
	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	configDir := os.Getenv("TRADEJOURNAL_CONFIG_DIR")
	if configDir == "" {
		configDir = config.DefaultConfigDir()
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tradejournal: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd := cli.NewRootCmd(cfg, configDir, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tradejournal: %v\n", err)
		os.Exit(1)
	}
}
