package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/savannahworks/uliza/internal/config"
	"github.com/savannahworks/uliza/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "uliza",
	Short: "Uliza is a USSD menu engine for feature-phone services",
	Long:  `Uliza answers telco gateway callbacks with interactive text menus: wildlife tracking, carbon credits, chief services, code school and marketplace, all over a plain phone dial.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func buildLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return logging.New(level, cfg.LogJSON)
}
