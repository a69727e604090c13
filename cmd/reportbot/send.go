package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/reportbot/internal/clickup"
	"github.com/aatumaykin/reportbot/internal/config"
	"github.com/aatumaykin/reportbot/internal/logger"
	"github.com/aatumaykin/reportbot/internal/report"
	"github.com/aatumaykin/reportbot/internal/telegram"
)

var (
	sendConfigPath string
	sendDebug      bool
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [date]",
	Short: "Generate and send a report once",
	Long: `Generate the daily report for the given date (YYYY-MM-DD) and send it
to the configured Telegram chat. Without an argument the configured
default date is used.`,
	Args: cobra.MaximumNArgs(1),
	Run:  sendHandler,
}

func sendHandler(cmd *cobra.Command, args []string) {
	// Load .env file if exists
	if err := config.LoadEnvOptional("./.env"); err != nil {
		fmt.Printf("❌ Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	// Determine config path
	configPath := sendConfigPath
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if errors := cfg.Validate(); len(errors) > 0 {
		fmt.Printf("❌ Configuration validation failed:\n")
		for _, e := range errors {
			fmt.Printf("  - %v\n", e)
		}
		os.Exit(1)
	}

	// Enable debug mode if flag is set
	if sendDebug {
		cfg.Logging.Level = "debug"
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	// Initialize Telegram sender
	sender, err := telegram.New(cfg.Telegram, log)
	if err != nil {
		fmt.Printf("❌ Failed to initialize Telegram sender: %v\n", err)
		os.Exit(1)
	}

	docs := clickup.New(cfg.ClickUp, log)
	service := report.NewService(docs, sender, log, nil, cfg.Report.DefaultDate)

	date := ""
	if len(args) > 0 {
		date = args[0]
	}

	result, err := service.GenerateAndSend(context.Background(), date)
	if err != nil {
		fmt.Printf("❌ %s\n", result.Message)
		os.Exit(1)
	}

	fmt.Printf("✅ %s\n", result.Message)
}

func init() {
	sendCmd.Flags().StringVarP(&sendConfigPath, "config", "c", "", "Path to configuration file (default: ./config.toml)")
	sendCmd.Flags().BoolVarP(&sendDebug, "debug", "d", false, "Enable debug logging")
}
