package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aatumaykin/reportbot/internal/clickup"
	"github.com/aatumaykin/reportbot/internal/config"
	"github.com/aatumaykin/reportbot/internal/logger"
	"github.com/aatumaykin/reportbot/internal/report"
	"github.com/aatumaykin/reportbot/internal/scheduler"
	"github.com/aatumaykin/reportbot/internal/store"
	"github.com/aatumaykin/reportbot/internal/telegram"
	"github.com/aatumaykin/reportbot/internal/web"
)

var (
	serveConfigPath string
	serveLogLevel   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start reportbot (main command)",
	Long: `Start reportbot with the specified configuration.
This will initialize all components (logger, schedule store, ClickUp client,
Telegram sender, scheduled runner, web UI) and handle graceful shutdown.

The serve command is the main entry point for running reportbot.`,
	Run: serveHandler,
}

func serveHandler(cmd *cobra.Command, args []string) {
	// Load .env file if exists
	if err := config.LoadEnvOptional("./.env"); err != nil {
		fmt.Printf("❌ Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	// Determine config path
	configPath := serveConfigPath
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Override log level if flag is set
	if serveLogLevel != "" {
		cfg.Logging.Level = serveLogLevel
	}

	// Validate configuration
	if errors := cfg.Validate(); len(errors) > 0 {
		fmt.Printf("❌ Configuration validation failed:\n")
		for _, e := range errors {
			fmt.Printf("  - %v\n", e)
		}
		os.Exit(1)
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

	// Log startup information
	log.Info("🚀 Starting reportbot",
		logger.Field{Key: "version", Value: Version},
		logger.Field{Key: "git_commit", Value: GitCommit},
		logger.Field{Key: "config", Value: configPath},
		logger.Field{Key: "database", Value: cfg.Database.Path},
		logger.Field{Key: "telegram_token", Value: config.MaskTelegramToken(cfg.Telegram.Token)},
		logger.Field{Key: "clickup_api_key", Value: config.MaskAPIKey(cfg.ClickUp.APIKey)},
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Open schedule store
	log.Info("💾 Opening schedule store", logger.Field{Key: "path", Value: cfg.Database.Path})
	db, err := store.OpenSQLite(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open schedule store", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize Telegram sender
	log.Info("📱 Initializing Telegram sender",
		logger.Field{Key: "chat_id", Value: cfg.Telegram.ChatID})
	sender, err := telegram.New(cfg.Telegram, log)
	if err != nil {
		log.Error("Failed to initialize Telegram sender", err)
		os.Exit(1)
	}

	// Initialize ClickUp client and the report pipeline
	registry := prometheus.NewRegistry()
	metrics := report.InitMetrics("reportbot", registry)
	docs := clickup.New(cfg.ClickUp, log)
	service := report.NewService(docs, sender, log, metrics, cfg.Report.DefaultDate)

	// Start the scheduled runner
	var runner *scheduler.Runner
	if cfg.Schedule.Enabled {
		log.Info("⏰ Starting scheduled runner")
		runner = scheduler.NewRunner(db, service, log)
		if err := runner.Start(ctx); err != nil {
			log.Error("Failed to start scheduled runner", err)
			os.Exit(1)
		}
	} else {
		log.Warn("Scheduled runner is disabled")
	}

	// Start the web UI
	var webServer *web.Server
	if cfg.Web.Enabled {
		log.Info("🌐 Starting web UI",
			logger.Field{Key: "addr", Value: cfg.Web.ListenAddr})
		webServer = web.NewServer(cfg.Web, log, db, service, registry)
		go func() {
			if err := webServer.Start(); err != nil {
				log.Error("Web server failed", err)
				sigChan <- syscall.SIGTERM
			}
		}()
	} else {
		log.Warn("Web UI is disabled")
	}

	log.Info("✅ Reportbot is running")

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("⏳ Received shutdown signal",
		logger.Field{Key: "signal", Value: sig.String()})

	// Graceful shutdown
	log.Info("🛑 Shutting down reportbot...")
	cancel()

	if webServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to stop web server", err)
		}
		shutdownCancel()
	}

	if runner != nil {
		runner.Stop()
	}

	log.Info("👋 Reportbot stopped gracefully")
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to configuration file (default: ./config.toml)")
	serveCmd.Flags().StringVarP(&serveLogLevel, "log-level", "l", "", "Override log level (debug, info, warn, error)")
}
