package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reportbot",
	Short: "Reportbot - ClickUp daily report delivery for Telegram",
	Long: `Reportbot extracts daily reports from a ClickUp document, groups the
entries by category and delivers them to a Telegram chat, either on a
schedule or on demand.`,
	Version: Version,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sendCmd)
}
