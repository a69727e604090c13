// Package config provides configuration loading and validation for reportbot.
// It supports TOML configuration files with environment variable expansion,
// default values, and comprehensive validation.
//
// Configuration structure:
//   - [logging]: Logging level, format, and output
//   - [database]: SQLite database path for schedule storage
//   - [clickup]: ClickUp API credentials and document addressing
//   - [telegram]: Telegram bot token and target chat
//   - [report]: Report defaults (date fallback for manual runs)
//   - [schedule]: Due-check runner settings
//   - [web]: Operator UI listen address and credentials
//
// Environment variables:
// Values can be referenced using ${VAR} or ${VAR:default} syntax.
// For example: api_key = "${CLICKUP_API_KEY}"
package config

// Config represents the main application configuration.
type Config struct {
	Logging  LoggingConfig  `toml:"logging"`
	Database DatabaseConfig `toml:"database"`
	ClickUp  ClickUpConfig  `toml:"clickup"`
	Telegram TelegramConfig `toml:"telegram"`
	Report   ReportConfig   `toml:"report"`
	Schedule ScheduleConfig `toml:"schedule"`
	Web      WebConfig      `toml:"web"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// DatabaseConfig controls the schedule store.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ClickUpConfig controls the ClickUp document client.
//
// YearPage and MonthPage are exact page names, not derived from the report
// date. That mirrors the document layout this tool was built against.
// TODO: derive year/month page names from the target date once the document
// owners confirm the naming convention holds for other months.
type ClickUpConfig struct {
	APIKey         string `toml:"api_key"`
	V2BaseURL      string `toml:"v2_base_url"`
	V3BaseURL      string `toml:"v3_base_url"`
	WorkspaceName  string `toml:"workspace_name"`
	DocumentName   string `toml:"document_name"`
	YearPage       string `toml:"year_page"`
	MonthPage      string `toml:"month_page"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// TelegramConfig controls the Telegram sender.
type TelegramConfig struct {
	Token              string `toml:"token"`
	ChatID             int64  `toml:"chat_id"`
	SendTimeoutSeconds int    `toml:"send_timeout_seconds"`
}

// ReportConfig controls report generation defaults.
type ReportConfig struct {
	// DefaultDate is used by manual runs when no date is supplied (YYYY-MM-DD).
	DefaultDate string `toml:"default_date"`
}

// ScheduleConfig controls the due-check runner.
type ScheduleConfig struct {
	Enabled bool `toml:"enabled"`
}

// WebConfig controls the operator web UI.
type WebConfig struct {
	Enabled       bool   `toml:"enabled"`
	ListenAddr    string `toml:"listen_addr"`
	Username      string `toml:"username"`
	Password      string `toml:"password"`
	SessionSecret string `toml:"session_secret"`
	EnableMetrics bool   `toml:"enable_metrics"`
}
