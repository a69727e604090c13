package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads the configuration from a TOML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	expandEnvVars(&cfg)

	return &cfg, nil
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validate checks the configuration and returns all problems found.
func (c *Config) Validate() []error {
	var errors []error

	if c.ClickUp.APIKey == "" {
		errors = append(errors, fmt.Errorf("clickup.api_key is required"))
	}
	if c.ClickUp.WorkspaceName == "" {
		errors = append(errors, fmt.Errorf("clickup.workspace_name is required"))
	}
	if c.ClickUp.DocumentName == "" {
		errors = append(errors, fmt.Errorf("clickup.document_name is required"))
	}
	if c.ClickUp.YearPage == "" {
		errors = append(errors, fmt.Errorf("clickup.year_page is required"))
	}
	if c.ClickUp.MonthPage == "" {
		errors = append(errors, fmt.Errorf("clickup.month_page is required"))
	}
	if c.ClickUp.TimeoutSeconds < 1 {
		errors = append(errors, fmt.Errorf("clickup.timeout_seconds must be >= 1 (got %d)", c.ClickUp.TimeoutSeconds))
	}

	if c.Telegram.Token == "" {
		errors = append(errors, fmt.Errorf("telegram.token is required"))
	} else if err := validateTelegramToken(c.Telegram.Token); err != nil {
		errors = append(errors, err)
	}
	if c.Telegram.ChatID == 0 {
		errors = append(errors, fmt.Errorf("telegram.chat_id is required"))
	}

	if c.Report.DefaultDate != "" && !dateRe.MatchString(c.Report.DefaultDate) {
		errors = append(errors, fmt.Errorf("report.default_date must be formatted YYYY-MM-DD (got %s)", c.Report.DefaultDate))
	}

	if c.Database.Path == "" {
		errors = append(errors, fmt.Errorf("database.path is required"))
	}

	if c.Logging.Level == "" {
		errors = append(errors, fmt.Errorf("logging.level is required"))
	} else {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[strings.ToLower(c.Logging.Level)] {
			errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
		}
	}

	if c.Logging.Format == "" {
		errors = append(errors, fmt.Errorf("logging.format is required"))
	} else {
		validFormats := map[string]bool{"json": true, "text": true}
		if !validFormats[strings.ToLower(c.Logging.Format)] {
			errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
		}
	}

	if c.Web.Enabled {
		if c.Web.ListenAddr == "" {
			errors = append(errors, fmt.Errorf("web.listen_addr is required when web is enabled"))
		}
		if c.Web.Username == "" {
			errors = append(errors, fmt.Errorf("web.username is required when web is enabled"))
		}
		if c.Web.Password == "" {
			errors = append(errors, fmt.Errorf("web.password is required when web is enabled"))
		}
		if c.Web.SessionSecret == "" {
			errors = append(errors, fmt.Errorf("web.session_secret is required when web is enabled"))
		} else if len(c.Web.SessionSecret) < 16 {
			errors = append(errors, fmt.Errorf("web.session_secret is too short (minimum 16 characters, got %d)", len(c.Web.SessionSecret)))
		}
	}

	return errors
}

func validateTelegramToken(token string) error {
	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return fmt.Errorf("telegram.token has invalid format (expected format: <bot_id>:<token>, got: %s)", maskSecret(token))
	}

	botID := parts[0]
	botToken := parts[1]

	if len(botID) < 3 || len(botID) > 15 {
		return fmt.Errorf("telegram.token has invalid bot ID length (expected 3-15 digits, got %d digits)", len(botID))
	}

	for _, r := range botID {
		if r < '0' || r > '9' {
			return fmt.Errorf("telegram.token has invalid bot ID (expected digits only, got: %s)", botID)
		}
	}

	if len(botToken) < 10 || len(botToken) > 50 {
		return fmt.Errorf("telegram.token has invalid token length (expected 10-50 characters, got %d)", len(botToken))
	}

	return nil
}

// applyDefaults fills in defaults for fields left unset.
func applyDefaults(c *Config) {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}

	if c.Database.Path == "" {
		c.Database.Path = "reportbot.db"
	}

	if c.ClickUp.V2BaseURL == "" {
		c.ClickUp.V2BaseURL = "https://api.clickup.com/api/v2"
	}
	if c.ClickUp.V3BaseURL == "" {
		c.ClickUp.V3BaseURL = "https://api.clickup.com/api/v3"
	}
	if c.ClickUp.WorkspaceName == "" {
		c.ClickUp.WorkspaceName = "Tiga Tekno"
	}
	if c.ClickUp.DocumentName == "" {
		c.ClickUp.DocumentName = "DAILY REPORT"
	}
	if c.ClickUp.YearPage == "" {
		c.ClickUp.YearPage = "2026"
	}
	if c.ClickUp.MonthPage == "" {
		c.ClickUp.MonthPage = "Februari"
	}
	if c.ClickUp.TimeoutSeconds == 0 {
		c.ClickUp.TimeoutSeconds = 30
	}

	if c.Telegram.SendTimeoutSeconds == 0 {
		c.Telegram.SendTimeoutSeconds = 30
	}

	if c.Report.DefaultDate == "" {
		c.Report.DefaultDate = "2026-02-06"
	}

	if c.Web.ListenAddr == "" {
		c.Web.ListenAddr = ":8080"
	}
}

// expandEnvVars expands ${VAR} and ${VAR:default} references in secret-bearing
// and path fields.
func expandEnvVars(c *Config) {
	c.ClickUp.APIKey = expandEnv(c.ClickUp.APIKey)
	c.Telegram.Token = expandEnv(c.Telegram.Token)
	c.Web.Password = expandEnv(c.Web.Password)
	c.Web.SessionSecret = expandEnv(c.Web.SessionSecret)
	c.Database.Path = expandHome(expandEnv(c.Database.Path))
}

// expandEnv expands an environment variable reference of the form
// ${VAR} or ${VAR:default}.
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	if parts := strings.SplitN(content, ":", 2); len(parts) == 2 {
		key := parts[0]
		defaultVal := parts[1]
		if val := os.Getenv(key); val != "" {
			return val
		}
		return defaultVal
	}

	return os.Getenv(content)
}

// expandHome expands a leading ~ in a path.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
