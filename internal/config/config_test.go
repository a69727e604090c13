package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validConfig = `
[logging]
level = "info"
format = "json"
output = "stdout"

[database]
path = "test.db"

[clickup]
api_key = "pk_test_1234567890"
workspace_name = "Tiga Tekno"
document_name = "DAILY REPORT"
year_page = "2026"
month_page = "Februari"

[telegram]
token = "123456:ABCDEFGHIJKLMNOP"
chat_id = -100123456

[report]
default_date = "2026-02-06"

[schedule]
enabled = true

[web]
enabled = true
listen_addr = ":8080"
username = "admin"
password = "hunter2hunter2"
session_secret = "0123456789abcdef0123"
`

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pk_test_1234567890", cfg.ClickUp.APIKey)
	assert.Equal(t, "Tiga Tekno", cfg.ClickUp.WorkspaceName)
	assert.Equal(t, int64(-100123456), cfg.Telegram.ChatID)
	assert.Equal(t, "2026-02-06", cfg.Report.DefaultDate)
	assert.True(t, cfg.Schedule.Enabled)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[clickup]
api_key = "pk_test_1234567890"

[telegram]
token = "123456:ABCDEFGHIJKLMNOP"
chat_id = 42
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "https://api.clickup.com/api/v2", cfg.ClickUp.V2BaseURL)
	assert.Equal(t, "https://api.clickup.com/api/v3", cfg.ClickUp.V3BaseURL)
	assert.Equal(t, "Tiga Tekno", cfg.ClickUp.WorkspaceName)
	assert.Equal(t, "DAILY REPORT", cfg.ClickUp.DocumentName)
	assert.Equal(t, "2026", cfg.ClickUp.YearPage)
	assert.Equal(t, "Februari", cfg.ClickUp.MonthPage)
	assert.Equal(t, 30, cfg.ClickUp.TimeoutSeconds)
	assert.Equal(t, 30, cfg.Telegram.SendTimeoutSeconds)
	assert.Equal(t, "2026-02-06", cfg.Report.DefaultDate)
	assert.Equal(t, "reportbot.db", cfg.Database.Path)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_CLICKUP_KEY", "pk_from_env_12345")

	path := writeConfig(t, `
[clickup]
api_key = "${TEST_CLICKUP_KEY}"

[telegram]
token = "${TEST_MISSING_TOKEN:123456:fallbacktoken}"
chat_id = 42
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pk_from_env_12345", cfg.ClickUp.APIKey)
	assert.Equal(t, "123456:fallbacktoken", cfg.Telegram.Token)
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	errs := cfg.Validate()
	require.NotEmpty(t, errs)

	var messages []string
	for _, e := range errs {
		messages = append(messages, e.Error())
	}
	assert.Contains(t, messages, "clickup.api_key is required")
	assert.Contains(t, messages, "telegram.token is required")
}

func TestValidate_BadTelegramToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"no colon", "notavalidtoken"},
		{"non-numeric bot id", "abc123:validtokenpart"},
		{"short bot id", "12:validtokenpart"},
		{"short token part", "123456:short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTelegramToken(tt.token)
			require.Error(t, err)
		})
	}
}

func TestValidate_BadDefaultDate(t *testing.T) {
	path := writeConfig(t, `
[clickup]
api_key = "pk_test_1234567890"

[telegram]
token = "123456:ABCDEFGHIJKLMNOP"
chat_id = 42

[report]
default_date = "06-02-2026"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "report.default_date")
}

func TestValidate_WebRequiresCredentials(t *testing.T) {
	path := writeConfig(t, `
[clickup]
api_key = "pk_test_1234567890"

[telegram]
token = "123456:ABCDEFGHIJKLMNOP"
chat_id = 42

[web]
enabled = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	errs := cfg.Validate()
	var messages []string
	for _, e := range errs {
		messages = append(messages, e.Error())
	}
	assert.Contains(t, messages, "web.username is required when web is enabled")
	assert.Contains(t, messages, "web.password is required when web is enabled")
	assert.Contains(t, messages, "web.session_secret is required when web is enabled")
}

func TestMaskTelegramToken(t *testing.T) {
	masked := MaskTelegramToken("123456:ABCDEFGHIJKLMNOP")
	assert.Equal(t, "123456:ABCD********MNOP", masked)
	assert.Equal(t, "***", MaskTelegramToken("short"))
	assert.Equal(t, "", MaskTelegramToken(""))
}

func TestLoadEnvOptional(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nFOO_REPORTBOT=bar\n\nBADLINE\n"), 0644))

	require.NoError(t, LoadEnvOptional(path))
	assert.Equal(t, "bar", os.Getenv("FOO_REPORTBOT"))
	t.Cleanup(func() { os.Unsetenv("FOO_REPORTBOT") })

	require.NoError(t, LoadEnvOptional(filepath.Join(dir, "missing.env")))
}
