package config

import (
	"strings"
)

// maskSecret masks a secret, keeping only the first and last 4 characters.
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}

	if len(secret) < 8 {
		return "***"
	}

	prefix := secret[:4]
	suffix := secret[len(secret)-4:]
	masked := strings.Repeat("*", len(secret)-8)

	return prefix + masked + suffix
}

// MaskTelegramToken masks a Telegram token for display in errors and logs.
// The bot ID part stays visible for diagnostics.
func MaskTelegramToken(token string) string {
	if token == "" {
		return ""
	}

	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return maskSecret(token)
	}

	return parts[0] + ":" + maskSecret(parts[1])
}

// MaskAPIKey masks an API key for display in errors and logs.
func MaskAPIKey(apiKey string) string {
	return maskSecret(apiKey)
}
