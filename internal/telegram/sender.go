// Package telegram delivers rendered report messages to a Telegram chat
// using the Telego library.
package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"

	"github.com/aatumaykin/reportbot/internal/config"
	"github.com/aatumaykin/reportbot/internal/logger"
)

// botAPI is the slice of the Telego bot the sender uses. Tests substitute
// a mock.
type botAPI interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// Sender sends messages to a fixed chat.
type Sender struct {
	bot     botAPI
	chatID  int64
	timeout time.Duration
	logger  *logger.Logger
}

// New creates a Sender backed by a real Telego bot.
func New(cfg config.TelegramConfig, log *logger.Logger) (*Sender, error) {
	bot, err := telego.NewBot(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}

	return newSender(bot, cfg, log), nil
}

func newSender(bot botAPI, cfg config.TelegramConfig, log *logger.Logger) *Sender {
	timeout := time.Duration(cfg.SendTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Sender{
		bot:     bot,
		chatID:  cfg.ChatID,
		timeout: timeout,
		logger:  log,
	}
}

// SendMessage sends text to the configured chat with the given parse mode
// ("HTML" or "MarkdownV2"). An empty parse mode sends plain text.
func (s *Sender) SendMessage(ctx context.Context, text, parseMode string) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: s.chatID},
		Text:      text,
		ParseMode: parseMode,
	}

	if _, err := s.bot.SendMessage(sendCtx, params); err != nil {
		s.logger.Error("telegram send failed", err,
			logger.Field{Key: "chat_id", Value: s.chatID})
		return fmt.Errorf("telegram send: %w", err)
	}

	s.logger.Debug("telegram message sent",
		logger.Field{Key: "chat_id", Value: s.chatID},
		logger.Field{Key: "length", Value: len(text)})

	return nil
}
