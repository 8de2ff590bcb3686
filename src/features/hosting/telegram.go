package hosting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/contre95/lyr/src/features/config"
	"github.com/contre95/lyr/src/features/lyrics"
	"github.com/contre95/lyr/src/music"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	// ErrTelegramDisabled is returned when the bot is not enabled in configuration.
	ErrTelegramDisabled = errors.New("telegram bot is disabled in configuration")
	// ErrTelegramToken is returned when the bot is enabled without a token.
	ErrTelegramToken = errors.New("telegram bot token is not configured")
)

// TelegramCommandHandler interface that each feature implements
type TelegramCommandHandler interface {
	HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error
	GetCommands() map[string]string // Returns command -> description mapping
}

// TelegramBot handles Telegram bot operations
type TelegramBot struct {
	bot      *tgbotapi.BotAPI
	config   *config.Manager
	handlers map[string]TelegramCommandHandler // command -> handler
}

// NewTelegramBot creates a new Telegram bot instance
func NewTelegramBot(cfg *config.Manager, lyricsService music.LyricsService) (*TelegramBot, error) {
	telegramConfig := cfg.Get().Telegram

	if !telegramConfig.Enabled {
		return nil, ErrTelegramDisabled
	}
	if telegramConfig.Token == "" {
		return nil, ErrTelegramToken
	}

	bot, err := tgbotapi.NewBotAPI(telegramConfig.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	slog.Info("Telegram bot initialized", "username", bot.Self.UserName)

	telegramBot := &TelegramBot{
		bot:      bot,
		config:   cfg,
		handlers: make(map[string]TelegramCommandHandler),
	}
	telegramBot.RegisterHandler(lyrics.NewTelegramHandler(lyricsService))
	telegramBot.RegisterHandler(config.NewTelegramHandler(cfg))

	return telegramBot, nil
}

// RegisterHandler routes every command the handler advertises to it.
func (t *TelegramBot) RegisterHandler(handler TelegramCommandHandler) {
	for command := range handler.GetCommands() {
		t.handlers[command] = handler
		slog.Debug("Registered Telegram command", "command", command)
	}
}

// Run listens for updates until ctx is cancelled.
func (t *TelegramBot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := t.bot.GetUpdatesChan(updateConfig)

	slog.Info("Starting Telegram bot listener")
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message != nil {
				go t.handleMessage(update.Message)
			}
		case <-ctx.Done():
			slog.Info("Stopping Telegram bot listener")
			t.bot.StopReceivingUpdates()
			return nil
		}
	}
}

func (t *TelegramBot) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	allowedUsers := t.config.Get().Telegram.AllowedUsers
	if len(allowedUsers) == 0 {
		slog.Warn("No allowed users configured", "chat_id", chatID)
		t.sendMessage(chatID, "Access denied: no users configured. Please add users to the config.")
		return
	}
	username := displayName(message.From)
	if !isAllowed(allowedUsers, username) {
		slog.Warn("Unauthorized user", "username", username, "chat_id", chatID)
		t.sendMessage(chatID, "Unknown user, please add your user to the config")
		return
	}

	if !message.IsCommand() {
		t.sendMessage(chatID, "Send /help to see available commands")
		return
	}

	command := message.Command()
	args := message.CommandArguments()
	slog.Debug("Processing command", "command", command, "args", args, "chat_id", chatID)

	switch command {
	case "help", "start":
		t.sendMessage(chatID, t.helpText())
		return
	}

	handler, exists := t.handlers[command]
	if !exists {
		t.sendMessage(chatID, "Unknown command. Send /help to see available commands.")
		return
	}
	if err := handler.HandleCommand(t.bot, chatID, command, args); err != nil {
		slog.Error("Failed to handle command", "command", command, "error", err)
		t.sendMessage(chatID, "Failed to process command")
	}
}

func (t *TelegramBot) helpText() string {
	commands := make(map[string]string)
	for _, handler := range t.handlers {
		for command, description := range handler.GetCommands() {
			commands[command] = description
		}
	}
	return formatHelp(commands)
}

func (t *TelegramBot) sendMessage(chatID int64, text string) {
	if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		slog.Error("Failed to send message", "error", err, "chat_id", chatID)
	}
}

// displayName prefers the username, falling back to the full name.
func displayName(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	if user.UserName != "" {
		return user.UserName
	}
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}
	return name
}

func isAllowed(allowedUsers []string, username string) bool {
	if username == "" {
		return false
	}
	return slices.Contains(allowedUsers, strings.TrimPrefix(username, "@"))
}

func formatHelp(commands map[string]string) string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "/%s - %s\n", name, commands[name])
	}
	return b.String()
}
