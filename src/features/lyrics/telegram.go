package lyrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/contre95/lyr/src/music"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramMessageLimit is the maximum length of a single Telegram text message.
const telegramMessageLimit = 4096

const lookupTimeout = 30 * time.Second

// TelegramHandler handles Telegram commands for the lyrics feature
type TelegramHandler struct {
	service music.LyricsService
}

// NewTelegramHandler creates a new Telegram handler for the lyrics feature
func NewTelegramHandler(service music.LyricsService) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes lyrics-related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	reply, err := h.reply(ctx, command, args)
	if err != nil {
		return err
	}
	for _, chunk := range splitMessage(reply, telegramMessageLimit) {
		if _, err := bot.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			return err
		}
	}
	return nil
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"lyrics":  "Find lyrics: /lyrics artist - title",
		"sources": "List the configured lyrics sources",
	}
}

func (h *TelegramHandler) reply(ctx context.Context, command, args string) (string, error) {
	switch command {
	case "lyrics":
		artist, title, ok := parseQuery(args)
		if !ok {
			return "Usage: /lyrics artist - title", nil
		}
		lyrics, source, err := h.service.Lookup(ctx, title, artist)
		if errors.Is(err, ErrNoLyrics) {
			return fmt.Sprintf("No lyrics found for %s - %s", artist, title), nil
		}
		if err != nil {
			slog.Error("Telegram lyrics lookup failed", "error", err, "artist", artist, "title", title)
			return "Failed to look up lyrics, try again later", nil
		}
		return fmt.Sprintf("%s - %s (%s)\n\n%s", artist, title, source, lyrics), nil
	case "sources":
		infos := h.service.GetLyricsProvidersInfo()
		if len(infos) == 0 {
			return "No lyrics sources configured", nil
		}
		var b strings.Builder
		b.WriteString("Lyrics sources, in lookup order:\n")
		for i, info := range infos {
			fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, info.DisplayName, info.Name)
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("unknown lyrics command: %s", command)
	}
}

// parseQuery splits "artist - title" on the first " - ".
func parseQuery(args string) (artist, title string, ok bool) {
	artist, title, found := strings.Cut(args, " - ")
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)
	if !found || artist == "" || title == "" {
		return "", "", false
	}
	return artist, title, true
}

// splitMessage breaks text into chunks of at most limit bytes, preferring line boundaries.
func splitMessage(text string, limit int) []string {
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
			for cut > 0 && !isRuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
