package lyrics

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/contre95/lyr/src/music"
	"github.com/gofiber/fiber/v2"
)

// Handler handles lyrics requests
type Handler struct {
	service music.LyricsService
}

// NewHandler creates a new lyrics handler
func NewHandler(service music.LyricsService) *Handler {
	return &Handler{service: service}
}

// GetLyrics returns plain lyrics text for the title and artist query parameters.
// The source that answered is reported in the X-Lyrics-Source header.
func (h *Handler) GetLyrics(c *fiber.Ctx) error {
	title := strings.TrimSpace(c.Query("title"))
	artist := strings.TrimSpace(c.Query("artist"))
	if title == "" || artist == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Title and artist are required")
	}

	lyrics, source, err := h.service.Lookup(c.Context(), title, artist)
	if err != nil {
		if errors.Is(err, ErrNoLyrics) {
			return c.Status(fiber.StatusNotFound).SendString("No lyrics found")
		}
		slog.Error("Failed to look up lyrics", "error", err, "title", title, "artist", artist)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to look up lyrics")
	}

	c.Set("X-Lyrics-Source", source)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(lyrics)
}

// GetSources returns the configured lyrics sources in lookup order.
func (h *Handler) GetSources(c *fiber.Ctx) error {
	return c.JSON(h.service.GetLyricsProvidersInfo())
}
