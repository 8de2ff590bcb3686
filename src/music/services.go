package music

import (
	"context"

	"github.com/google/uuid"
)

// LyricsSearchParams contains parameters for searching lyrics
type LyricsSearchParams struct {
	Title  string
	Artist string
}

// LyricsProviderInfo contains information about a lyrics provider for the API
type LyricsProviderInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	URLTemplate string `json:"urlTemplate"`
	Enabled     bool   `json:"enabled"`
}

// LyricsService defines the interface for lyrics operations used by the front-ends
type LyricsService interface {
	Lookup(ctx context.Context, title, artist string) (string, string, error)
	EmbedFile(ctx context.Context, path string) error
	GetLyricsProvidersInfo() []LyricsProviderInfo
}

// GenerateID creates a new UUID string
func GenerateID() string {
	return uuid.New().String()
}
