package tag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

// ErrUnsupportedFormat is returned for audio files the writer cannot tag.
var ErrUnsupportedFormat = errors.New("unsupported format")

const (
	usltFrameName  = "Unsynchronised lyrics/text transcription"
	vorbisLyricsID = "LYRICS"
)

// TagWriter embeds lyrics into MP3 (ID3v2 USLT) and FLAC (Vorbis comment) files.
// Every other tag already present in the file is preserved.
type TagWriter struct {
	language string
}

// NewTagWriter creates a new TagWriter.
func NewTagWriter() *TagWriter {
	return &TagWriter{language: "eng"}
}

// WriteLyrics replaces the lyrics stored in the file at filePath.
func (t *TagWriter) WriteLyrics(ctx context.Context, filePath string, lyrics string) error {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".mp3":
		return t.writeMP3(filePath, lyrics)
	case ".flac":
		return t.writeFLAC(filePath, lyrics)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// writeMP3 handles MP3 tagging using id3v2.
func (t *TagWriter) writeMP3(filePath string, lyrics string) error {
	tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open MP3 file for tagging: %w", err)
	}
	defer tag.Close()

	tag.DeleteFrames(tag.CommonID(usltFrameName))
	tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
		Encoding:          id3v2.EncodingUTF8,
		Language:          t.language,
		ContentDescriptor: "",
		Lyrics:            lyrics,
	})

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save MP3 tags: %w", err)
	}

	slog.Info("Embedded lyrics in MP3 file", "filePath", filePath, "lyricsLength", len(lyrics))
	return nil
}

// writeFLAC handles FLAC tagging using Vorbis comments.
func (t *TagWriter) writeFLAC(filePath string, lyrics string) error {
	f, err := goflac.ParseFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	var vorbisComment *flacvorbis.MetaDataBlockVorbisComment
	commentIndex := -1

	for idx, meta := range f.Meta {
		if meta.Type == goflac.VorbisComment {
			vorbisComment, err = flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				return fmt.Errorf("failed to parse Vorbis comment: %w", err)
			}
			commentIndex = idx
			break
		}
	}

	if vorbisComment == nil {
		vorbisComment = flacvorbis.New()
	}

	vorbisComment.Comments = withoutField(vorbisComment.Comments, vorbisLyricsID)
	if err := vorbisComment.Add(vorbisLyricsID, lyrics); err != nil {
		return fmt.Errorf("failed to add lyrics comment: %w", err)
	}

	commentMeta := vorbisComment.Marshal()
	if commentIndex >= 0 {
		f.Meta[commentIndex] = &commentMeta
	} else {
		f.Meta = append(f.Meta, &commentMeta)
	}

	if err := f.Save(filePath); err != nil {
		return fmt.Errorf("failed to save FLAC file: %w", err)
	}

	slog.Info("Embedded lyrics in FLAC file", "filePath", filePath, "lyricsLength", len(lyrics))
	return nil
}

// withoutField drops every "NAME=value" comment whose name matches field, ignoring case.
func withoutField(comments []string, field string) []string {
	kept := comments[:0]
	for _, comment := range comments {
		name, _, _ := strings.Cut(comment, "=")
		if !strings.EqualFold(name, field) {
			kept = append(kept, comment)
		}
	}
	return kept
}
