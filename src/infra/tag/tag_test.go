package tag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

// fakeAudio stands in for MPEG frames; the tag libraries never decode audio.
// It must be longer than an ID3v2 header for id3v2.Open to parse an untagged file.
var fakeAudio = append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 124)...)

func newMP3(t *testing.T, title, artist string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, fakeAudio, 0644); err != nil {
		t.Fatal(err)
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	tag.SetTitle(title)
	tag.SetArtist(artist)
	if err := tag.Save(); err != nil {
		t.Fatal(err)
	}
	tag.Close()
	return path
}

func newFLAC(t *testing.T, comments ...[2]string) string {
	t.Helper()
	vorbis := flacvorbis.New()
	for _, c := range comments {
		if err := vorbis.Add(c[0], c[1]); err != nil {
			t.Fatal(err)
		}
	}
	commentBlock := vorbis.Marshal()
	f := &goflac.File{
		Meta: []*goflac.MetaDataBlock{
			{Type: goflac.StreamInfo, Data: make([]byte, 34)},
			&commentBlock,
		},
		Frames: fakeAudio,
	}
	path := filepath.Join(t.TempDir(), "song.flac")
	if err := os.WriteFile(path, f.Marshal(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func usltFrames(t *testing.T, path string) []id3v2.UnsynchronisedLyricsFrame {
	t.Helper()
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()
	var frames []id3v2.UnsynchronisedLyricsFrame
	for _, f := range tag.GetFrames(tag.CommonID(usltFrameName)) {
		if uslf, ok := f.(id3v2.UnsynchronisedLyricsFrame); ok {
			frames = append(frames, uslf)
		}
	}
	return frames
}

func TestReadFileTags_MP3(t *testing.T) {
	path := newMP3(t, "Bohemian Rhapsody", "Queen")

	track, err := NewTagReader().ReadFileTags(context.Background(), path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if track.Title != "Bohemian Rhapsody" || track.Artist != "Queen" {
		t.Errorf("unexpected tags: %+v", track)
	}
	if track.Format != "mp3" {
		t.Errorf("expected mp3 format, got %s", track.Format)
	}
}

func TestReadFileTags_MissingFile(t *testing.T) {
	_, err := NewTagReader().ReadFileTags(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestWriteLyrics_MP3ReplacesExistingLyrics(t *testing.T) {
	path := newMP3(t, "Song", "Artist")
	writer := NewTagWriter()

	if err := writer.WriteLyrics(context.Background(), path, "old words\n"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := writer.WriteLyrics(context.Background(), path, "new words\n"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	frames := usltFrames(t, path)
	if len(frames) != 1 {
		t.Fatalf("expected exactly one lyrics frame, got %d", len(frames))
	}
	if frames[0].Lyrics != "new words\n" {
		t.Errorf("unexpected lyrics %q", frames[0].Lyrics)
	}

	track, err := NewTagReader().ReadFileTags(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if track.Title != "Song" || track.Artist != "Artist" {
		t.Errorf("expected existing tags to be preserved, got %+v", track)
	}
}

func TestWriteLyrics_FLAC(t *testing.T) {
	path := newFLAC(t, [2]string{"TITLE", "One Love"}, [2]string{"ARTIST", "Bob Marley"}, [2]string{"lyrics", "stale"})

	if err := NewTagWriter().WriteLyrics(context.Background(), path, "One love\nOne heart\n"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	f, err := goflac.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var comment *flacvorbis.MetaDataBlockVorbisComment
	for _, meta := range f.Meta {
		if meta.Type == goflac.VorbisComment {
			comment, err = flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				t.Fatal(err)
			}
		}
	}
	if comment == nil {
		t.Fatal("expected a vorbis comment block")
	}
	lyrics, _ := comment.Get(vorbisLyricsID)
	if len(lyrics) != 1 || lyrics[0] != "One love\nOne heart\n" {
		t.Errorf("unexpected lyrics comments %q", lyrics)
	}
	titles, _ := comment.Get(flacvorbis.FIELD_TITLE)
	if len(titles) != 1 || titles[0] != "One Love" {
		t.Errorf("expected title to be preserved, got %q", titles)
	}
}

func TestWriteLyrics_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.ogg")
	os.WriteFile(path, fakeAudio, 0644)

	err := NewTagWriter().WriteLyrics(context.Background(), path, "words")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestWithoutField(t *testing.T) {
	got := withoutField([]string{"TITLE=a", "Lyrics=b", "LYRICS=c", "LYRICIST=d"}, "LYRICS")
	if len(got) != 2 || got[0] != "TITLE=a" || got[1] != "LYRICIST=d" {
		t.Errorf("unexpected comments %v", got)
	}
}
