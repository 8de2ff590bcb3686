package fetchers

import (
	"errors"
	"regexp"
	"slices"
	"testing"
)

func TestDefaultSources(t *testing.T) {
	want := []string{"azlyrics", "genius", "jahlyrics", "musixmatch"}
	registry := NewRegistryMust(DefaultSources()...)
	if got := registry.IDs(); !slices.Equal(got, want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	musixmatch, _ := registry.Get("musixmatch")
	if musixmatch.PostProcess || musixmatch.Apostrophe != ApostropheReplaceWithSeparator {
		t.Errorf("unexpected musixmatch descriptor: %+v", musixmatch)
	}
	azlyrics, _ := registry.Get("azlyrics")
	if azlyrics.WordSeparator != "" || !azlyrics.PostProcess {
		t.Errorf("unexpected azlyrics descriptor: %+v", azlyrics)
	}
}

func TestDefaultSources_ReturnsCopy(t *testing.T) {
	sources := DefaultSources()
	sources[0].URLTemplate = "changed"
	if DefaultSources()[0].URLTemplate == "changed" {
		t.Error("expected DefaultSources to return an independent copy")
	}
}

func TestSourcePatternsAreNonGreedy(t *testing.T) {
	registry := NewRegistryMust(DefaultSources()...)
	genius, _ := registry.Get("genius")
	got := Extract(genius.Pattern, `<div class="lyrics">a</div><div>b</div>`)
	if got != "a" {
		t.Errorf("expected capture to stop at the nearest closing tag, got %q", got)
	}
}

func TestNewRegistry_Rejects(t *testing.T) {
	pattern := regexp.MustCompile(`(.*)`)
	if _, err := NewRegistry(Source{ID: "a", Pattern: pattern}, Source{ID: "a", Pattern: pattern}); err == nil {
		t.Error("expected duplicate identifiers to be rejected")
	}
	if _, err := NewRegistry(Source{ID: "", Pattern: pattern}); err == nil {
		t.Error("expected empty identifier to be rejected")
	}
	if _, err := NewRegistry(Source{ID: "a"}); err == nil {
		t.Error("expected missing pattern to be rejected")
	}
}

func TestRegistryGet_Unknown(t *testing.T) {
	_, err := NewRegistryMust(DefaultSources()...).Get("nope")
	if !errors.Is(err, ErrUnknownSource) {
		t.Errorf("expected ErrUnknownSource, got %v", err)
	}
}
