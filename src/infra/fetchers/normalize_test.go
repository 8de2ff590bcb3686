package fetchers

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"numeric references", "&#65;&#x42;", "AB"},
		{"upper-case hex marker", "&#X43;", "C"},
		{"named entity consumed once", "&amp;amp;", "&amp;"},
		{"line breaks", "line one<br>line two<br/>line three<BR />four", "line one\nline two\nline three\nfour"},
		{"paragraphs with attributes", `<p class="verse">first</p><p>second</p>`, "first\n\nsecond\n"},
		{"leading whitespace trimmed", "  \n<br>hello<br>", "hello\n"},
		{"other markup stripped", `<i>it&apos;s</i> <a href="/x">&lt;3</a>`, "it's <3"},
		{"tags that only start with p are not separators", "<param>x<pre>y</pre>", "xy"},
		{"escaped tags survive stripping", "&lt;br&gt;", "<br>"},
		{"decoded references are stripped as markup", "&#60;b&#62;bold", "bold"},
		{"currency and dashes", "&cent;&pound;&yen;&euro; &copy;&reg; &ndash;&mdash;&nbsp;&quot;", "¢£¥€ ©® –— \""},
		{"six digit references are left alone", "&#123456;", "&#123456;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_PlainTextWithSeparators(t *testing.T) {
	raw := "\n first verse<br>second verse<p>third</p>"
	want := "first verse\nsecond verse\nthird\n"
	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalize_MalformedReference(t *testing.T) {
	for _, raw := range []string{"ok &#xD800; bad", "&#57343;", "&#xDFFF;"} {
		_, err := Normalize(raw)
		if !errors.Is(err, ErrMalformedReference) {
			t.Errorf("Normalize(%q) error = %v, want ErrMalformedReference", raw, err)
		}
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := "a<br>&#x263A;&amp;<span>b</span>"
	first, err := Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := Normalize(raw)
	if first != second {
		t.Errorf("expected identical output, got %q and %q", first, second)
	}
	if first != "a\n☺&b" {
		t.Errorf("unexpected output %q", first)
	}
}

func TestNormalize_NonNumericReferencesLeftAlone(t *testing.T) {
	tests := map[string]string{
		"a &#nbsp; b":  "a &#nbsp; b",
		"&#xZZ; &#65;": "&#xZZ; A",
		"&#12ab;":      "&#12ab;",
		"&#123456;":    "&#123456;",
	}
	for raw, want := range tests {
		got, err := Normalize(raw)
		if err != nil {
			t.Errorf("Normalize(%q) unexpected error: %v", raw, err)
			continue
		}
		if got != want {
			t.Errorf("Normalize(%q) = %q, want %q", raw, got, want)
		}
	}
}
