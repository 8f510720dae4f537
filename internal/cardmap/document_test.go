package cardmap

import (
	"strings"
	"testing"
)

const sampleDocument = `# Exhibition kiosk configuration.
# Lines outside the block are operator notes.

SERVER_NOTE = "do not touch"

CARD_ASSETS = {
    "3800132D9B9D": "demo_video.mp4",
    "38001370E9B2": ["tour.mp4", "map.jpg"],
}

# trailing notes survive edits too
`

func TestParseAcceptsStringAndListValues(t *testing.T) {
	mapping := Parse(sampleDocument)

	if got := mapping.Get("3800132D9B9D"); len(got) != 1 || got[0] != "demo_video.mp4" {
		t.Errorf("string value parsed as %v", got)
	}
	if got := mapping.Get("38001370E9B2"); len(got) != 2 || got[0] != "tour.mp4" || got[1] != "map.jpg" {
		t.Errorf("list value parsed as %v", got)
	}
	if cards := mapping.Cards(); len(cards) != 2 || cards[0] != "3800132D9B9D" {
		t.Errorf("card order = %v", cards)
	}
}

func TestParseSkipsMalformedEntries(t *testing.T) {
	doc := `CARD_ASSETS = {
    "good": "a.mp4",
    this line is nonsense,
    "novalue":
    "also-good": ["b.jpg"],
}
`
	mapping := Parse(doc)
	if mapping.Len() != 2 {
		t.Fatalf("parsed %d cards, want 2 (malformed lines skipped)", mapping.Len())
	}
	if !mapping.Has("good") || !mapping.Has("also-good") {
		t.Errorf("expected good and also-good, got %v", mapping.Cards())
	}
}

func TestParseAcceptsSingleQuotes(t *testing.T) {
	doc := "CARD_ASSETS = {\n    'card': 'clip.mov',\n}\n"
	mapping := Parse(doc)
	if got := mapping.Get("card"); len(got) != 1 || got[0] != "clip.mov" {
		t.Errorf("single-quoted entry parsed as %v", got)
	}
}

func TestRenderPreservesUnrelatedLines(t *testing.T) {
	mapping := Parse(sampleDocument)
	mapping.Upsert("NEWCARD", "new.mp4")

	rendered := Render(mapping, sampleDocument)

	for _, line := range []string{
		"# Exhibition kiosk configuration.",
		`SERVER_NOTE = "do not touch"`,
		"# trailing notes survive edits too",
	} {
		if !strings.Contains(rendered, line+"\n") {
			t.Errorf("rendered document lost line %q", line)
		}
	}
	if !strings.Contains(rendered, `"NEWCARD": "new.mp4",`) {
		t.Errorf("rendered document missing new entry:\n%s", rendered)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	mapping := Parse(sampleDocument)
	rendered := Render(mapping, sampleDocument)
	reparsed := Parse(rendered)

	if reparsed.Len() != mapping.Len() {
		t.Fatalf("round trip changed card count: %d -> %d", mapping.Len(), reparsed.Len())
	}
	for _, card := range mapping.Cards() {
		want := mapping.Get(card)
		got := reparsed.Get(card)
		if len(want) != len(got) {
			t.Errorf("card %s asset count changed: %v -> %v", card, want, got)
			continue
		}
		for i := range want {
			if want[i] != got[i] {
				t.Errorf("card %s asset %d changed: %s -> %s", card, i, want[i], got[i])
			}
		}
	}

	// Rendering an unchanged mapping again must be stable.
	if again := Render(reparsed, rendered); again != rendered {
		t.Error("second render of unchanged mapping differs from first")
	}
}

func TestRenderDropsEmptiedCards(t *testing.T) {
	mapping := Parse(sampleDocument)
	if !mapping.RemoveAt("3800132D9B9D", 0) {
		t.Fatal("remove failed")
	}
	rendered := Render(mapping, sampleDocument)
	if strings.Contains(rendered, "3800132D9B9D") {
		t.Errorf("emptied card still present:\n%s", rendered)
	}
}

func TestRenderAppendsBlockWhenAbsent(t *testing.T) {
	original := "# notes only, no block yet\n"
	mapping := NewMapping()
	mapping.Upsert("abc", "x.mp4")

	rendered := Render(mapping, original)
	if !strings.HasPrefix(rendered, original) {
		t.Errorf("original text not preserved:\n%s", rendered)
	}
	if !strings.Contains(rendered, "CARD_ASSETS = {") {
		t.Errorf("block not appended:\n%s", rendered)
	}
	if got := Parse(rendered).Get("abc"); len(got) != 1 || got[0] != "x.mp4" {
		t.Errorf("appended block parsed as %v", got)
	}
}
