package cardmap_test

import (
	"path/filepath"
	"strings"
	"testing"

	"kiosk/internal/cardmap"
	"kiosk/internal/testsupport"
)

func openStore(t *testing.T) *cardmap.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.conf")
	store, err := cardmap.OpenStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func TestOpenStoreCreatesDefaultDocument(t *testing.T) {
	store := openStore(t)

	if store.Mapping().Len() != 0 {
		t.Error("fresh store should have no mapped cards")
	}
	text := testsupport.ReadFile(t, store.Path())
	if !strings.Contains(text, "CARD_ASSETS = {") {
		t.Errorf("default document missing block:\n%s", text)
	}
}

func TestMapCardPersists(t *testing.T) {
	store := openStore(t)

	if err := store.MapCard("card-1", "video.mp4"); err != nil {
		t.Fatalf("map card: %v", err)
	}
	if err := store.MapCard("card-1", "extra.jpg"); err != nil {
		t.Fatalf("map second asset: %v", err)
	}
	// Duplicate append is a no-op.
	if err := store.MapCard("card-1", "video.mp4"); err != nil {
		t.Fatalf("repeat map: %v", err)
	}

	reopened, err := cardmap.OpenStore(store.Path())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.Assets("card-1")
	if len(got) != 2 || got[0] != "video.mp4" || got[1] != "extra.jpg" {
		t.Errorf("persisted assets = %v", got)
	}
}

func TestUnmapAssetDropsEmptiedCard(t *testing.T) {
	store := openStore(t)
	if err := store.MapCard("card-1", "only.mp4"); err != nil {
		t.Fatalf("map card: %v", err)
	}

	if err := store.UnmapAsset("card-1", 0); err != nil {
		t.Fatalf("unmap: %v", err)
	}
	if store.Has("card-1") {
		t.Error("card should be gone after last asset removed")
	}
	if err := store.UnmapAsset("card-1", 0); err == nil {
		t.Error("unmap of missing card should fail")
	}
}

func TestWriteTextRequiresBlock(t *testing.T) {
	store := openStore(t)

	if err := store.WriteText("just some notes\n"); err == nil {
		t.Error("document without block should be rejected")
	}

	// A comment mentioning the block name is not a block; the existing
	// mapping must survive the rejected write.
	if err := store.MapCard("card-a", "a.mp4"); err != nil {
		t.Fatalf("map card: %v", err)
	}
	if err := store.WriteText("# notes about CARD_ASSETS go here\n"); err == nil {
		t.Error("comment-only document should be rejected")
	}
	if !store.Has("card-a") {
		t.Error("rejected write must not touch the mapping")
	}

	doc := "# operator notes\nCARD_ASSETS = {\n    \"c\": \"a.mp4\",\n}\n"
	if err := store.WriteText(doc); err != nil {
		t.Fatalf("write text: %v", err)
	}
	if store.Text() != doc {
		t.Error("text not stored verbatim")
	}
	if got := store.Assets("c"); len(got) != 1 || got[0] != "a.mp4" {
		t.Errorf("assets after write = %v", got)
	}
}

func TestSequentialEditsKeepBothCards(t *testing.T) {
	store := openStore(t)

	if err := store.MapCard("card-a", "a.mp4"); err != nil {
		t.Fatalf("map a: %v", err)
	}
	if err := store.MapCard("card-b", "b.mp4"); err != nil {
		t.Fatalf("map b: %v", err)
	}

	mapping := store.Mapping()
	if !mapping.Has("card-a") || !mapping.Has("card-b") {
		t.Errorf("expected both edits to survive, have %v", mapping.Cards())
	}
}
