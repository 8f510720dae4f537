package coordinator

import (
	"context"
	"strings"
	"testing"
	"time"

	"kiosk/internal/assets"
	"kiosk/internal/cardmap"
	"kiosk/internal/config"
	"kiosk/internal/testsupport"
)

type fixture struct {
	coord *Coordinator
	cfg   *config.Config
	clock *fakeClock
	lib   *assets.Library
	maps  *cardmap.Store
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)

	mappingStore, err := cardmap.OpenStore(cfg.Kiosk.MappingFile)
	if err != nil {
		t.Fatalf("open mapping store: %v", err)
	}
	library, err := assets.NewLibrary(cfg.Paths.AssetsDir)
	if err != nil {
		t.Fatalf("new library: %v", err)
	}

	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	coord := New(cfg, nil, store, mappingStore, library, clock.Now)
	return &fixture{coord: coord, cfg: cfg, clock: clock, lib: library, maps: mappingStore}
}

func (f *fixture) addAsset(t *testing.T, name string) {
	t.Helper()
	if err := f.lib.Save(name, strings.NewReader("content")); err != nil {
		t.Fatalf("save asset %s: %v", name, err)
	}
}

func TestStateStartsAtWelcome(t *testing.T) {
	f := newFixture(t)
	state := f.coord.State()
	if state.Mode != "welcome" {
		t.Errorf("mode = %s, want welcome", state.Mode)
	}
	if state.ImageDisplaySeconds != f.cfg.Kiosk.ImageDisplaySeconds {
		t.Errorf("image display seconds = %d", state.ImageDisplaySeconds)
	}
}

func TestUnknownCardThenMapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// An unknown card is recorded but the display stays idle.
	resp, err := f.coord.HandleScan(ctx, "Z")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if resp.Mapped {
		t.Error("card Z should be unmapped")
	}
	if resp.State.Mode != "splash" {
		t.Errorf("mode after unknown scan = %s, want splash", resp.State.Mode)
	}

	cards, err := f.coord.ScannedCards(ctx)
	if err != nil {
		t.Fatalf("scanned cards: %v", err)
	}
	if len(cards.Unknown) != 1 || cards.Unknown[0].CardID != "Z" {
		t.Fatalf("unknown cards = %+v", cards.Unknown)
	}

	// Mapping alone does not change the ongoing presence reading.
	f.addAsset(t, "v.mp4")
	if err := f.coord.MapCard("Z", "v.mp4"); err != nil {
		t.Fatalf("map card: %v", err)
	}

	// The next scan picks up the new mapping.
	f.clock.Advance(time.Second)
	resp, err = f.coord.HandleScan(ctx, "Z")
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if resp.State.Mode != "playing" || resp.State.CurrentAsset != "v.mp4" {
		t.Errorf("state after mapping = %+v", resp.State)
	}
}

func TestCardRemovalReturnsToSplash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAsset(t, "clip.mp4")
	if err := f.coord.MapCard("card-a", "clip.mp4"); err != nil {
		t.Fatalf("map: %v", err)
	}

	if _, err := f.coord.HandleScan(ctx, "card-a"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got := f.coord.State().Mode; got != "playing" {
		t.Fatalf("mode = %s, want playing", got)
	}

	f.clock.Advance(f.cfg.PresenceTimeout() + time.Second)
	if got := f.coord.State().Mode; got != "splash" {
		t.Errorf("mode after removal = %s, want splash", got)
	}
}

func TestIdleFallsBackToWelcomeWithoutSplashAsset(t *testing.T) {
	f := newFixture(t)
	f.cfg.Kiosk.SplashAsset = ""
	ctx := context.Background()

	if _, err := f.coord.HandleScan(ctx, "stranger"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got := f.coord.State().Mode; got != "welcome" {
		t.Errorf("mode with unknown card and no splash = %s, want welcome", got)
	}

	f.clock.Advance(f.cfg.PresenceTimeout() + time.Second)
	if got := f.coord.State().Mode; got != "welcome" {
		t.Errorf("idle mode without splash = %s, want welcome", got)
	}
}

func TestNavigateThroughPlaylist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"a.mp4", "b.jpg", "c.mov"} {
		f.addAsset(t, name)
		if err := f.coord.MapCard("card-a", name); err != nil {
			t.Fatalf("map %s: %v", name, err)
		}
	}
	if _, err := f.coord.HandleScan(ctx, "card-a"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	resp, err := f.coord.Navigate("next")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if !resp.Active || resp.State.CurrentAsset != "b.jpg" {
		t.Errorf("after next: %+v", resp.State)
	}

	// Clamp at the end.
	for i := 0; i < 5; i++ {
		if resp, err = f.coord.Navigate("next"); err != nil {
			t.Fatalf("navigate: %v", err)
		}
	}
	if resp.State.CurrentAsset != "c.mov" || resp.State.AssetIndex != 2 {
		t.Errorf("after repeated next: %+v", resp.State)
	}

	if _, err := f.coord.Navigate("upward"); err == nil {
		t.Error("bad direction should be rejected")
	}
}

func TestNavigateWithoutSession(t *testing.T) {
	f := newFixture(t)
	resp, err := f.coord.Navigate("next")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if resp.Active {
		t.Error("no session should report inactive")
	}
}

func TestMapCardRequiresLibraryAsset(t *testing.T) {
	f := newFixture(t)
	if err := f.coord.MapCard("card-a", "missing.mp4"); err == nil {
		t.Error("mapping a file not in the library should fail")
	}
}

func TestWriteMappingTextRejectsInvalidWithoutMutation(t *testing.T) {
	f := newFixture(t)
	before := f.coord.MappingText()

	if err := f.coord.WriteMappingText("no block here\n"); err == nil {
		t.Fatal("invalid document should be rejected")
	}
	if f.coord.MappingText() != before {
		t.Error("rejected write must not change the stored text")
	}
}

func TestSequentialConfigWritesKeepBothEdits(t *testing.T) {
	f := newFixture(t)

	first := "CARD_ASSETS = {\n    \"card-a\": \"a.mp4\",\n}\n"
	if err := f.coord.WriteMappingText(first); err != nil {
		t.Fatalf("first write: %v", err)
	}
	second := "CARD_ASSETS = {\n    \"card-a\": \"a.mp4\",\n    \"card-b\": \"b.mp4\",\n}\n"
	if err := f.coord.WriteMappingText(second); err != nil {
		t.Fatalf("second write: %v", err)
	}

	mapping := f.maps.Mapping()
	if !mapping.Has("card-a") || !mapping.Has("card-b") {
		t.Errorf("final mapping = %v, want both cards", mapping.Cards())
	}
}

func TestStatusCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAsset(t, "a.mp4")
	if err := f.coord.MapCard("card-a", "a.mp4"); err != nil {
		t.Fatalf("map: %v", err)
	}
	if _, err := f.coord.HandleScan(ctx, "card-a"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	status, err := f.coord.Status(ctx, false)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Running || status.CardsScanned != 1 || status.CardsMapped != 1 || status.AssetCount != 1 {
		t.Errorf("status = %+v", status)
	}
	if !status.StartedAt.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("started at = %s, want the injected clock's start", status.StartedAt)
	}
}
