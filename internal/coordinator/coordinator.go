// Package coordinator ties the scan ledger, the card mapping, the
// presence tracker, and the asset library into the operations the HTTP
// and IPC surfaces expose.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"kiosk/internal/api"
	"kiosk/internal/assets"
	"kiosk/internal/cardmap"
	"kiosk/internal/config"
	"kiosk/internal/ledger"
	"kiosk/internal/logging"
	"kiosk/internal/playback"
	"kiosk/internal/session"
)

// Coordinator owns the mutable kiosk state. Each aggregate carries its
// own lock, so the coordinator itself stays lock-free.
type Coordinator struct {
	cfg       *config.Config
	logger    *slog.Logger
	tracker   *session.Tracker
	ledger    *ledger.Store
	mapping   *cardmap.Store
	library   *assets.Library
	now       func() time.Time
	startedAt time.Time
}

// New assembles a coordinator from its stores. A nil clock uses
// time.Now.
func New(cfg *config.Config, logger *slog.Logger, ledgerStore *ledger.Store, mappingStore *cardmap.Store, library *assets.Library, clock func() time.Time) *Coordinator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Coordinator{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "coordinator"),
		tracker:   session.NewTracker(cfg.PresenceTimeout(), clock),
		ledger:    ledgerStore,
		mapping:   mappingStore,
		library:   library,
		now:       clock,
		startedAt: clock(),
	}
}

// HandleScan ingests one reader scan: the ledger records it whether or
// not the card is mapped, then the tracker updates presence.
func (c *Coordinator) HandleScan(ctx context.Context, cardID string) (api.ScanResponse, error) {
	if cardID == "" {
		return api.ScanResponse{}, fmt.Errorf("card id is required")
	}

	if err := c.ledger.RecordScan(ctx, cardID, c.now()); err != nil {
		return api.ScanResponse{}, fmt.Errorf("record scan: %w", err)
	}

	inserted := c.tracker.OnScan(cardID)
	mapped := c.mapping.Has(cardID)
	if inserted {
		c.logger.Info("card inserted",
			logging.String(logging.FieldCardID, cardID),
			logging.Bool("mapped", mapped))
	}

	return api.ScanResponse{
		Inserted: inserted,
		Mapped:   mapped,
		State:    c.State(),
	}, nil
}

// State derives the current playback state. Presence expiry is
// evaluated here, at read time.
func (c *Coordinator) State() api.PlaybackState {
	sess := c.tracker.Active()
	var cardAssets []string
	if sess != nil {
		cardAssets = c.mapping.Assets(sess.CardID)
	}
	state := playback.Resolve(sess, cardAssets, c.tracker.EverScanned(), c.cfg.Kiosk.SplashAsset)
	return api.PlaybackState{
		Mode:                string(state.Mode),
		CardID:              state.CardID,
		CurrentAsset:        state.CurrentAsset,
		AssetIndex:          state.AssetIndex,
		AssetCount:          state.AssetCount,
		SplashAsset:         state.SplashAsset,
		ImageDisplaySeconds: c.cfg.Kiosk.ImageDisplaySeconds,
	}
}

// Navigate moves the active session through its playlist.
func (c *Coordinator) Navigate(directionValue string) (api.NavigateResponse, error) {
	direction, ok := session.ParseDirection(directionValue)
	if !ok {
		return api.NavigateResponse{}, fmt.Errorf("unknown direction %q", directionValue)
	}

	active := c.tracker.Navigate(direction, func(cardID string) int {
		return len(c.mapping.Assets(cardID))
	})
	return api.NavigateResponse{Active: active, State: c.State()}, nil
}

// ScannedCards returns the full ledger plus the unmapped subset.
func (c *Coordinator) ScannedCards(ctx context.Context) (api.ScannedCardsResponse, error) {
	records, err := c.ledger.List(ctx)
	if err != nil {
		return api.ScannedCardsResponse{}, err
	}

	resp := api.ScannedCardsResponse{
		Scanned: make([]api.CardRecord, 0, len(records)),
		Unknown: make([]api.CardRecord, 0),
	}
	for _, record := range records {
		entry := api.CardRecord{
			CardID:    record.CardID,
			FirstSeen: record.FirstSeen,
			LastSeen:  record.LastSeen,
			ScanCount: record.ScanCount,
			Mapped:    c.mapping.Has(record.CardID),
			Assets:    c.mapping.Assets(record.CardID),
		}
		resp.Scanned = append(resp.Scanned, entry)
		if !entry.Mapped {
			resp.Unknown = append(resp.Unknown, entry)
		}
	}
	return resp, nil
}

// MapCard appends an asset to a card's playlist. The asset must already
// be in the library so operators cannot map typos.
func (c *Coordinator) MapCard(cardID, asset string) error {
	if !c.library.Exists(asset) {
		return fmt.Errorf("asset %s is not in the library", asset)
	}
	if err := c.mapping.MapCard(cardID, asset); err != nil {
		return err
	}
	c.logger.Info("card mapped",
		logging.String(logging.FieldCardID, cardID),
		logging.String(logging.FieldAsset, asset))
	return nil
}

// UnmapAsset removes one asset from a card's playlist.
func (c *Coordinator) UnmapAsset(cardID string, index int) error {
	if err := c.mapping.UnmapAsset(cardID, index); err != nil {
		return err
	}
	c.logger.Info("card asset unmapped",
		logging.String(logging.FieldCardID, cardID),
		logging.Int("index", index))
	return nil
}

// CardAssets returns the current playlist for cardID.
func (c *Coordinator) CardAssets(cardID string) []string {
	return c.mapping.Assets(cardID)
}

// MappingText returns the full mapping document.
func (c *Coordinator) MappingText() string {
	return c.mapping.Text()
}

// WriteMappingText replaces the mapping document. A document that fails
// validation leaves the stored text untouched.
func (c *Coordinator) WriteMappingText(text string) error {
	if err := c.mapping.WriteText(text); err != nil {
		return err
	}
	c.logger.Info("mapping document replaced")
	return nil
}

// Assets lists the library.
func (c *Coordinator) Assets() ([]api.AssetInfo, error) {
	infos, err := c.library.List()
	if err != nil {
		return nil, err
	}
	out := make([]api.AssetInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, api.AssetInfo{
			Name:     info.Name,
			Kind:     string(info.Kind),
			Size:     info.Size,
			Modified: info.Modified,
		})
	}
	return out, nil
}

// Library exposes the asset library for file serving and uploads.
func (c *Coordinator) Library() *assets.Library {
	return c.library
}

// Status summarizes daemon health for the CLI and management UI.
func (c *Coordinator) Status(ctx context.Context, readerAttached bool) (api.StatusResponse, error) {
	count, err := c.ledger.Count(ctx)
	if err != nil {
		return api.StatusResponse{}, err
	}
	infos, err := c.library.List()
	if err != nil {
		return api.StatusResponse{}, err
	}
	return api.StatusResponse{
		Running:        true,
		PID:            os.Getpid(),
		StartedAt:      c.startedAt,
		CardsScanned:   count,
		CardsMapped:    c.mapping.Mapping().Len(),
		AssetCount:     len(infos),
		ReaderAttached: readerAttached,
		ReaderDevice:   c.cfg.Kiosk.ReaderDevice,
	}, nil
}
