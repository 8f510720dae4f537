package ipc

import "kiosk/internal/api"

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse mirrors the HTTP status DTO for IPC callers.
type StatusResponse struct {
	Status   api.StatusResponse `json:"status"`
	LockPath string             `json:"lock_path"`
	Socket   string             `json:"socket"`
}

// StateRequest fetches the current playback state.
type StateRequest struct{}

// StateResponse carries the playback read-model.
type StateResponse struct {
	State api.PlaybackState `json:"state"`
}

// ScanRequest injects a card scan, mainly for testing readers.
type ScanRequest struct {
	CardID string `json:"card_id"`
}

// ScanResponse reports the scan outcome.
type ScanResponse struct {
	Inserted bool              `json:"inserted"`
	Mapped   bool              `json:"mapped"`
	State    api.PlaybackState `json:"state"`
}

// NavigateRequest moves the playlist position.
type NavigateRequest struct {
	Direction string `json:"direction"`
}

// NavigateResponse reports the state after navigation.
type NavigateResponse struct {
	Active bool              `json:"active"`
	State  api.PlaybackState `json:"state"`
}

// CardsRequest lists the scan ledger.
type CardsRequest struct{}

// CardsResponse carries ledger records plus the unmapped subset.
type CardsResponse struct {
	Scanned []api.CardRecord `json:"scanned"`
	Unknown []api.CardRecord `json:"unknown"`
}

// MapCardRequest appends an asset to a card's playlist.
type MapCardRequest struct {
	CardID string `json:"card_id"`
	Asset  string `json:"asset"`
}

// MapCardResponse acknowledges the mapping edit.
type MapCardResponse struct {
	Assets []string `json:"assets"`
}

// UnmapAssetRequest removes one playlist entry.
type UnmapAssetRequest struct {
	CardID string `json:"card_id"`
	Index  int    `json:"index"`
}

// UnmapAssetResponse acknowledges the removal.
type UnmapAssetResponse struct {
	Assets []string `json:"assets"`
}

// MappingTextRequest fetches the mapping document.
type MappingTextRequest struct{}

// MappingTextResponse carries the document text.
type MappingTextResponse struct {
	Text string `json:"text"`
}

// WriteMappingTextRequest replaces the mapping document.
type WriteMappingTextRequest struct {
	Text string `json:"text"`
}

// WriteMappingTextResponse acknowledges the replacement.
type WriteMappingTextResponse struct {
	Written bool `json:"written"`
}

// AssetsRequest lists the asset library.
type AssetsRequest struct{}

// AssetsResponse carries library entries.
type AssetsResponse struct {
	Assets []api.AssetInfo `json:"assets"`
}
