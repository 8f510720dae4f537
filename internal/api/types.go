// Package api defines the wire types shared by the HTTP surface, the
// IPC service, and the CLI.
package api

import "time"

// PlaybackState is the read-model polled by the display client.
type PlaybackState struct {
	Mode                string `json:"mode"`
	CardID              string `json:"card_id,omitempty"`
	CurrentAsset        string `json:"current_asset,omitempty"`
	AssetIndex          int    `json:"asset_index"`
	AssetCount          int    `json:"asset_count"`
	SplashAsset         string `json:"splash_asset,omitempty"`
	ImageDisplaySeconds int    `json:"image_display_seconds"`
}

// ScanRequest is a card scan posted by a reader client.
type ScanRequest struct {
	CardID string `json:"card_id"`
}

// ScanResponse reports how a scan changed the session.
type ScanResponse struct {
	Inserted bool          `json:"inserted"`
	Mapped   bool          `json:"mapped"`
	State    PlaybackState `json:"state"`
}

// NavigateRequest moves the active playlist position.
type NavigateRequest struct {
	Direction string `json:"direction"`
}

// NavigateResponse reports the state after a navigation attempt.
type NavigateResponse struct {
	Active bool          `json:"active"`
	State  PlaybackState `json:"state"`
}

// CardRecord is one scan-ledger entry.
type CardRecord struct {
	CardID    string    `json:"card_id"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	ScanCount int64     `json:"scan_count"`
	Mapped    bool      `json:"mapped"`
	Assets    []string  `json:"assets,omitempty"`
}

// ScannedCardsResponse lists every card ever seen plus the subset with
// no mapping yet.
type ScannedCardsResponse struct {
	Scanned []CardRecord `json:"scanned"`
	Unknown []CardRecord `json:"unknown"`
}

// MapCardRequest appends an asset to a card's playlist.
type MapCardRequest struct {
	Asset string `json:"asset"`
}

// MappingTextRequest replaces the whole mapping document.
type MappingTextRequest struct {
	Text string `json:"text"`
}

// AssetInfo describes one file in the asset library.
type AssetInfo struct {
	Name     string    `json:"name"`
	Kind     string    `json:"kind"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// RenameAssetRequest renames a library file.
type RenameAssetRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// StatusResponse is the daemon health summary.
type StatusResponse struct {
	Running        bool      `json:"running"`
	PID            int       `json:"pid"`
	StartedAt      time.Time `json:"started_at"`
	CardsScanned   int64     `json:"cards_scanned"`
	CardsMapped    int       `json:"cards_mapped"`
	AssetCount     int       `json:"asset_count"`
	ReaderAttached bool      `json:"reader_attached"`
	ReaderDevice   string    `json:"reader_device,omitempty"`
}

// ErrorResponse is the JSON error envelope for the HTTP surface.
type ErrorResponse struct {
	Error string `json:"error"`
}
