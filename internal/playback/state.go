// Package playback derives the externally observable display state. The
// state is a pure function of the active session, the card mapping, and
// whether any card has ever been scanned; it is recomputed on every
// read, never stored.
package playback

import "kiosk/internal/session"

// Mode is what the display client should be showing.
type Mode string

const (
	// ModeWelcome is shown before the first card of the day.
	ModeWelcome Mode = "welcome"
	// ModeSplash is the idle screen between cards.
	ModeSplash Mode = "splash"
	// ModePlaying means a mapped card is present.
	ModePlaying Mode = "playing"
)

// State is the read-model polled by the display client.
type State struct {
	Mode         Mode
	CardID       string
	CurrentAsset string
	AssetIndex   int
	AssetCount   int
	SplashAsset  string
}

// Resolve computes the display state. assets is the playlist for the
// session's card, nil or empty when the card is unknown. A present but
// unknown card falls back to the idle screen while its scans are still
// recorded for operator mapping.
func Resolve(sess *session.Session, assets []string, everScanned bool, splashAsset string) State {
	idle := ModeSplash
	if !everScanned || splashAsset == "" {
		idle = ModeWelcome
	}

	if sess == nil || len(assets) == 0 {
		return State{Mode: idle, SplashAsset: splashAsset}
	}

	index := sess.AssetIndex
	if index < 0 {
		index = 0
	}
	if index >= len(assets) {
		index = len(assets) - 1
	}

	return State{
		Mode:         ModePlaying,
		CardID:       sess.CardID,
		CurrentAsset: assets[index],
		AssetIndex:   index,
		AssetCount:   len(assets),
		SplashAsset:  splashAsset,
	}
}
