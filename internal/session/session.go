// Package session infers card presence from repeated reader scans. A
// card sitting on the reader produces a scan every second or so; silence
// longer than the presence timeout means the card was removed.
package session

import "time"

// Session is the single active card presence. AssetIndex is the card's
// position in its asset playlist.
type Session struct {
	CardID     string
	AssetIndex int
	InsertedAt time.Time
	LastScanAt time.Time
}

// Direction selects which way Navigate moves through a playlist.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// ParseDirection validates a wire-format direction string.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionNext, DirectionPrev:
		return Direction(s), true
	default:
		return "", false
	}
}
