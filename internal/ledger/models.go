package ledger

import "time"

// CardRecord is one row of the scan ledger: a card the kiosk has ever
// seen, with scan timing and a running count.
type CardRecord struct {
	CardID    string
	FirstSeen time.Time
	LastSeen  time.Time
	ScanCount int64
}
