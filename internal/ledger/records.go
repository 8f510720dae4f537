package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timeFormat keeps full nanosecond width so stored UTC timestamps sort
// lexicographically, which ORDER BY last_seen depends on.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// RecordScan records one scan of cardID at the given time. The first scan
// of a card creates its row; later scans bump last_seen and the count.
func (s *Store) RecordScan(ctx context.Context, cardID string, at time.Time) error {
	if cardID == "" {
		return errors.New("card id is required")
	}
	stamp := at.UTC().Format(timeFormat)
	return s.execWithRetry(ctx, `
INSERT INTO card_scans (card_id, first_seen, last_seen, scan_count)
VALUES (?, ?, ?, 1)
ON CONFLICT(card_id) DO UPDATE SET
    last_seen = excluded.last_seen,
    scan_count = card_scans.scan_count + 1`,
		cardID, stamp, stamp)
}

// Get returns the ledger record for cardID, or nil if the card has never
// been scanned.
func (s *Store) Get(ctx context.Context, cardID string) (*CardRecord, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT card_id, first_seen, last_seen, scan_count FROM card_scans WHERE card_id = ?",
		cardID)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get card %s: %w", cardID, err)
	}
	return record, nil
}

// List returns every card ever scanned, most recently seen first.
func (s *Store) List(ctx context.Context) ([]*CardRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT card_id, first_seen, last_seen, scan_count FROM card_scans ORDER BY last_seen DESC, card_id")
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var records []*CardRecord
	for rows.Next() {
		record, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan card row: %w", scanErr)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ListUnknown returns scanned cards that the known predicate does not
// recognize, most recently seen first. Operators use this to find cards
// that need a mapping.
func (s *Store) ListUnknown(ctx context.Context, known func(cardID string) bool) ([]*CardRecord, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var unknown []*CardRecord
	for _, record := range all {
		if known != nil && known(record.CardID) {
			continue
		}
		unknown = append(unknown, record)
	}
	return unknown, nil
}

// Count returns the number of distinct cards ever scanned.
func (s *Store) Count(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM card_scans").Scan(&count); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*CardRecord, error) {
	var (
		record    CardRecord
		firstSeen string
		lastSeen  string
	)
	if err := row.Scan(&record.CardID, &firstSeen, &lastSeen, &record.ScanCount); err != nil {
		return nil, err
	}
	var err error
	if record.FirstSeen, err = time.Parse(timeFormat, firstSeen); err != nil {
		return nil, fmt.Errorf("parse first_seen: %w", err)
	}
	if record.LastSeen, err = time.Parse(timeFormat, lastSeen); err != nil {
		return nil, fmt.Errorf("parse last_seen: %w", err)
	}
	return &record, nil
}
