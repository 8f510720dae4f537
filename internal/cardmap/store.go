package cardmap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// Store serializes all access to the mapping file. Readers get copies;
// every mutation rewrites the file through a temp file and rename so a
// concurrent reader never observes a half-written mapping.
type Store struct {
	mu       sync.Mutex
	path     string
	fileLock *flock.Flock
	text     string
	mapping  *Mapping
}

// OpenStore loads the mapping file at path, creating an empty one when it
// does not exist yet.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("mapping file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create mapping directory: %w", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		data = []byte(defaultDocument())
		if writeErr := writeAtomic(path, data); writeErr != nil {
			return nil, fmt.Errorf("create mapping file: %w", writeErr)
		}
	} else if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}

	text := string(data)
	return &Store{
		path:     path,
		fileLock: flock.New(path + ".lock"),
		text:     text,
		mapping:  Parse(text),
	}, nil
}

// Path returns the mapping file location.
func (s *Store) Path() string {
	return s.path
}

// Mapping returns a copy of the current mapping.
func (s *Store) Mapping() *Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapping.Clone()
}

// Has reports whether cardID currently maps to at least one asset.
func (s *Store) Has(cardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapping.Has(cardID)
}

// Assets returns a copy of the asset list for cardID.
func (s *Store) Assets(cardID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapping.Get(cardID)
}

// Text returns the full mapping document as last written.
func (s *Store) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// WriteText replaces the whole document. The text must contain a
// parsable CARD_ASSETS block; unrelated lines are kept as given.
func (s *Store) WriteText(text string) error {
	if !hasBlock(text) {
		return fmt.Errorf("document has no %s block", blockName)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(Parse(text), text)
}

// hasBlock reports whether text contains an actual block opener, not
// just a mention of the block name in a comment.
func hasBlock(text string) bool {
	for _, line := range splitLines(text) {
		if isBlockOpener(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

// MapCard appends asset to cardID's list and persists the change.
func (s *Store) MapCard(cardID, asset string) error {
	if cardID == "" {
		return errors.New("card id is required")
	}
	if asset == "" {
		return errors.New("asset filename is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.mapping.Clone()
	next.Upsert(cardID, asset)
	return s.commit(next, Render(next, s.text))
}

// UnmapAsset removes the asset at index from cardID's list and persists
// the change. Removing the last asset drops the card entirely.
func (s *Store) UnmapAsset(cardID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.mapping.Clone()
	if !next.RemoveAt(cardID, index) {
		return fmt.Errorf("card %s has no asset at index %d", cardID, index)
	}
	return s.commit(next, Render(next, s.text))
}

// commit persists text to disk and only then swaps the in-memory state.
// Callers hold s.mu.
func (s *Store) commit(mapping *Mapping, text string) error {
	if err := s.fileLock.Lock(); err != nil {
		return fmt.Errorf("lock mapping file: %w", err)
	}
	defer func() { _ = s.fileLock.Unlock() }()

	if err := writeAtomic(s.path, []byte(text)); err != nil {
		return fmt.Errorf("write mapping file: %w", err)
	}
	s.mapping = mapping
	s.text = text
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cardmap-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func defaultDocument() string {
	return `# Card to asset mapping for the kiosk.
#
# The ` + blockName + ` block below is rewritten by the server when an
# operator maps or unmaps cards. Lines outside the block are preserved
# exactly and may hold any notes you like.
#
# To find a card's ID, scan it and check the scanned-cards list in the
# management interface.

` + blockName + ` = {
}
`
}
