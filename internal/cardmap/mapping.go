package cardmap

// Mapping is an ordered association of card IDs to asset filename lists.
// Insertion order of cards and of assets within a card is preserved so
// edits keep the operator's file stable.
type Mapping struct {
	order   []string
	entries map[string][]string
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{entries: make(map[string][]string)}
}

// Cards returns card IDs in insertion order.
func (m *Mapping) Cards() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Has reports whether cardID is mapped to at least one asset.
func (m *Mapping) Has(cardID string) bool {
	return len(m.entries[cardID]) > 0
}

// Get returns a copy of the asset list for cardID, nil when unmapped.
func (m *Mapping) Get(cardID string) []string {
	assets, ok := m.entries[cardID]
	if !ok {
		return nil
	}
	out := make([]string, len(assets))
	copy(out, assets)
	return out
}

// Len returns the number of mapped cards.
func (m *Mapping) Len() int {
	return len(m.order)
}

// Upsert appends asset to the card's list, creating the card if needed.
// Appending an asset the card already has is a no-op.
func (m *Mapping) Upsert(cardID, asset string) {
	existing, ok := m.entries[cardID]
	if !ok {
		m.order = append(m.order, cardID)
		m.entries[cardID] = []string{asset}
		return
	}
	for _, have := range existing {
		if have == asset {
			return
		}
	}
	m.entries[cardID] = append(existing, asset)
}

// RemoveAt removes the asset at index from the card's list. When the list
// empties the card entry is dropped entirely. Returns false when the card
// or index does not exist.
func (m *Mapping) RemoveAt(cardID string, index int) bool {
	assets, ok := m.entries[cardID]
	if !ok || index < 0 || index >= len(assets) {
		return false
	}
	assets = append(assets[:index], assets[index+1:]...)
	if len(assets) == 0 {
		delete(m.entries, cardID)
		for i, id := range m.order {
			if id == cardID {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		return true
	}
	m.entries[cardID] = assets
	return true
}

// Clone returns a deep copy. Mutations are applied to a clone and then
// serialized so a failed write never corrupts the live mapping.
func (m *Mapping) Clone() *Mapping {
	clone := &Mapping{
		order:   make([]string, len(m.order)),
		entries: make(map[string][]string, len(m.entries)),
	}
	copy(clone.order, m.order)
	for card, assets := range m.entries {
		dup := make([]string, len(assets))
		copy(dup, assets)
		clone.entries[card] = dup
	}
	return clone
}
