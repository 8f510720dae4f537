// Package cardmap owns the card to asset mapping. The mapping lives as a
// reserved CARD_ASSETS block inside a larger human-editable configuration
// file; this package parses the block, mutates a copy, and rewrites the
// file while leaving every unrelated line byte-identical.
package cardmap
