package cardmap

import (
	"fmt"
	"strings"
)

// blockName marks the reserved machine-owned section of the mapping file.
const blockName = "CARD_ASSETS"

// Parse extracts the CARD_ASSETS block from text. Entries map a quoted
// card ID to either a quoted filename or a list of quoted filenames.
// Malformed entries are skipped so one bad line never loses the rest of
// the mapping.
func Parse(text string) *Mapping {
	mapping := NewMapping()
	inBlock := false
	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(strings.TrimRight(line, "\r\n"))
		if !inBlock {
			if isBlockOpener(trimmed) {
				inBlock = true
			}
			continue
		}
		if trimmed == "}" {
			break
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		cardID, assets, ok := parseEntry(trimmed)
		if !ok {
			continue
		}
		for _, asset := range assets {
			mapping.Upsert(cardID, asset)
		}
	}
	return mapping
}

// Render rewrites the CARD_ASSETS block of original to reflect mapping,
// leaving every line outside the block byte-identical. When original has
// no block one is appended at the end.
func Render(mapping *Mapping, original string) string {
	lines := splitLines(original)
	var out strings.Builder
	replaced := false
	inBlock := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(strings.TrimRight(line, "\r\n"))
		if inBlock {
			if trimmed == "}" {
				inBlock = false
			}
			continue
		}
		if !replaced && isBlockOpener(trimmed) {
			writeBlock(&out, mapping)
			replaced = true
			inBlock = true
			continue
		}
		out.WriteString(line)
	}

	if !replaced {
		if original != "" && !strings.HasSuffix(original, "\n") {
			out.WriteString("\n")
		}
		if original != "" {
			out.WriteString("\n")
		}
		writeBlock(&out, mapping)
	}
	return out.String()
}

func writeBlock(out *strings.Builder, mapping *Mapping) {
	out.WriteString(blockName + " = {\n")
	for _, cardID := range mapping.Cards() {
		assets := mapping.Get(cardID)
		if len(assets) == 0 {
			continue
		}
		if len(assets) == 1 {
			fmt.Fprintf(out, "    %q: %q,\n", cardID, assets[0])
			continue
		}
		quoted := make([]string, len(assets))
		for i, asset := range assets {
			quoted[i] = fmt.Sprintf("%q", asset)
		}
		fmt.Fprintf(out, "    %q: [%s],\n", cardID, strings.Join(quoted, ", "))
	}
	out.WriteString("}\n")
}

func isBlockOpener(trimmed string) bool {
	if !strings.HasPrefix(trimmed, blockName) {
		return false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, blockName))
	if !strings.HasPrefix(rest, "=") {
		return false
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "="))
	return rest == "{"
}

// parseEntry parses one block line of the form
//
//	"card": "file.mp4",
//	"card": ["a.mp4", "b.jpg"],
//
// Trailing commas are optional.
func parseEntry(line string) (string, []string, bool) {
	cardID, rest, ok := readQuoted(line)
	if !ok {
		return "", nil, false
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, ":") {
		return "", nil, false
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))

	if strings.HasPrefix(rest, "[") {
		assets, ok := readList(rest)
		if !ok || len(assets) == 0 {
			return "", nil, false
		}
		return cardID, assets, true
	}

	asset, tail, ok := readQuoted(rest)
	if !ok || asset == "" {
		return "", nil, false
	}
	tail = strings.TrimSpace(tail)
	if tail != "" && tail != "," {
		return "", nil, false
	}
	return cardID, []string{asset}, true
}

func readList(s string) ([]string, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "["))
	var assets []string
	for {
		if strings.HasPrefix(s, "]") {
			tail := strings.TrimSpace(strings.TrimPrefix(s, "]"))
			if tail != "" && tail != "," {
				return nil, false
			}
			return assets, true
		}
		asset, rest, ok := readQuoted(s)
		if !ok {
			return nil, false
		}
		assets = append(assets, asset)
		s = strings.TrimSpace(rest)
		if strings.HasPrefix(s, ",") {
			s = strings.TrimSpace(strings.TrimPrefix(s, ","))
		}
	}
}

// readQuoted consumes one single- or double-quoted string from the front
// of s and returns its value plus the remainder.
func readQuoted(s string) (string, string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return "", "", false
	}
	quote := s[0]
	if quote != '"' && quote != '\'' {
		return "", "", false
	}
	for i := 1; i < len(s); i++ {
		if s[i] == quote {
			return s[1:i], s[i+1:], true
		}
	}
	return "", "", false
}

// splitLines splits text into lines keeping the trailing newline on each
// line, so unmodified lines round-trip byte for byte.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
