// Package names resolves entity identifiers to human-readable display names.
//
// A [Map] may be incomplete: identifiers without an entry resolve to
// themselves, and [Map.Valid] treats such self-resolving (or blank) names
// as unnamed. The neighborhood filter drops unnamed nodes before rendering.
//
// Maps load from JSON objects or TOML tables:
//
//	{"440": "Team Fortress 2", "570": "Dota 2"}
//
//	"440" = "Team Fortress 2"
//	"570" = "Dota 2"
package names

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Map is a lookup from identifier to display name. Read-only by convention;
// the extractor never mutates it.
type Map map[string]string

// Lookup returns the display name for id, or id itself when no entry exists.
// This mirrors "get with default" semantics.
func (m Map) Lookup(id string) string {
	if name, ok := m[id]; ok {
		return name
	}
	return id
}

// Valid reports whether id has a real display name: the mapped value must be
// non-blank after trimming whitespace and must differ from the identifier
// itself. A missing entry, a blank name, or an identifier mapped to itself
// all count as unnamed.
func (m Map) Valid(id string) bool {
	name := m[id]
	return strings.TrimSpace(name) != "" && name != id
}

// LoadFile reads a name map from path, choosing the decoder by extension:
// .toml uses TOML, anything else is treated as JSON.
func LoadFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return ParseJSON(data)
}

// ParseJSON decodes a JSON object of id→name pairs.
func ParseJSON(data []byte) (Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode names: %w", err)
	}
	if m == nil {
		m = Map{}
	}
	return m, nil
}

// ParseTOML decodes a TOML table of id→name pairs.
func ParseTOML(data []byte) (Map, error) {
	m := Map{}
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode names: %w", err)
	}
	return m, nil
}
