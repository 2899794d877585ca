package types

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Map translates the type names used in definition files to registered
// handler names. It lets a site keep its own vocabulary ("psgallerymodule",
// "module", ...) without renaming handlers.
//
// The map file is YAML:
//
//	psgallerymodule: gomodule
//	task: command
type Map map[string]string

// LoadMap reads a type map file. An empty path yields an empty map.
func LoadMap(path string) (Map, error) {
	if path == "" {
		return Map{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading type map %s: %w", path, err)
	}
	var loaded map[string]string
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return nil, fmt.Errorf("parsing type map %s: %w", path, err)
	}

	m := make(Map, len(loaded))
	for alias, handler := range loaded {
		m[strings.ToLower(strings.TrimSpace(alias))] = strings.ToLower(strings.TrimSpace(handler))
	}
	return m, nil
}

// Apply translates a declared type name through the map. Names without an
// entry pass through unchanged.
func (m Map) Apply(typeName string) string {
	if m == nil {
		return typeName
	}
	if mapped, ok := m[strings.ToLower(strings.TrimSpace(typeName))]; ok {
		return mapped
	}
	return typeName
}
