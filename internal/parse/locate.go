package parse

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Definition file name patterns, matched case-insensitively against the
// base name. "requirements.yaml" is the conventional single-file layout;
// "*.depend.yaml" allows several definition files side by side.
var definitionPatterns = []string{
	"*.depend.yaml",
	"*.depend.yml",
	"requirements.yaml",
	"requirements.yml",
}

// FindDefinitions locates dependency definition files under root. If root
// is itself a file it is returned as-is, whatever its name. An empty result
// is not an error; the caller decides whether to warn.
func FindDefinitions(root string, recurse bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot read path %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var found []string
	if recurse {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if isDefinitionFile(d.Name()) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", root, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if isDefinitionFile(e.Name()) {
				found = append(found, filepath.Join(root, e.Name()))
			}
		}
	}

	// Deterministic discovery order regardless of filesystem ordering.
	sort.Strings(found)
	return found, nil
}

func isDefinitionFile(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range definitionPatterns {
		if ok, _ := filepath.Match(pattern, lower); ok {
			return true
		}
	}
	return false
}
