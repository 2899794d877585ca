package parse

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/Plork/PSDepend/internal/dependency"
)

// DefaultType is assumed when a definition block does not declare one.
const DefaultType = "noop"

// optionsKey is the reserved top-level key carrying file-level defaults.
const optionsKey = "psdependoptions"

// rawDependency is the loosely-typed shape of one definition block before
// it becomes a dependency.Dependency.
type rawDependency struct {
	Name        []string       `mapstructure:"name"`
	Type        string         `mapstructure:"type"`
	Version     string         `mapstructure:"version"`
	Source      string         `mapstructure:"source"`
	Target      string         `mapstructure:"target"`
	Parameters  map[string]any `mapstructure:"parameters"`
	PreScripts  []string       `mapstructure:"prescripts"`
	PostScripts []string       `mapstructure:"postscripts"`
	Tags        []string       `mapstructure:"tags"`
	DependsOn   []string       `mapstructure:"dependson"`
}

// fileOptions are file-level defaults applied to every dependency in the
// same file that does not set the field itself.
type fileOptions struct {
	Type      string   `mapstructure:"type"`
	Target    string   `mapstructure:"target"`
	Tags      []string `mapstructure:"tags"`
	DependsOn []string `mapstructure:"dependson"`
}

// ParseFiles parses definition files into dependency records, applies the
// tag filter (a record must carry every requested tag), and orders the
// result so that DependsOn prerequisites come first. Within the same
// dependency rank, file order and then in-file declaration order is kept.
func ParseFiles(paths []string, tags []string) ([]dependency.Dependency, error) {
	var all []dependency.Dependency
	for _, path := range paths {
		deps, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, deps...)
	}

	sorted, err := sortByDependsOn(all)
	if err != nil {
		return nil, err
	}

	if len(tags) == 0 {
		return sorted, nil
	}
	filtered := make([]dependency.Dependency, 0, len(sorted))
	for _, d := range sorted {
		if d.HasTags(tags) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

func parseFile(path string) ([]dependency.Dependency, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition file %s: %w", path, err)
	}

	// Decode through yaml.Node so in-file declaration order survives;
	// decoding straight into a map would lose it.
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing definition file %s: %w", path, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("definition file %s: top level must be a mapping of dependency names", path)
	}

	opts, err := extractFileOptions(path, root)
	if err != nil {
		return nil, err
	}

	var deps []dependency.Dependency
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		key := keyNode.Value
		if strings.EqualFold(key, optionsKey) {
			continue
		}
		dep, err := decodeDependency(path, key, valNode, opts)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

func extractFileOptions(path string, root *yaml.Node) (fileOptions, error) {
	var opts fileOptions
	for i := 0; i+1 < len(root.Content); i += 2 {
		if !strings.EqualFold(root.Content[i].Value, optionsKey) {
			continue
		}
		var block map[string]any
		if err := root.Content[i+1].Decode(&block); err != nil {
			return opts, fmt.Errorf("definition file %s: invalid %s block: %w", path, optionsKey, err)
		}
		if err := decodeLoose(block, &opts); err != nil {
			return opts, fmt.Errorf("definition file %s: invalid %s block: %w", path, optionsKey, err)
		}
	}
	return opts, nil
}

func decodeDependency(path, key string, node *yaml.Node, opts fileOptions) (dependency.Dependency, error) {
	var (
		raw   rawDependency
		block map[string]any
	)

	switch node.Kind {
	case yaml.ScalarNode:
		// Shorthand form: "name: version". An empty or "latest" value
		// means whatever the handler treats as the latest version.
		raw.Version = node.Value
	case yaml.MappingNode:
		if err := node.Decode(&block); err != nil {
			return dependency.Dependency{}, fmt.Errorf("definition file %s: dependency %q: %w", path, key, err)
		}
		if err := decodeLoose(block, &raw); err != nil {
			return dependency.Dependency{}, fmt.Errorf("definition file %s: dependency %q: %w", path, key, err)
		}
	default:
		return dependency.Dependency{}, fmt.Errorf("definition file %s: dependency %q must be a mapping or a version string", path, key)
	}

	dep := dependency.Dependency{
		Key:            key,
		Names:          raw.Name,
		Type:           raw.Type,
		Version:        raw.Version,
		Source:         raw.Source,
		Target:         raw.Target,
		Parameters:     raw.Parameters,
		PreScripts:     raw.PreScripts,
		PostScripts:    raw.PostScripts,
		Tags:           raw.Tags,
		DependsOn:      raw.DependsOn,
		DefinitionFile: path,
		Raw:            block,
	}

	if len(dep.Names) == 0 {
		dep.Names = []string{key}
	}
	if dep.Type == "" {
		dep.Type = opts.Type
	}
	if dep.Type == "" {
		dep.Type = DefaultType
	}
	if dep.Target == "" {
		dep.Target = opts.Target
	}
	if len(dep.Tags) == 0 {
		dep.Tags = opts.Tags
	}
	if len(dep.DependsOn) == 0 {
		// A file-level DependsOn applies to every other dependency in the
		// file; the named prerequisite must not depend on itself.
		for _, ref := range opts.DependsOn {
			if !strings.EqualFold(ref, key) {
				dep.DependsOn = append(dep.DependsOn, ref)
			}
		}
	}

	return dep, nil
}

// decodeLoose maps a loosely-typed YAML block onto a typed struct. Keys are
// matched case-insensitively and scalars are coerced (a single name string
// becomes a one-element list).
func decodeLoose(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
