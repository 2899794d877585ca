package dependency

import "strings"

// Dependency is one parsed unit from a definition file: something to
// install, import, or test. Records are immutable after parsing; the
// engine consumes them read-only.
type Dependency struct {
	// Key is the dependency's map key in the definition file.
	Key string

	// Names identifies what to install (module path, source path, ...).
	// Defaults to Key when the definition does not set a name.
	Names []string

	// Type selects the handler that executes this dependency.
	Type string

	Version string
	Source  string
	Target  string

	// Parameters carries handler-specific settings the core does not
	// interpret.
	Parameters map[string]any

	// PreScripts and PostScripts run around the handler invocation, in
	// declared order. Entries are script paths (relative to the definition
	// file) or inline shell.
	PreScripts  []string
	PostScripts []string

	Tags      []string
	DependsOn []string

	// DefinitionFile is the path of the file this record came from.
	DefinitionFile string

	// Raw is the undecoded definition block, for handlers that need
	// fields the typed record does not model.
	Raw map[string]any
}

// DisplayName renders the dependency for prompts and results.
func (d Dependency) DisplayName() string {
	if len(d.Names) == 0 {
		return d.Key
	}
	return strings.Join(d.Names, ", ")
}

// HasTags reports whether the dependency carries every requested tag.
// An empty request matches everything.
func (d Dependency) HasTags(requested []string) bool {
	for _, want := range requested {
		found := false
		for _, have := range d.Tags {
			if strings.EqualFold(have, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
