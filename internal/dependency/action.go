package dependency

import "strings"

// Action is one of the operations a handler can perform for a dependency.
type Action string

const (
	ActionInstall Action = "install"
	ActionImport  Action = "import"
	ActionTest    Action = "test"
)

// ActionSet is the set of actions requested for a run. It is derived once
// from the invocation flags and held for the whole run. Test never coexists
// with Install or Import (enforced by flag validation upstream).
type ActionSet struct {
	Install bool
	Import  bool
	Test    bool
}

func (a ActionSet) Contains(action Action) bool {
	switch action {
	case ActionInstall:
		return a.Install
	case ActionImport:
		return a.Import
	case ActionTest:
		return a.Test
	}
	return false
}

// List returns the selected actions in execution order: install, import, test.
func (a ActionSet) List() []Action {
	var out []Action
	if a.Install {
		out = append(out, ActionInstall)
	}
	if a.Import {
		out = append(out, ActionImport)
	}
	if a.Test {
		out = append(out, ActionTest)
	}
	return out
}

func (a ActionSet) String() string {
	actions := a.List()
	parts := make([]string, 0, len(actions))
	for _, act := range actions {
		parts = append(parts, string(act))
	}
	return strings.Join(parts, ",")
}
