package engine

import (
	"fmt"

	"github.com/Plork/PSDepend/internal/config"
	"github.com/Plork/PSDepend/internal/dependency"
)

// ConfirmFunc asks the operator whether a dependency may be executed. The
// description names the dependency and the action about to occur. A false
// return skips the dependency; it is not an error.
type ConfirmFunc func(description string) bool

// shouldProcess decides, per dependency, whether to execute it.
//
// Policy, in priority order:
//  1. Test mode always proceeds: testing is read-only by contract.
//  2. Force without dry-run proceeds without prompting.
//  3. Otherwise the confirmation callback decides.
//
// The gate is evaluated independently for every dependency; a denial here
// never affects the rest of the run.
func (e *Engine) shouldProcess(cfg *config.Config, actions dependency.ActionSet, dep dependency.Dependency) bool {
	if actions.Test {
		return true
	}
	if cfg.Runtime.Force && !cfg.Runtime.DryRun {
		return true
	}
	if e.Confirm == nil {
		return false
	}
	return e.Confirm(confirmDescription(actions, dep))
}

func confirmDescription(actions dependency.ActionSet, dep dependency.Dependency) string {
	return fmt.Sprintf("%s dependency %q (type %s, from %s)", actions, dep.DisplayName(), dep.Type, dep.DefinitionFile)
}
