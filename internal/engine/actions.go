package engine

import (
	"github.com/Plork/PSDepend/internal/config"
	"github.com/Plork/PSDepend/internal/dependency"
)

// ResolveActions derives the ActionSet passed to every dependency this run.
// It is a pure derivation: the install-family default (install only when
// neither install nor import was requested) is already applied by config
// validation, and the test family never mixes with install/import because
// the flags are declared mutually exclusive. Callers must not hand in a
// config that mixes the two families.
func ResolveActions(cfg *config.Config) dependency.ActionSet {
	if cfg.Actions.Test {
		return dependency.ActionSet{Test: true}
	}
	return dependency.ActionSet{
		Install: cfg.Actions.Install,
		Import:  cfg.Actions.Import,
	}
}
