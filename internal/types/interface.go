package types

import (
	"context"

	"github.com/Plork/PSDepend/internal/dependency"
)

// Handler executes one dependency type. Implementations are registered at
// init time and resolved by the engine through the dependency's declared
// type (optionally remapped by a type map file).
type Handler interface {
	Name() string
	Description() string

	// Supports declares which actions this handler can perform. The engine
	// intersects the run's requested actions with this set.
	Supports() []dependency.Action

	Install(ctx context.Context, dep dependency.Dependency) error
	Import(ctx context.Context, dep dependency.Dependency) error

	// Test reports whether the dependency is already satisfied. Test must
	// not mutate anything.
	Test(ctx context.Context, dep dependency.Dependency) (bool, error)
}

type Option struct {
	Name        string
	Description string
	Default     string
}

type ConfigurableHandler interface {
	Handler
	Options() []Option
	Configure(opts map[string]string) error
}
