package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/Plork/PSDepend/internal/dependency"
	"github.com/Plork/PSDepend/internal/types"
)

// NoopHandler does nothing useful on install/import and reports a fixed
// test result. It exists for definition-file smoke tests and for exercising
// the pipeline without touching the system.
type NoopHandler struct{}

func (h *NoopHandler) Name() string {
	return "noop"
}

func (h *NoopHandler) Description() string {
	return "Does nothing. Install and import only log the dependency; test returns the boolean\n" +
		"'test_result' parameter (default true). Useful for validating definition files and\n" +
		"for exercising tag filters, hooks, and run modes without side effects."
}

func (h *NoopHandler) Supports() []dependency.Action {
	return []dependency.Action{dependency.ActionInstall, dependency.ActionImport, dependency.ActionTest}
}

func (h *NoopHandler) Install(ctx context.Context, dep dependency.Dependency) error {
	fmt.Fprintf(os.Stderr, "noop: would install %s\n", dep.DisplayName())
	return nil
}

func (h *NoopHandler) Import(ctx context.Context, dep dependency.Dependency) error {
	fmt.Fprintf(os.Stderr, "noop: would import %s\n", dep.DisplayName())
	return nil
}

func (h *NoopHandler) Test(ctx context.Context, dep dependency.Dependency) (bool, error) {
	if v, ok := dep.Parameters["test_result"]; ok {
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("test_result parameter must be a boolean, got %T", v)
		}
		return b, nil
	}
	return true, nil
}

func init() {
	types.Register(&NoopHandler{})
}
