package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/Plork/PSDepend/internal/dependency"
	"github.com/Plork/PSDepend/internal/types"
)

// CommandHandler runs arbitrary shell snippets declared in the dependency's
// parameters: 'install', 'import', and 'test'. The test snippet's exit
// status decides satisfaction (0 = satisfied).
type CommandHandler struct {
	// Stdout/Stderr are test seams; nil means the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

func (h *CommandHandler) Name() string {
	return "command"
}

func (h *CommandHandler) Description() string {
	return "Runs shell commands from the dependency parameters. 'parameters.install' runs on\n" +
		"install, 'parameters.import' on import, and 'parameters.test' on test, where a zero\n" +
		"exit status means the dependency is satisfied. Commands execute in the definition\n" +
		"file's directory through an embedded POSIX shell."
}

func (h *CommandHandler) Supports() []dependency.Action {
	return []dependency.Action{dependency.ActionInstall, dependency.ActionImport, dependency.ActionTest}
}

func (h *CommandHandler) Install(ctx context.Context, dep dependency.Dependency) error {
	return h.runAction(ctx, dep, "install")
}

func (h *CommandHandler) Import(ctx context.Context, dep dependency.Dependency) error {
	return h.runAction(ctx, dep, "import")
}

func (h *CommandHandler) runAction(ctx context.Context, dep dependency.Dependency, action string) error {
	script, err := commandParam(dep, action)
	if err != nil {
		return err
	}
	status, err := h.run(ctx, dep, script)
	if err != nil {
		return err
	}
	if status != 0 {
		return fmt.Errorf("%s command exited with status %d", action, status)
	}
	return nil
}

func (h *CommandHandler) Test(ctx context.Context, dep dependency.Dependency) (bool, error) {
	script, err := commandParam(dep, "test")
	if err != nil {
		return false, err
	}
	status, err := h.run(ctx, dep, script)
	if err != nil {
		return false, err
	}
	return status == 0, nil
}

func commandParam(dep dependency.Dependency, action string) (string, error) {
	v, ok := dep.Parameters[action]
	if !ok {
		return "", fmt.Errorf("dependency %s declares no %q command parameter", dep.DisplayName(), action)
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%q command parameter for %s must be a non-empty string", action, dep.DisplayName())
	}
	return s, nil
}

// run executes a snippet and returns its exit status. A nonzero status is
// not an error here; callers decide what it means for their action.
func (h *CommandHandler) run(ctx context.Context, dep dependency.Dependency, script string) (int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), dep.Key)
	if err != nil {
		return 0, fmt.Errorf("parsing command: %w", err)
	}

	stdout, stderr := h.Stdout, h.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	runner, err := interp.New(
		interp.Dir(filepath.Dir(dep.DefinitionFile)),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return 0, fmt.Errorf("creating interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return int(exitStatus), nil
		}
		return 0, err
	}
	return 0, nil
}

func init() {
	types.Register(&CommandHandler{})
}
