// Package hooks runs a dependency's pre and post scripts through an
// embedded POSIX shell interpreter. Every script gets a fresh interpreter,
// so shell state set by one hook never leaks into the next hook or the next
// dependency.
package hooks

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
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func NewRunner(stdout, stderr io.Writer) *Runner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Runner{Stdout: stdout, Stderr: stderr}
}

// RunAll executes the given scripts in declared order and stops at the
// first failure. A nonzero exit status fails the hook block; the failure
// never carries over to later blocks because every script runs in its own
// interpreter.
func (r *Runner) RunAll(ctx context.Context, dep dependency.Dependency, scripts []string) error {
	baseDir := filepath.Dir(dep.DefinitionFile)
	for i, script := range scripts {
		if err := r.runScript(ctx, dep, script, baseDir); err != nil {
			return fmt.Errorf("script %d of %d (%s): %w", i+1, len(scripts), scriptLabel(script), err)
		}
	}
	return nil
}

// runScript executes one hook. A script entry naming an existing file
// (relative to the definition file's directory) runs that file's contents;
// anything else runs as inline shell.
func (r *Runner) runScript(ctx context.Context, dep dependency.Dependency, script, baseDir string) error {
	source, name, err := resolveScript(script, baseDir)
	if err != nil {
		return err
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(source), name)
	if err != nil {
		return fmt.Errorf("parsing script: %w", err)
	}

	runner, err := interp.New(
		interp.Dir(baseDir),
		interp.Env(expand.ListEnviron(hookEnv(dep)...)),
		interp.StdIO(nil, r.Stdout, r.Stderr),
	)
	if err != nil {
		return fmt.Errorf("creating interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return fmt.Errorf("exited with status %d", int(exitStatus))
		}
		return err
	}
	return nil
}

func resolveScript(script, baseDir string) (source, name string, err error) {
	candidate := script
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(baseDir, script)
	}
	if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
		raw, readErr := os.ReadFile(candidate)
		if readErr != nil {
			return "", "", fmt.Errorf("reading script file %s: %w", candidate, readErr)
		}
		return string(raw), candidate, nil
	}
	return script, "inline", nil
}

// hookEnv exposes the dependency's fields to hook scripts through
// PSDEPEND_* environment variables.
func hookEnv(dep dependency.Dependency) []string {
	env := os.Environ()
	env = append(env,
		"PSDEPEND_DEPENDENCY="+dep.DisplayName(),
		"PSDEPEND_TYPE="+dep.Type,
		"PSDEPEND_VERSION="+dep.Version,
		"PSDEPEND_SOURCE="+dep.Source,
		"PSDEPEND_TARGET="+dep.Target,
	)
	return env
}

func scriptLabel(script string) string {
	script = strings.TrimSpace(script)
	if idx := strings.IndexByte(script, '\n'); idx >= 0 {
		script = script[:idx] + " ..."
	}
	if len(script) > 60 {
		script = script[:57] + "..."
	}
	return script
}
