package engine

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Plork/PSDepend/internal/config"
	"github.com/Plork/PSDepend/internal/dependency"
	"github.com/Plork/PSDepend/internal/hooks"
	"github.com/Plork/PSDepend/internal/output"
	"github.com/Plork/PSDepend/internal/parse"
	"github.com/Plork/PSDepend/internal/types"
)

func exitCodeForRun(fatal, partial, notSatisfied bool) int {
	// Exit code contract:
	// 0 = clean run
	// 1 = quiet-test verdict false (a dependency is not satisfied)
	// 2 = partial failure (some dependencies errored; run completed)
	// 3 = fatal error (run did not start)
	if fatal {
		return 3
	}
	if partial {
		return 2
	}
	if notSatisfied {
		return 1
	}
	return 0
}

// hookStage is the explicit outcome of a dependency's pre-script block,
// threaded to the dispatch step instead of a loosely-named boolean.
type hookStage int

const (
	readyForHandler hookStage = iota
	skippedHookFailure
)

// dependencyOutcome is the per-dependency result the run loop aggregates.
// tested/satisfied feed the quiet-test verdict; errored feeds the exit code.
type dependencyOutcome struct {
	errored   bool
	tested    bool
	satisfied bool
}

type Engine struct {
	// Confirm is the interactive confirmation callback. The gate consults
	// it whenever neither test mode nor --force applies; nil denies.
	Confirm ConfirmFunc

	// Hooks runs a dependency's pre and post scripts.
	Hooks *hooks.Runner

	// Stdout/Stderr default to the process streams; tests inject buffers.
	Stdout io.Writer
	Stderr io.Writer

	// resolveHandler is a test seam for handler lookup.
	// If nil, Engine uses the global types registry.
	resolveHandler func(typeName string) (types.Handler, error)
}

func NewEngine(confirm ConfirmFunc) *Engine {
	return &Engine{
		Confirm: confirm,
		Hooks:   hooks.NewRunner(nil, nil),
	}
}

func (e *Engine) stdout() io.Writer {
	if e.Stdout != nil {
		return e.Stdout
	}
	return os.Stdout
}

func (e *Engine) stderr() io.Writer {
	if e.Stderr != nil {
		return e.Stderr
	}
	return os.Stderr
}

func (e *Engine) handlerFor(typeName string) (types.Handler, error) {
	if e.resolveHandler != nil {
		return e.resolveHandler(typeName)
	}
	return types.Resolve(typeName)
}

// discoverDefinitions collects definition files under every targeted path.
// An empty or unreadable path is a warning, never fatal; remaining paths
// are still searched.
func (e *Engine) discoverDefinitions(cfg *config.Config) []string {
	var files []string
	for _, root := range cfg.Targeting.Paths {
		found, err := parse.FindDefinitions(root, cfg.Targeting.Recurse)
		if err != nil {
			fmt.Fprintf(e.stderr(), "Warning: %v\n", err)
			continue
		}
		if len(found) == 0 {
			fmt.Fprintf(e.stderr(), "Warning: no definition files found under %s\n", root)
			continue
		}
		files = append(files, found...)
	}
	return files
}

func maybeDryRun(cfg *config.Config, deps []dependency.Dependency, actions dependency.ActionSet, w io.Writer) (int, bool) {
	if !cfg.Runtime.DryRun {
		return 0, false
	}

	fmt.Fprintf(w, "Would process %d dependencies (actions: %s):\n", len(deps), actions)
	for _, d := range deps {
		fmt.Fprintf(w, "  %s (%s) from %s\n", d.DisplayName(), d.Type, d.DefinitionFile)
	}
	return 0, true
}

func setupOutputManager(cfg *config.Config, stdout io.Writer) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console Sink. Quiet-test mode trades per-dependency reporting for
	// the single aggregated verdict, so the console sink is dropped too.
	quiet := cfg.Actions.Test && cfg.Actions.Quiet
	if !cfg.Output.NoConsole && !quiet {
		if err := outMgr.AddSink(output.NewConsoleSink(stdout, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterStatus)); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Emit Sinks (additional structured streams)
	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(stdout, emit)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(es); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

// Run executes the full pipeline: discover definition files, parse them
// into dependency records, and process each record sequentially in parser
// order. A single dependency's failure never aborts the run; the only way
// one failure changes the total outcome is the quiet-test verdict.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	quiet := cfg.Actions.Test && cfg.Actions.Quiet

	files := e.discoverDefinitions(cfg)

	deps, err := parse.ParseFiles(files, cfg.Targeting.Tags)
	if err != nil {
		fmt.Fprintf(e.stderr(), "Error parsing definitions: %v\n", err)
		return exitCodeForRun(true, false, false)
	}

	typeMap, err := types.LoadMap(cfg.Types.MapPath)
	if err != nil {
		fmt.Fprintf(e.stderr(), "Error loading type map: %v\n", err)
		return exitCodeForRun(true, false, false)
	}

	actions := ResolveActions(cfg)

	if len(deps) == 0 {
		fmt.Fprintln(e.stderr(), "Warning: no dependencies resolved; nothing to do")
		if quiet {
			// Vacuous satisfaction: an empty collection tests true.
			fmt.Fprintln(e.stdout(), true)
		}
		return exitCodeForRun(false, false, false)
	}

	// Dry-run short-circuits the install/import family only. Test mode
	// always executes: testing has no side effects to guard.
	if !actions.Test {
		if code, ok := maybeDryRun(cfg, deps, actions, e.stdout()); ok {
			return code
		}
	}

	outMgr, err := setupOutputManager(cfg, e.stdout())
	if err != nil {
		fmt.Fprintf(e.stderr(), "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, false, false)
	}
	defer outMgr.Close()

	_ = outMgr.Write(output.Event{
		Type:         "run.started",
		Files:        len(files),
		Dependencies: len(deps),
		Actions:      actions.String(),
	})
	for _, f := range files {
		_ = outMgr.Write(output.Event{Type: "file.discovered", Path: f})
	}

	hasErrors := false
	verdict := true
	for _, dep := range deps {
		if !e.shouldProcess(cfg, actions, dep) {
			// A denial is not an error: skip silently (the skip is still
			// visible on structured streams) and move on.
			_ = outMgr.Write(output.Event{
				Type:   "dependency.skipped",
				Result: &dependency.Result{Dependency: dep.DisplayName(), Type: dep.Type, File: dep.DefinitionFile, Status: dependency.StatusSkipped},
			})
			continue
		}

		outcome := e.processDependency(ctx, dep, actions, typeMap, outMgr)
		if outcome.errored {
			hasErrors = true
		}
		if outcome.tested && !outcome.satisfied {
			verdict = false
		}
	}

	code := exitCodeForRun(false, hasErrors, quiet && !verdict)
	finished := output.Event{Type: "run.finished", ExitCode: code}
	if quiet {
		finished.Verdict = &verdict
	}
	_ = outMgr.Write(finished)

	if quiet {
		fmt.Fprintln(e.stdout(), verdict)
	}
	return code
}

// processDependency runs one record through the gate-passed stages: pre
// hooks, handler dispatch per action, and post hooks after a successful
// install. Every failure is contained at this dependency's granularity.
func (e *Engine) processDependency(ctx context.Context, dep dependency.Dependency, actions dependency.ActionSet, typeMap types.Map, outMgr *output.Manager) dependencyOutcome {
	var out dependencyOutcome

	// Pre-scripts run for installs only. A failure skips the handler for
	// this dependency; the run continues with the next one.
	stage := readyForHandler
	if actions.Install && len(dep.PreScripts) > 0 {
		if err := e.Hooks.RunAll(ctx, dep, dep.PreScripts); err != nil {
			_ = outMgr.Write(dependency.ErrorResult(dep, dependency.ActionInstall, fmt.Sprintf("pre-script failed: %v", err)))
			stage = skippedHookFailure
		}
	}
	if stage == skippedHookFailure {
		out.errored = true
		return out
	}

	handler, err := e.handlerFor(typeMap.Apply(dep.Type))
	if err != nil {
		_ = outMgr.Write(dependency.ErrorResult(dep, "", err.Error()))
		out.errored = true
		return out
	}

	supported := supportedActions(actions, handler)
	if len(supported.List()) == 0 {
		_ = outMgr.Write(dependency.ErrorResult(dep, "", fmt.Sprintf("handler %s supports none of the requested actions (%s)", handler.Name(), actions)))
		out.errored = true
		return out
	}

	installSucceeded := false
	for _, action := range supported.List() {
		switch action {
		case dependency.ActionInstall:
			if err := handler.Install(ctx, dep); err != nil {
				_ = outMgr.Write(dependency.ErrorResult(dep, dependency.ActionInstall, err.Error()))
				out.errored = true
				continue
			}
			installSucceeded = true
			_ = outMgr.Write(dependency.InstalledResult(dep))

		case dependency.ActionImport:
			if err := handler.Import(ctx, dep); err != nil {
				_ = outMgr.Write(dependency.ErrorResult(dep, dependency.ActionImport, err.Error()))
				out.errored = true
				continue
			}
			_ = outMgr.Write(dependency.ImportedResult(dep))

		case dependency.ActionTest:
			satisfied, err := handler.Test(ctx, dep)
			if err != nil {
				_ = outMgr.Write(dependency.ErrorResult(dep, dependency.ActionTest, err.Error()))
				out.errored = true
				// An untestable dependency cannot be called satisfied.
				out.tested = true
				out.satisfied = false
				continue
			}
			out.tested = true
			out.satisfied = satisfied
			_ = outMgr.Write(dependency.TestResult(dep, satisfied))
		}
	}

	// Post-scripts run only after a successful install. A failure is
	// surfaced but never rolls the install back.
	if actions.Install && installSucceeded && len(dep.PostScripts) > 0 {
		if err := e.Hooks.RunAll(ctx, dep, dep.PostScripts); err != nil {
			_ = outMgr.Write(dependency.ErrorResult(dep, dependency.ActionInstall, fmt.Sprintf("post-script failed: %v", err)))
			out.errored = true
		}
	}

	return out
}

// supportedActions intersects the run's requested actions with what the
// handler declares it can do.
func supportedActions(requested dependency.ActionSet, h types.Handler) dependency.ActionSet {
	var out dependency.ActionSet
	for _, action := range h.Supports() {
		if !requested.Contains(action) {
			continue
		}
		switch action {
		case dependency.ActionInstall:
			out.Install = true
		case dependency.ActionImport:
			out.Import = true
		case dependency.ActionTest:
			out.Test = true
		}
	}
	return out
}
