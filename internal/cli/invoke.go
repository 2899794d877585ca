package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Plork/PSDepend/internal/config"
	"github.com/Plork/PSDepend/internal/engine"
	"github.com/Plork/PSDepend/internal/flags"
)

var cfg = config.New()

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Resolve dependency definitions and run them",
	Long: `Resolve dependency definition files and run each dependency through its handler.

Discovery looks for requirements.yaml / *.depend.yaml under every --path
(recursively with --recurse). Parsed dependencies are filtered by --tags (a
dependency must carry every requested tag) and processed strictly in order,
prerequisites (DependsOn) first.

Actions:
	The default action is install. --import can be added to (or replace) install.
	--test checks whether each dependency is already satisfied and is mutually
	exclusive with --install/--import; tests never mutate anything.

Confirmation:
	Unless --force or --test is given, every dependency is confirmed interactively
	before it runs. Declining skips only that dependency. --dry-run prints the
	resolved execution plan and exits; tests have no side effects, so --test runs
	normally even with --dry-run.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --no-console: suppress the console sink (use with --emit/--out for machine output)

	With --test --quiet, per-dependency output is suppressed and the run prints a
	single boolean: true only if every dependency tested satisfied.

Exit codes:
	0 = clean run
	1 = quiet-test verdict false (a dependency is not satisfied)
	2 = partial failure (some dependencies errored; run completed)
	3 = fatal error (run did not start)

Examples:
  # Install everything declared in ./requirements.yaml, prompting per dependency
  psdepend invoke

  # Install and import the 'prod'-tagged dependencies under ./deps, no prompts
  psdepend invoke --path ./deps --recurse --tags prod --install --import --force

  # Stream machine-readable events to stdout
  psdepend invoke --test --no-console --emit ndjson
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}
		cfg.Runtime.Verbose = verbose

		eng := engine.NewEngine(promptConfirm)
		os.Exit(eng.Run(context.Background(), cfg))
	},
}

// promptConfirm asks the operator on stderr and reads the answer from
// stdin. Anything but y/yes declines.
func promptConfirm(description string) bool {
	fmt.Fprintf(os.Stderr, "Process %s? [y/N] ", description)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func init() {
	f := invokeCmd.Flags()

	// Targeting
	f.StringSliceVar(&cfg.Targeting.Paths, flags.FlagPath, []string{"."}, "Root files or directories to search for definition files (repeatable)")
	f.BoolVar(&cfg.Targeting.Recurse, flags.FlagRecurse, false, "Recurse into subdirectories during discovery")
	f.StringSliceVar(&cfg.Targeting.Tags, flags.FlagTags, nil, "Only process dependencies carrying every one of these tags (repeatable)")

	// Actions
	f.BoolVar(&cfg.Actions.Install, flags.FlagInstall, false, "Install dependencies (default when no action flag is given)")
	f.BoolVar(&cfg.Actions.Import, flags.FlagImport, false, "Import dependencies after install")
	f.BoolVar(&cfg.Actions.Test, flags.FlagTest, false, "Test whether dependencies are satisfied instead of installing")
	f.BoolVarP(&cfg.Actions.Quiet, flags.FlagQuiet, "q", false, "With --test, print a single boolean verdict instead of per-dependency results")

	// Types
	f.StringVar(&cfg.Types.MapPath, flags.FlagTypeMap, "", "YAML file remapping declared dependency types to handler names")

	// Output
	f.StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text, json, or ndjson")
	f.StringSliceVar(&cfg.Output.ConsoleFilterStatus, flags.FlagConsoleFilterStatus, nil, "Only print results with these statuses (e.g. ERROR,NOTSATISFIED)")
	f.StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this file")
	f.StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Format for --out: json or ndjson (inferred from extension if empty)")
	f.StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Write an additional structured stream to stdout: json or ndjson")
	f.BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress the console sink")

	// Runtime
	f.BoolVar(&cfg.Runtime.Force, flags.FlagForce, false, "Skip interactive confirmation")
	f.BoolVar(&cfg.Runtime.DryRun, flags.FlagDryRun, false, "Print the resolved execution plan without executing")

	// Test is read-only and never mixes with the install/import family.
	invokeCmd.MarkFlagsMutuallyExclusive(flags.FlagTest, flags.FlagInstall)
	invokeCmd.MarkFlagsMutuallyExclusive(flags.FlagTest, flags.FlagImport)

	rootCmd.AddCommand(invokeCmd)
}
