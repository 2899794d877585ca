package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "psdepend",
	Short: "Discover declarative dependency definitions and install, import, or test them",
	Long: `PSDepend discovers dependency definition files in a directory tree, parses them
into dependency records, filters them by tag, and executes each record through a
type-specific handler.

Definition files are YAML (requirements.yaml or *.depend.yaml); each top-level key
declares one dependency with its type, version, parameters, tags, and pre/post
scripts.

Examples:
	# Show available commands and global flags
	psdepend --help

	# Install everything declared under the current directory
	psdepend invoke --force

	# Check whether dependencies are satisfied, as a single boolean
	psdepend invoke --test --quiet

	# List dependency types
	psdepend types list

	# Print build info
	psdepend version

Output:
	By default, commands write human-readable output to stdout.
	Some commands support structured output via emitter flags (see each command's --help).`,
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose diagnostics (prints hook and handler details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
