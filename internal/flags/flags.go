package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// engine. Keeping these as constants helps avoid drift between Cobra flag
// wiring and other code paths that need to reference flags.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringSliceVar(&cfg.Targeting.Paths, flags.FlagPath, nil, "...")
//	arg := "--" + flags.FlagPath
const (
	// Targeting
	FlagPath    = "path"
	FlagRecurse = "recurse"
	FlagTags    = "tags"

	// Actions
	FlagInstall = "install"
	FlagImport  = "import"
	FlagTest    = "test"
	FlagQuiet   = "quiet"

	// Types
	FlagTypeMap = "type-map"

	// Output
	FlagConsoleFormat       = "console-format"
	FlagConsoleFilterStatus = "console-filter-status"
	FlagOut                 = "out"
	FlagOutFormat           = "out-format"
	FlagEmit                = "emit"
	FlagNoConsole           = "no-console"

	// Runtime
	FlagForce  = "force"
	FlagDryRun = "dry-run"
)
