package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect
	// invoke behavior, keep the CLI flags in internal/cli/invoke.go in sync.
	Targeting Targeting
	Actions   Actions
	Types     Types
	Output    Output
	Runtime   Runtime
}

type Targeting struct {
	// Paths are root files or directories to search for definition files
	// (see --path). Values may be repeated and/or comma-separated.
	Paths []string

	// Recurse searches directories recursively (see --recurse).
	Recurse bool

	// Tags filters dependencies; a dependency must carry every requested
	// tag (see --tags). Values may be repeated and/or comma-separated.
	Tags []string
}

type Actions struct {
	// Install runs the install action (see --install). Defaults to true
	// when neither --install nor --import is given and --test is absent.
	Install bool

	// Import runs the import action (see --import).
	Import bool

	// Test checks whether dependencies are already satisfied (see --test).
	// Test never mixes with Install/Import; the CLI enforces exclusivity.
	Test bool

	// Quiet, with Test, suppresses per-dependency output and reduces the
	// run to a single boolean verdict (see --quiet).
	Quiet bool
}

type Types struct {
	// MapPath is a YAML file remapping declared dependency types to
	// registered handler names (see --type-map).
	MapPath string
}

type Output struct {
	// ConsoleFormat controls the human-facing console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilterStatus filters console output by result status (see --console-filter-status).
	// Allowed values: INSTALLED, IMPORTED, SATISFIED, NOTSATISFIED, SKIPPED, ERROR.
	ConsoleFilterStatus []string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the --out file extension.
	OutFormat string

	// Emit writes an additional structured event stream to stdout (see --emit).
	// Allowed values: json, ndjson.
	Emit []string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

type Runtime struct {
	// Force skips interactive confirmation (see --force).
	Force bool

	// DryRun resolves and prints the execution plan without executing (see --dry-run).
	DryRun bool

	// Verbose enables more detailed diagnostics.
	Verbose bool
}

func New() *Config {
	return &Config{
		Targeting: Targeting{
			Paths: []string{"."},
		},
		Output: Output{
			ConsoleFormat: "text",
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Targeting.Paths = splitCommaList(c.Targeting.Paths)
	c.Targeting.Tags = splitCommaList(c.Targeting.Tags)
	c.Output.ConsoleFilterStatus = splitCommaList(c.Output.ConsoleFilterStatus)

	if len(c.Targeting.Paths) == 0 {
		c.Targeting.Paths = []string{"."}
	}

	// Action family validation. Test is read-only and never mixes with the
	// install/import family; the CLI already declares the flags mutually
	// exclusive, this is the backstop for programmatic callers.
	if c.Actions.Test && (c.Actions.Install || c.Actions.Import) {
		return errors.New("--test is mutually exclusive with --install and --import")
	}
	if !c.Actions.Test && !c.Actions.Install && !c.Actions.Import {
		c.Actions.Install = true
	}
	if c.Actions.Quiet && !c.Actions.Test {
		return errors.New("--quiet requires --test")
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		c.Output.ConsoleFormat = "text"
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for i, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", emit)
		}
		c.Output.Emit[i] = v
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson", ".jsonl":
				c.Output.OutFormat = "ndjson"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else {
			if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
				return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
			}
		}
	}

	return nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// splitCommaList flattens repeated flags and comma-separated values into a
// single trimmed list.
func splitCommaList(values []string) []string {
	var out []string
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
