package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Plork/PSDepend/internal/dependency"
	"github.com/Plork/PSDepend/internal/types"
)

var typesListQuiet bool
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Manage and list dependency types",
	Long: `Manage PSDepend dependency types.

This command group helps you discover which handlers exist and what each one does.
A definition file selects a handler through its 'type' field (see "psdepend invoke --help").

Examples:
  # List all available dependency types
  psdepend types list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var typesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available dependency types",
	Long: `List all dependency handlers currently registered in this build.

Handlers are sorted by name.

Examples:
  psdepend types list

Output:
  A vertical list of handlers:
    ----------------------------------------
    TYPE: {NAME}    supports: {ACTIONS}
    ----------------------------------------
    {DESCRIPTION}
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, h := range types.List() {
			if typesListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), h.Name())
			} else {
				printHandler(cmd.OutOrStdout(), h)
			}
		}
		return nil
	},
}

var typesShowCmd = &cobra.Command{
	Use:   "show [type-name]",
	Short: "Show details of a specific dependency type",
	Long: `Show details of a specific dependency type by its name.

Examples:
  psdepend types show filesystem
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := types.Resolve(args[0])
		if err != nil {
			return err
		}
		printHandler(cmd.OutOrStdout(), h)
		return nil
	},
}

func printHandler(w io.Writer, h types.Handler) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "TYPE: %s", h.Name())
	fmt.Fprintf(w, "    supports: %s\n", formatActions(h.Supports()))
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, h.Description())

	if ch, ok := h.(types.ConfigurableHandler); ok {
		opts := ch.Options()
		if len(opts) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Options:")
			for _, opt := range opts {
				def := opt.Default
				if def == "" {
					def = "\"\""
				}
				fmt.Fprintf(w, "  %s\n", opt.Name)
				fmt.Fprintf(w, "    Description: %s\n", opt.Description)
				fmt.Fprintf(w, "    Default:     %s\n", def)
			}
		}
	}
	fmt.Fprintln(w)
}

func formatActions(actions []dependency.Action) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, string(a))
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesCmd.AddCommand(typesListCmd)
	typesListCmd.Flags().BoolVarP(&typesListQuiet, "quiet", "q", false, "Only print type names")
	typesCmd.AddCommand(typesShowCmd)
}
