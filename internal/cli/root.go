// Package cli implements the courier command line: send runs the two-stage
// workflow with interactive review, serve exposes it over HTTP.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Execute runs the CLI
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand creates the root command with production dependencies
func NewRootCommand() *cobra.Command {
	return newRootCommand(NewRealDependencies())
}

func newRootCommand(deps *Dependencies) *cobra.Command {
	var showVersion bool
	var configPath string

	cmd := &cobra.Command{
		Use:   "courier",
		Short: "Courier - AI-powered email and Webex announcements",
		Long: `Courier - AI-powered email and Webex announcements

Courier turns an informal message into a formal email and a Webex space
message, lets you review each one, and then delivers them.

Examples:
  courier send "We need to push the meeting to next week"
  courier send "Project update" --no-review
  courier send "Meeting postponed" --dry-run
  courier check-config
  courier serve --port 3001`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "courier version "+version)
				return err
			}
			return cmd.Help()
		},
	}

	cmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $COURIER_CONFIG)")

	cmd.AddCommand(newSendCmd(deps, &configPath).Command())
	cmd.AddCommand(newCheckConfigCommand(deps, &configPath))
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newServeCommand(deps, &configPath))

	return cmd
}
