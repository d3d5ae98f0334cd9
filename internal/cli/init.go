package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Backland-Labs/courier/internal/config"
	"github.com/Backland-Labs/courier/internal/output"
)

const defaultConfigFile = "courier.yaml"

func newInitCommand() *cobra.Command {
	var force bool
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample config file with all configuration options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := output.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), false)
			return writeSampleConfig(printer, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.Flags().StringVarP(&path, "output", "o", defaultConfigFile, "Path of the config file to create")

	return cmd
}

func writeSampleConfig(printer *output.Printer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(config.SampleYAML()), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	printer.Success("Created %s with sample configuration.", path)
	printer.Println()
	printer.Println("Please edit the file with your actual credentials:")
	printer.Detail("1. Add your Cisco Bridge API credentials (client_id, client_secret, app_key)")
	printer.Detail("2. Configure SMTP settings for email")
	printer.Detail("3. Add your Webex bot token and room ID")
	printer.Println()
	printer.Println(fmt.Sprintf("Then run 'courier check-config --config %s' to verify.", path))
	return nil
}
