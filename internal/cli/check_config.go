package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Backland-Labs/courier/internal/config"
	"github.com/Backland-Labs/courier/internal/output"
)

var errConfigIncomplete = errors.New("configuration incomplete")

func newCheckConfigCommand(deps *Dependencies, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Verify that all required configuration is present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			printer := deps.Printer

			printer.Step("Checking configuration...")
			settings, err := deps.LoadConfig(*configPath)
			if err != nil {
				printer.Error("Configuration Error: %v", err)
				return err
			}

			rows := settingsRows(settings)
			printer.Settings(rows)
			printer.Println()

			for _, r := range rows {
				if !r.Valid {
					printer.Error("Some configuration is missing. Run 'courier init' for a sample config file.")
					return errConfigIncomplete
				}
			}
			printer.Success("All configuration is valid!")
			return nil
		},
	}
}

// settingsRows lists every setting with secrets masked
func settingsRows(s *config.Settings) []output.Row {
	var rows []output.Row
	add := func(name string, valid bool, value string) {
		rows = append(rows, output.Row{Name: name, Valid: valid, Value: value})
	}

	add("LLM Provider", true, s.LLM.Provider)
	if s.LLM.Provider == config.ProviderAnthropic {
		add("Anthropic API Key", s.LLM.AnthropicAPIKey != "", maskSecret(s.LLM.AnthropicAPIKey, 4))
		add("Anthropic Model", true, s.LLM.AnthropicModel)
	} else {
		add("Cisco Client ID", s.LLM.ClientID != "", maskSecret(s.LLM.ClientID, 8))
		add("Cisco Client Secret", s.LLM.ClientSecret != "", maskSecret(s.LLM.ClientSecret, 4))
		add("Cisco App Key", s.LLM.AppKey != "", maskSecret(s.LLM.AppKey, 8))
		add("Cisco Token URL", true, output.Truncate(s.LLM.TokenURL, 40))
		add("Cisco API URL", true, output.Truncate(s.LLM.APIURL, 40))
	}
	add("LLM Temperature", true, strconv.FormatFloat(s.LLM.Temperature, 'g', -1, 64))
	if s.LLM.MaxTokens > 0 {
		add("LLM Max Tokens", true, strconv.Itoa(s.LLM.MaxTokens))
	}

	add("SMTP Host", s.Email.SMTPHost != "", s.Email.SMTPHost)
	add("SMTP Port", s.Email.SMTPPort != 0, strconv.Itoa(s.Email.SMTPPort))
	add("SMTP Username", s.Email.Username != "", orNotSet(s.Email.Username))
	add("SMTP Password", s.Email.Password != "", maskAll(s.Email.Password))
	add("Email From", s.Email.From != "", orNotSet(s.Email.From))
	add("Email Recipients", len(s.Email.To) > 0, orNotSet(strings.Join(s.Email.To, ", ")))

	add("Webex Token", s.Webex.AccessToken != "", maskSecret(s.Webex.AccessToken, 4))
	add("Webex Room ID", s.Webex.RoomID != "", orNotSet(output.Truncate(s.Webex.RoomID, 20)))
	mentions := "(none)"
	if len(s.Webex.MentionEmails) > 0 {
		mentions = strings.Join(s.Webex.MentionEmails, ", ")
	}
	add("Webex Mentions", true, mentions)

	if s.EventsEndpoint != "" {
		add("Events Endpoint", true, s.EventsEndpoint)
	}
	add("HTTP Port", true, fmt.Sprint(s.Server.Port))
	return rows
}

// maskSecret shows only the last n characters of value
func maskSecret(value string, n int) string {
	if value == "" {
		return "Not set"
	}
	if len(value) <= n {
		return "****"
	}
	return "****" + value[len(value)-n:]
}

func maskAll(value string) string {
	if value == "" {
		return "Not set"
	}
	return "****"
}

func orNotSet(value string) string {
	if value == "" {
		return "Not set"
	}
	return value
}
