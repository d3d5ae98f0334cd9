package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Backland-Labs/courier/internal/config"
	"github.com/Backland-Labs/courier/internal/core"
	"github.com/Backland-Labs/courier/internal/logger"
	"github.com/Backland-Labs/courier/internal/output"
	"github.com/Backland-Labs/courier/internal/workflow"
)

// Default reasons recorded when the reviewer gives none
const (
	reasonRejected        = "User rejected"
	reasonSkipped         = "User skipped"
	reasonCancelledOnEdit = "User cancelled after edit"
)

var errWorkflowFailed = errors.New("workflow failed")

type sendFlags struct {
	sender        string
	emailTo       string
	webexRoom     string
	webexMentions string
	noReview      bool
	dryRun        bool
	verbose       bool
}

// sendCmd represents the send command
type sendCmd struct {
	cmd        *cobra.Command
	deps       *Dependencies
	configPath *string
	flags      sendFlags

	printer  *output.Printer
	prompter *output.Prompter
}

func newSendCmd(deps *Dependencies, configPath *string) *sendCmd {
	sc := &sendCmd{deps: deps, configPath: configPath}

	sc.cmd = &cobra.Command{
		Use:   "send <message>",
		Short: "Transform a message and send it by email and Webex",
		Long: `Transform a message into a formal email and Webex message, then send both.

By default, you'll review and approve the email before sending, then the
Webex message before posting. Use --no-review to skip both reviews.

Examples:
  courier send "We need to push the meeting to next week"
  courier send "Project update" --no-review
  courier send "Meeting postponed" --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: sc.execute,
	}

	f := sc.cmd.Flags()
	f.StringVarP(&sc.flags.sender, "sender", "s", core.DefaultSenderName, "Name of the sender for signatures")
	f.StringVarP(&sc.flags.emailTo, "email-to", "e", "", "Override email recipients (comma-separated)")
	f.StringVarP(&sc.flags.webexRoom, "webex-room", "r", "", "Override Webex room ID")
	f.StringVarP(&sc.flags.webexMentions, "webex-mentions", "m", "", "Override Webex mentions (comma-separated emails)")
	f.BoolVarP(&sc.flags.noReview, "no-review", "y", false, "Skip human review and send immediately")
	f.BoolVarP(&sc.flags.dryRun, "dry-run", "d", false, "Generate messages but don't send them")
	f.BoolVarP(&sc.flags.verbose, "verbose", "v", false, "Show detailed output including generated content")

	return sc
}

// Command returns the cobra command
func (sc *sendCmd) Command() *cobra.Command {
	return sc.cmd
}

func (sc *sendCmd) execute(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	sc.printer = sc.deps.Printer
	sc.prompter = output.NewPrompter(sc.deps.In, sc.printer)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc.printer.Step("AI Communication Workflow")
	sc.printer.Detail("Transforming your message...")

	settings, err := sc.deps.LoadConfig(*sc.configPath)
	if err == nil {
		err = settings.Validate()
	}
	if err != nil {
		sc.printer.Error("Configuration Error: %v", err)
		sc.printer.Warning("Tip: run 'courier init' to create a config file, or set the required environment variables.")
		return err
	}
	logger.InitializeFromConfig(settings)

	engine, flush, err := sc.deps.NewEngine(settings)
	if err != nil {
		sc.printer.Error("Configuration Error: %v", err)
		return err
	}
	defer flush()

	req := workflow.StartRequest{
		Message:         args[0],
		SenderName:      sc.flags.sender,
		EmailRecipients: config.SplitList(sc.flags.emailTo),
		ChatRoomID:      sc.flags.webexRoom,
		ChatMentions:    config.SplitList(sc.flags.webexMentions),
		HumanReview:     !sc.flags.noReview && !sc.flags.dryRun,
	}

	state, err := sc.run(ctx, engine, req)
	if err != nil && !isFailedRun(state) {
		sc.printer.Error("%v", err)
		return err
	}

	return sc.report(state)
}

// run starts the workflow and resolves any review gates it stops at
func (sc *sendCmd) run(ctx context.Context, engine WorkflowEngine, req workflow.StartRequest) (core.RunState, error) {
	if sc.flags.dryRun {
		sc.printer.Notice("Dry run mode - messages will not be sent")
		progress := sc.printer.StartProgress("Generating email and Webex content")
		defer progress.Stop()
		return engine.Preview(ctx, req)
	}

	message := "Running workflow (no review)"
	if req.HumanReview {
		message = "Generating email for review"
	}
	progress := sc.printer.StartProgress(message)
	state, err := engine.Start(ctx, req)
	progress.Stop()
	if err != nil {
		return state, err
	}

	if state.Status == core.StatusAwaitingEmailReview {
		state, err = sc.reviewEmail(ctx, engine, state)
		if err != nil {
			return state, err
		}
	}
	if state.Status == core.StatusAwaitingChatReview {
		state, err = sc.reviewChat(ctx, engine, state)
	}
	return state, err
}

func (sc *sendCmd) reviewEmail(ctx context.Context, engine WorkflowEngine, state core.RunState) (core.RunState, error) {
	sc.printer.EmailReview(state.Email.Subject, state.Email.Body, state.EmailRecipients)
	sc.printer.ReviewOptions("Email Review Options:", "Approve and send", "Edit before sending", "Reject and cancel workflow")

	choice, err := sc.prompter.Choice("Your choice", []string{"a", "e", "r"}, "a")
	if err != nil {
		return state, fmt.Errorf("email review aborted: %w", err)
	}

	switch choice {
	case "a":
		sc.printer.Success("Approving email...")
		return sc.withProgress("Sending email and generating Webex message", func() (core.RunState, error) {
			return engine.ApproveEmail(ctx, state.RunID, workflow.EmailEdit{})
		})

	case "e":
		subject, body, err := sc.editEmail(state.Email.Subject, state.Email.Body)
		if err != nil {
			return state, fmt.Errorf("email review aborted: %w", err)
		}
		sc.printer.Println("Updated Email Preview:")
		sc.printer.EmailReview(subject, body, state.EmailRecipients)

		send, err := sc.prompter.Confirm("Send this edited email?", true)
		if err != nil {
			return state, fmt.Errorf("email review aborted: %w", err)
		}
		if !send {
			sc.printer.Notice("Cancelled.")
			return engine.RejectEmail(ctx, state.RunID, reasonCancelledOnEdit)
		}
		sc.printer.Success("Sending edited email...")
		return sc.withProgress("Sending email and generating Webex message", func() (core.RunState, error) {
			return engine.ApproveEmail(ctx, state.RunID, workflow.EmailEdit{Subject: &subject, Body: &body})
		})

	default:
		reason, err := sc.prompter.Ask("Reason for rejection (optional)", "")
		if err != nil {
			return state, fmt.Errorf("email review aborted: %w", err)
		}
		state, err = engine.RejectEmail(ctx, state.RunID, reasonOr(reason, reasonRejected))
		if err == nil {
			sc.printer.Notice("Email rejected. Workflow cancelled.")
		}
		return state, err
	}
}

func (sc *sendCmd) editEmail(subject, body string) (string, string, error) {
	sc.printer.Println("Edit Mode (press Enter to keep current value)")

	newSubject, err := sc.prompter.Ask("Subject", subject)
	if err != nil {
		return "", "", err
	}

	sc.printer.Detail("Current body:")
	sc.printer.Println(output.Truncate(body, 200))

	editBody, err := sc.prompter.Confirm("Do you want to edit the email body?", false)
	if err != nil {
		return "", "", err
	}
	newBody := body
	if editBody {
		if newBody, err = sc.prompter.MultiLine("Enter new body", body); err != nil {
			return "", "", err
		}
	}
	return newSubject, newBody, nil
}

func (sc *sendCmd) reviewChat(ctx context.Context, engine WorkflowEngine, state core.RunState) (core.RunState, error) {
	sc.printer.ChatReview(state.Chat.Message, state.ChatRoomID, state.ChatMentions)
	sc.printer.ReviewOptions("Webex Message Review Options:", "Approve and post", "Edit before posting", "Skip posting to Webex")

	choice, err := sc.prompter.Choice("Your choice", []string{"a", "e", "r"}, "a")
	if err != nil {
		return state, fmt.Errorf("webex review aborted: %w", err)
	}

	switch choice {
	case "a":
		return sc.withProgress("Posting message to Webex", func() (core.RunState, error) {
			return engine.ApproveChat(ctx, state.RunID, nil)
		})

	case "e":
		sc.printer.Println("Edit Mode")
		sc.printer.Detail("Current message:")
		sc.printer.Println(output.Truncate(state.Chat.Message, 300))

		message := state.Chat.Message
		edit, err := sc.prompter.Confirm("Do you want to edit the Webex message?", false)
		if err == nil && edit {
			message, err = sc.prompter.MultiLine("Enter new message", state.Chat.Message)
		}
		if err != nil {
			return state, fmt.Errorf("webex review aborted: %w", err)
		}

		sc.printer.Println("Updated Webex Message Preview:")
		sc.printer.ChatReview(message, state.ChatRoomID, state.ChatMentions)

		post, err := sc.prompter.Confirm("Post this edited message?", true)
		if err != nil {
			return state, fmt.Errorf("webex review aborted: %w", err)
		}
		if !post {
			sc.printer.Notice("Webex posting cancelled.")
			return engine.RejectChat(ctx, state.RunID, reasonCancelledOnEdit)
		}
		return sc.withProgress("Posting message to Webex", func() (core.RunState, error) {
			return engine.ApproveChat(ctx, state.RunID, &message)
		})

	default:
		reason, err := sc.prompter.Ask("Reason for skipping (optional)", "")
		if err != nil {
			return state, fmt.Errorf("webex review aborted: %w", err)
		}
		state, err = engine.RejectChat(ctx, state.RunID, reasonOr(reason, reasonSkipped))
		if err == nil {
			sc.printer.Notice("Webex posting skipped.")
		}
		return state, err
	}
}

func (sc *sendCmd) withProgress(message string, fn func() (core.RunState, error)) (core.RunState, error) {
	progress := sc.printer.StartProgress(message)
	defer progress.Stop()
	return fn()
}

// report prints the outcome and returns errWorkflowFailed for failed runs
func (sc *sendCmd) report(state core.RunState) error {
	sc.printer.Println()
	if sc.flags.verbose || sc.flags.dryRun {
		sc.printer.GeneratedContent(state)
	}
	sc.printer.Results(state)
	sc.printer.Println()

	switch state.Status {
	case core.StatusCompleted:
		sc.printer.Success("Workflow completed successfully!")
	case core.StatusDryRun:
		sc.printer.Notice("Dry run completed - no messages sent")
	case core.StatusCancelled:
		sc.printer.Notice("Workflow cancelled by user")
	case core.StatusFailed:
		sc.printer.Error("Workflow failed")
		for _, e := range state.Errors {
			sc.printer.Error("  • %s", e)
		}
		return errWorkflowFailed
	}
	return nil
}

func isFailedRun(s core.RunState) bool {
	return s.RunID != "" && s.Status == core.StatusFailed
}

func reasonOr(reason, fallback string) string {
	if reason == "" {
		return fallback
	}
	return reason
}
