package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Backland-Labs/courier/internal/config"
)

func TestSendWithoutReview(t *testing.T) {
	td := newTestDeps(t, "")

	err := td.execute("send", "Meeting moved to Friday", "--no-review", "--sender", "Dana")
	require.NoError(t, err)

	require.Len(t, td.delivery.emails, 1)
	assert.Equal(t, []string{"team@example.com"}, td.delivery.emails[0].recipients)
	assert.Contains(t, td.delivery.emails[0].body, "Dana")
	require.Len(t, td.delivery.posts, 1)

	out := td.out.String()
	assert.Contains(t, out, "✓ Sent")
	assert.Contains(t, out, "✓ Posted")
	assert.Contains(t, out, "Workflow completed successfully!")
	assert.NotContains(t, out, "Please Review")
}

func TestSendApproveBoth(t *testing.T) {
	td := newTestDeps(t, "a\na\n")

	require.NoError(t, td.execute("send", "Meeting moved to Friday"))

	require.Len(t, td.delivery.emails, 1)
	assert.Equal(t, "Meeting rescheduled", td.delivery.emails[0].subject)
	assert.Equal(t, []string{"Heads up: the meeting moves to Friday."}, td.delivery.posts)

	out := td.out.String()
	assert.Contains(t, out, "Generated Email - Please Review")
	assert.Contains(t, out, "Generated Webex Message - Please Review")
	assert.Contains(t, out, "Workflow completed successfully!")
}

func TestSendRejectEmail(t *testing.T) {
	td := newTestDeps(t, "r\nWrong tone\n")

	require.NoError(t, td.execute("send", "Meeting moved"))

	assert.Empty(t, td.delivery.emails)
	assert.Empty(t, td.delivery.posts)
	out := td.out.String()
	assert.Contains(t, out, "Email rejected. Workflow cancelled.")
	assert.Contains(t, out, "Wrong tone")
	assert.Contains(t, out, "Workflow cancelled by user")
	assert.NotContains(t, out, "Generated Webex Message - Please Review")
}

func TestSendRejectEmailDefaultReason(t *testing.T) {
	td := newTestDeps(t, "r\n\n")

	require.NoError(t, td.execute("send", "Meeting moved"))
	assert.Contains(t, td.out.String(), reasonRejected)
}

func TestSendEditEmail(t *testing.T) {
	td := newTestDeps(t, "e\nNew subject\ny\nLine 1\nLine 2\nEND\n\na\n")

	require.NoError(t, td.execute("send", "Meeting moved"))

	require.Len(t, td.delivery.emails, 1)
	assert.Equal(t, "New subject", td.delivery.emails[0].subject)
	assert.Equal(t, "Line 1\nLine 2", td.delivery.emails[0].body)
	assert.Contains(t, td.out.String(), "Updated Email Preview:")
	assert.Len(t, td.delivery.posts, 1)
}

func TestSendCancelAfterEdit(t *testing.T) {
	td := newTestDeps(t, "e\n\nn\nn\n")

	require.NoError(t, td.execute("send", "Meeting moved"))

	assert.Empty(t, td.delivery.emails)
	out := td.out.String()
	assert.Contains(t, out, "Cancelled.")
	assert.Contains(t, out, reasonCancelledOnEdit)
}

func TestSendSkipChat(t *testing.T) {
	td := newTestDeps(t, "a\nr\n\n")

	require.NoError(t, td.execute("send", "Meeting moved"))

	assert.Len(t, td.delivery.emails, 1)
	assert.Empty(t, td.delivery.posts)
	out := td.out.String()
	assert.Contains(t, out, "Webex posting skipped.")
	assert.Contains(t, out, reasonSkipped)
	assert.Contains(t, out, "✓ Sent")
}

func TestSendEditChat(t *testing.T) {
	td := newTestDeps(t, "a\ne\ny\nEdited announcement\nEND\ny\n")

	require.NoError(t, td.execute("send", "Meeting moved"))

	assert.Equal(t, []string{"Edited announcement"}, td.delivery.posts)
	assert.Contains(t, td.out.String(), "Updated Webex Message Preview:")
}

func TestSendDryRun(t *testing.T) {
	td := newTestDeps(t, "")

	require.NoError(t, td.execute("send", "Meeting moved", "--dry-run"))

	assert.Empty(t, td.delivery.emails)
	assert.Empty(t, td.delivery.posts)
	out := td.out.String()
	assert.Contains(t, out, "Dry run mode - messages will not be sent")
	assert.Contains(t, out, "Generated Email")
	assert.Contains(t, out, "Heads up: the meeting moves to Friday.")
	assert.Contains(t, out, "Skipped (dry run)")
	assert.Contains(t, out, "Dry run completed - no messages sent")
}

func TestSendFailedRunExitsWithError(t *testing.T) {
	td := newTestDeps(t, "")
	td.delivery.failEmail = true
	td.delivery.failChat = true

	err := td.execute("send", "Meeting moved", "-y")
	assert.ErrorIs(t, err, errWorkflowFailed)

	errOut := td.errOut.String()
	assert.Contains(t, errOut, "Workflow failed")
	assert.Contains(t, errOut, "Email: SMTP authentication failed: 535 bad credentials")
	assert.Contains(t, errOut, "Webex: Webex API error: 401 - unauthorized")
}

func TestSendPartialDeliveryCompletes(t *testing.T) {
	td := newTestDeps(t, "")
	td.delivery.failChat = true

	require.NoError(t, td.execute("send", "Meeting moved", "-y"))
	assert.Contains(t, td.out.String(), "Webex API error: 401 - unauthorized")
}

func TestSendOverrides(t *testing.T) {
	td := newTestDeps(t, "")

	err := td.execute("send", "Meeting moved", "-y",
		"--email-to", "a@example.com, ,b@example.com",
		"--webex-room", "room-9",
		"--webex-mentions", "c@example.com")
	require.NoError(t, err)

	require.Len(t, td.delivery.emails, 1)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, td.delivery.emails[0].recipients)
	assert.Contains(t, td.out.String(), "Room: room-9")
}

func TestSendConfigurationError(t *testing.T) {
	td := newTestDeps(t, "")
	td.settings.Email.Password = ""
	td.settings.Webex.AccessToken = ""

	err := td.execute("send", "Meeting moved")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfiguration)
	assert.Contains(t, td.errOut.String(), "Configuration Error: missing required configuration: SMTP_PASSWORD, WEBEX_ACCESS_TOKEN")
	assert.Empty(t, td.delivery.emails)
}

func TestSendLoadError(t *testing.T) {
	td := newTestDeps(t, "")
	td.deps.LoadConfig = func(path string) (*config.Settings, error) {
		return nil, errors.New("invalid LLM_TEMPERATURE")
	}

	err := td.execute("send", "Meeting moved")
	require.Error(t, err)
	assert.Contains(t, td.errOut.String(), "invalid LLM_TEMPERATURE")
}

func TestSendAbortsWhenInputCloses(t *testing.T) {
	td := newTestDeps(t, "")

	err := td.execute("send", "Meeting moved")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email review aborted")
	assert.Empty(t, td.delivery.emails)
}

func TestSendPassesConfigPath(t *testing.T) {
	td := newTestDeps(t, "")
	var got string
	td.deps.LoadConfig = func(path string) (*config.Settings, error) {
		got = path
		return td.settings, nil
	}

	require.NoError(t, td.execute("--config", "custom.yaml", "send", "hi", "-y"))
	assert.Equal(t, "custom.yaml", got)
}
