package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Backland-Labs/courier/internal/core"
)

func newRun(status core.Status) core.RunState {
	s := core.NewRunState("run-1", "Meeting moved", "Dana", []string{"a@example.com", "b@example.com"}, "Y2lzY29zcGFyazovL3VzL1JPT00vMTIz", nil, true)
	s.Status = status
	s.Email.Subject = "Meeting rescheduled"
	s.Email.Body = "Dear team"
	return s
}

func TestEmailOutcome(t *testing.T) {
	tests := []struct {
		name        string
		state       func() core.RunState
		wantStatus  string
		wantDetails string
	}{
		{
			name:        "dry run",
			state:       func() core.RunState { return newRun(core.StatusDryRun) },
			wantStatus:  "⏸ Skipped (dry run)",
			wantDetails: "To: a@example.com, b@example.com",
		},
		{
			name: "sent",
			state: func() core.RunState {
				s := newRun(core.StatusCompleted)
				s.Email.Sent = true
				return s
			},
			wantStatus:  "✓ Sent",
			wantDetails: "To: a@example.com, b@example.com",
		},
		{
			name: "sent then chat rejected",
			state: func() core.RunState {
				s := newRun(core.StatusCancelled)
				s.Email.Sent = true
				return s
			},
			wantStatus:  "✓ Sent",
			wantDetails: "To: a@example.com, b@example.com",
		},
		{
			name: "rejected with reason",
			state: func() core.RunState {
				s := newRun(core.StatusCancelled)
				s.Email.RejectionReason = "Wrong tone"
				return s
			},
			wantStatus:  "⏸ Cancelled",
			wantDetails: "Wrong tone",
		},
		{
			name:        "rejected without reason",
			state:       func() core.RunState { return newRun(core.StatusCancelled) },
			wantStatus:  "⏸ Cancelled",
			wantDetails: "User rejected",
		},
		{
			name: "failed",
			state: func() core.RunState {
				s := newRun(core.StatusFailed)
				s.Email.Error = "SMTP error: 550 mailbox unavailable"
				return s
			},
			wantStatus:  "✗ Failed",
			wantDetails: "SMTP error: 550 mailbox unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, details := emailOutcome(tt.state())
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantDetails, details)
		})
	}
}

func TestChatOutcome(t *testing.T) {
	tests := []struct {
		name        string
		state       func() core.RunState
		wantStatus  string
		wantDetails string
	}{
		{
			name: "posted",
			state: func() core.RunState {
				s := newRun(core.StatusCompleted)
				s.Chat.Message = "hi"
				s.Chat.Posted = true
				return s
			},
			wantStatus:  "✓ Posted",
			wantDetails: "Room: Y2lzY29zcGFyazovL3Vz...",
		},
		{
			name: "skipped",
			state: func() core.RunState {
				s := newRun(core.StatusCancelled)
				s.Chat.Message = "hi"
				s.Chat.RejectionReason = "User skipped"
				return s
			},
			wantStatus:  "⏸ Cancelled",
			wantDetails: "User skipped",
		},
		{
			name: "failed",
			state: func() core.RunState {
				s := newRun(core.StatusCompleted)
				s.Chat.Message = "hi"
				s.Chat.Error = "Webex API error: 401 - unauthorized"
				return s
			},
			wantStatus:  "✗ Failed",
			wantDetails: "Webex API error: 401 - unauthorized",
		},
		{
			name:        "never generated",
			state:       func() core.RunState { return newRun(core.StatusFailed) },
			wantStatus:  "Not generated",
			wantDetails: "Room: Y2lzY29zcGFyazovL3Vz...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, details := chatOutcome(tt.state())
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantDetails, details)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 20))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "ééé...", Truncate("éééé", 3))
}

func TestReviewPanels(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinterWithWriters(&out, &out, false)

	p.EmailReview("Meeting rescheduled", "Dear team", []string{"a@example.com", "b@example.com"})
	p.ChatReview("Heads up", "room-1", nil)

	got := out.String()
	assert.Contains(t, got, "Generated Email - Please Review")
	assert.Contains(t, got, "To: a@example.com, b@example.com")
	assert.Contains(t, got, "Subject: Meeting rescheduled")
	assert.Contains(t, got, "Dear team")
	assert.Contains(t, got, "Generated Webex Message - Please Review")
	assert.Contains(t, got, "Mentions: (none)")
	assert.Contains(t, got, "Heads up")
}

func TestResultsAndSettingsTables(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinterWithWriters(&out, &out, false)

	s := newRun(core.StatusCompleted)
	s.Email.Sent = true
	p.Results(s)
	p.Settings([]Row{
		{Name: "SMTP Host", Valid: true, Value: "smtp.gmail.com"},
		{Name: "Webex Token", Valid: false, Value: "Not set"},
	})

	got := out.String()
	for _, want := range []string{"Workflow Results", "Channel", "Details", "Email", "✓ Sent", "Webex",
		"Configuration Status", "SMTP Host", "smtp.gmail.com", "✗", "Not set"} {
		assert.Contains(t, got, want)
	}
}
