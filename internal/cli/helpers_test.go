package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/Backland-Labs/courier/internal/config"
	"github.com/Backland-Labs/courier/internal/content"
	"github.com/Backland-Labs/courier/internal/delivery"
	"github.com/Backland-Labs/courier/internal/output"
	"github.com/Backland-Labs/courier/internal/workflow"
)

type testContent struct{}

func (testContent) Email(ctx context.Context, message, sender string) (content.EmailContent, error) {
	return content.EmailContent{Subject: "Meeting rescheduled", Body: "Dear team,\n\nThe meeting moves to Friday.\n\nBest,\n" + sender}, nil
}

func (testContent) Chat(ctx context.Context, message, sender string, mentions []string) (string, error) {
	return "Heads up: the meeting moves to Friday.", nil
}

type sentEmail struct {
	recipients []string
	subject    string
	body       string
}

// testDelivery records deliveries and fails on demand
type testDelivery struct {
	mu        sync.Mutex
	emails    []sentEmail
	posts     []string
	failEmail bool
	failChat  bool
}

func (d *testDelivery) Send(ctx context.Context, recipients []string, subject, body string) delivery.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failEmail {
		return delivery.Result{Message: "SMTP authentication failed: 535 bad credentials"}
	}
	d.emails = append(d.emails, sentEmail{recipients: recipients, subject: subject, body: body})
	return delivery.Result{Success: true, Message: "Email sent successfully to 1 recipient(s)", Recipients: recipients}
}

func (d *testDelivery) Post(ctx context.Context, roomID, text, markdown string, mentions []string) delivery.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failChat {
		return delivery.Result{Message: "Webex API error: 401 - unauthorized"}
	}
	d.posts = append(d.posts, text)
	return delivery.Result{Success: true, Message: "Message posted successfully to Webex", MessageID: "msg-1"}
}

func testSettings() *config.Settings {
	s := config.Defaults()
	s.LLM.ClientID = "client-id-12345678"
	s.LLM.ClientSecret = "client-secret-abcd"
	s.LLM.AppKey = "app-key-87654321"
	s.Email.Username = "bot@example.com"
	s.Email.Password = "password"
	s.Email.From = "bot@example.com"
	s.Email.To = []string{"team@example.com"}
	s.Webex.AccessToken = "webex-token-wxyz"
	s.Webex.RoomID = "room-1"
	s.Webex.MentionEmails = []string{"alice@example.com"}
	s.Server.Port = 0
	return s
}

type testDeps struct {
	deps     *Dependencies
	out      *bytes.Buffer
	errOut   *bytes.Buffer
	delivery *testDelivery
	settings *config.Settings
}

func newTestDeps(t *testing.T, input string) *testDeps {
	t.Helper()
	td := &testDeps{
		out:      &bytes.Buffer{},
		errOut:   &bytes.Buffer{},
		delivery: &testDelivery{},
		settings: testSettings(),
	}
	td.deps = &Dependencies{
		LoadConfig: func(path string) (*config.Settings, error) {
			return td.settings, nil
		},
		NewEngine: func(settings *config.Settings) (WorkflowEngine, func(), error) {
			engine := workflow.NewEngine(testContent{}, td.delivery, td.delivery, workflow.DestinationsFromSettings(settings))
			return engine, func() {}, nil
		},
		In:      strings.NewReader(input),
		Printer: output.NewPrinterWithWriters(td.out, td.errOut, false),
	}
	return td
}

func (td *testDeps) execute(args ...string) error {
	cmd := newRootCommand(td.deps)
	cmd.SetOut(td.out)
	cmd.SetErr(td.errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	return cmd.Execute()
}
