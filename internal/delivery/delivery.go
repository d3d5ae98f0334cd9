// Package delivery sends approved content through SMTP and the Webex API.
// Adapters never return errors: every outcome is reported as a Result.
package delivery

import "context"

// Result is the normalised outcome of one delivery attempt
type Result struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	Recipients []string `json:"recipients,omitempty"`
	MessageID  string   `json:"message_id,omitempty"`
}

// EmailSender delivers an email to a list of recipients
type EmailSender interface {
	Send(ctx context.Context, recipients []string, subject, body string) Result
}

// ChatPoster posts a message into a chat space
type ChatPoster interface {
	Post(ctx context.Context, roomID, text, markdown string, mentions []string) Result
}

// SendAsync runs sender.Send in its own goroutine. The channel receives
// exactly one Result and is then closed.
func SendAsync(ctx context.Context, sender EmailSender, recipients []string, subject, body string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- sender.Send(ctx, recipients, subject, body)
	}()
	return ch
}

// PostAsync runs poster.Post in its own goroutine. The channel receives
// exactly one Result and is then closed.
func PostAsync(ctx context.Context, poster ChatPoster, roomID, text, markdown string, mentions []string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- poster.Post(ctx, roomID, text, markdown, mentions)
	}()
	return ch
}
