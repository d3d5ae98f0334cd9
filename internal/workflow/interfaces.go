package workflow

import (
	"context"

	"github.com/Backland-Labs/courier/internal/content"
	"github.com/Backland-Labs/courier/internal/delivery"
)

// ContentGenerator drafts the email and chat artifacts of a run
type ContentGenerator interface {
	Email(ctx context.Context, message, sender string) (content.EmailContent, error)
	Chat(ctx context.Context, message, sender string, mentions []string) (string, error)
}

// EmailSender delivers the approved email
type EmailSender interface {
	Send(ctx context.Context, recipients []string, subject, body string) delivery.Result
}

// ChatPoster delivers the approved chat message
type ChatPoster interface {
	Post(ctx context.Context, roomID, text, markdown string, mentions []string) delivery.Result
}
