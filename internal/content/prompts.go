package content

import "fmt"

const (
	separator          = "---"
	subjectLabel       = "SUBJECT:"
	placeholderSubject = "Update"
)

func emailUserPrompt(message, sender string) string {
	return fmt.Sprintf("Transform this message into a formal email:\n\nOriginal message: %s\n\nThe email should be signed by: %s", message, sender)
}

func chatUserPrompt(message, sender string, mentions []string) string {
	return fmt.Sprintf("Transform this message into a Webex space message addressed to %s:\n\nOriginal message: %s\n\nFrom: %s", MentionNames(mentions), message, sender)
}
