package docs_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readReadme(t *testing.T) string {
	t.Helper()
	content, err := os.ReadFile("../../README.md")
	require.NoError(t, err, "Failed to read README.md")
	return string(content)
}

// TestReadmeDocumentsRESTAPI verifies every HTTP route is documented
func TestReadmeDocumentsRESTAPI(t *testing.T) {
	doc := readReadme(t)

	t.Run("REST API Server Usage Section", func(t *testing.T) {
		assert.Contains(t, doc, "## REST API Server Usage")
		assert.Contains(t, doc, "courier serve")
	})

	t.Run("Endpoints", func(t *testing.T) {
		endpoints := []string{
			"/health",
			"/runs",
			"/runs/{id}",
			"/runs/{id}/email/approve",
			"/runs/{id}/email/reject",
			"/runs/{id}/chat/approve",
			"/runs/{id}/chat/reject",
		}
		for _, ep := range endpoints {
			assert.Contains(t, doc, "`"+ep+"`", "README.md missing endpoint %s", ep)
		}
	})

	t.Run("Curl Examples", func(t *testing.T) {
		for _, example := range []string{"curl -X POST", "Content-Type", "application/json"} {
			assert.Contains(t, doc, example)
		}
	})

	t.Run("Error Statuses", func(t *testing.T) {
		for _, status := range []string{"| 400 |", "| 404 |", "| 409 |", "| 422 |", "| 502 |"} {
			assert.Contains(t, doc, status)
		}
	})
}

// TestReadmeDocumentsCLI verifies the commands and send flags are documented
func TestReadmeDocumentsCLI(t *testing.T) {
	doc := readReadme(t)

	for _, cmd := range []string{"courier init", "courier check-config", "courier send", "courier serve"} {
		assert.Contains(t, doc, cmd)
	}
	for _, flag := range []string{"--no-review", "--dry-run", "--verbose"} {
		assert.Contains(t, doc, flag)
	}
	assert.True(t, strings.Contains(doc, "`a` (approve)") && strings.Contains(doc, "`r` (reject)"),
		"README.md should describe the review choices")
}

// TestReadmeDocumentsRequiredEnvironment verifies required variables are listed
func TestReadmeDocumentsRequiredEnvironment(t *testing.T) {
	doc := readReadme(t)

	required := []string{
		"CISCO_CLIENT_ID", "SMTP_PASSWORD", "EMAIL_FROM",
		"EMAIL_TO", "WEBEX_ACCESS_TOKEN", "WEBEX_ROOM_ID",
	}
	for _, v := range required {
		assert.Contains(t, doc, v)
	}
}
