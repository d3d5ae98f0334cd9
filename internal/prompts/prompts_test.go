package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailSystem(t *testing.T) {
	p := EmailSystem()
	assert.Contains(t, p, "SUBJECT:")
	assert.Contains(t, p, "---")
	assert.Equal(t, p, EmailSystem())
}

func TestChatSystem(t *testing.T) {
	p := ChatSystem()
	assert.Contains(t, p, "markdown")
	assert.NotEqual(t, "", p)
	assert.NotContains(t, p, "SUBJECT:")
}
