package cli

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Backland-Labs/courier/internal/config"
)

func TestRunServe(t *testing.T) {
	t.Run("stops cleanly when context is canceled", func(t *testing.T) {
		td := newTestDeps(t, "")
		flushed := false
		newEngine := td.deps.NewEngine
		td.deps.NewEngine = func(s *config.Settings) (WorkflowEngine, func(), error) {
			engine, _, err := newEngine(s)
			return engine, func() { flushed = true }, err
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- runServe(ctx, newServeCommand(td.deps, new(string)), td.deps, "", &serveFlags{})
		}()

		time.Sleep(100 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
			assert.True(t, flushed)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
	})

	t.Run("rejects incomplete configuration", func(t *testing.T) {
		td := newTestDeps(t, "")
		td.settings.Webex.AccessToken = ""

		err := runServe(context.Background(), &cobra.Command{}, td.deps, "", &serveFlags{})
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrConfiguration)
	})

	t.Run("port flag is registered", func(t *testing.T) {
		cmd := newServeCommand(newTestDeps(t, "").deps, new(string))
		flag := cmd.Flags().Lookup("port")
		require.NotNil(t, flag)
		assert.Equal(t, "p", flag.Shorthand)
		assert.Equal(t, "0", flag.DefValue)
	})
}
