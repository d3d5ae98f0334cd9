package cli

import (
	"context"
	"io"
	"os"

	"github.com/Backland-Labs/courier/internal/config"
	"github.com/Backland-Labs/courier/internal/content"
	"github.com/Backland-Labs/courier/internal/core"
	"github.com/Backland-Labs/courier/internal/delivery"
	"github.com/Backland-Labs/courier/internal/events"
	"github.com/Backland-Labs/courier/internal/llm"
	"github.com/Backland-Labs/courier/internal/output"
	"github.com/Backland-Labs/courier/internal/server"
	"github.com/Backland-Labs/courier/internal/workflow"
)

// WorkflowEngine is the run surface the commands drive
type WorkflowEngine interface {
	server.RunEngine
	Preview(ctx context.Context, req workflow.StartRequest) (core.RunState, error)
}

// Dependencies struct for injection
type Dependencies struct {
	LoadConfig func(path string) (*config.Settings, error)
	NewEngine  func(settings *config.Settings) (WorkflowEngine, func(), error)
	In         io.Reader
	Printer    *output.Printer
}

// NewRealDependencies creates production dependencies
func NewRealDependencies() *Dependencies {
	return &Dependencies{
		LoadConfig: config.Load,
		NewEngine:  newEngine,
		In:         os.Stdin,
		Printer:    output.NewPrinter(),
	}
}

// newEngine wires the configured LLM, delivery adapters and event sink.
// The returned func flushes pending events.
func newEngine(settings *config.Settings) (WorkflowEngine, func(), error) {
	gen, err := llm.New(settings.LLM)
	if err != nil {
		return nil, nil, err
	}

	var emitter events.Emitter = events.NewNoOpEmitter()
	flush := func() {}
	if settings.EventsEndpoint != "" {
		client := events.NewClient(settings.EventsEndpoint)
		emitter = client
		flush = client.Wait
	}

	engine := workflow.NewEngine(
		content.NewGenerator(gen),
		delivery.NewSMTPSender(settings.Email),
		delivery.NewWebexPoster(settings.Webex, nil),
		workflow.DestinationsFromSettings(settings),
		workflow.WithEmitter(emitter),
	)
	return engine, flush, nil
}
