// Package events emits run lifecycle events. Emission is best-effort and
// never influences run state.
package events

import (
	"sync"
	"time"

	"github.com/Backland-Labs/courier/internal/core"
)

// Event type names
const (
	TypeRunStarted   = "RunStarted"
	TypeRunSuspended = "RunSuspended"
	TypeRunResumed   = "RunResumed"
	TypeRunFinished  = "RunFinished"
	TypeRunError     = "RunError"
)

// Emitter receives lifecycle notifications from the workflow engine
type Emitter interface {
	// RunStarted is called when a run is created
	RunStarted(runID string, humanReview bool)

	// RunSuspended is called when a run parks at a review gate
	RunSuspended(runID, gate string)

	// RunResumed is called when a decision is applied to a gate
	RunResumed(runID, gate, decision string)

	// RunFinished is called when a run reaches a terminal status
	RunFinished(runID string, status core.Status)

	// RunFailed is called when content generation aborts a run
	RunFailed(runID string, err error)
}

// NoOpEmitter discards every event
type NoOpEmitter struct{}

// NewNoOpEmitter creates a new no-op emitter
func NewNoOpEmitter() *NoOpEmitter {
	return &NoOpEmitter{}
}

// RunStarted does nothing
func (n *NoOpEmitter) RunStarted(runID string, humanReview bool) {}

// RunSuspended does nothing
func (n *NoOpEmitter) RunSuspended(runID, gate string) {}

// RunResumed does nothing
func (n *NoOpEmitter) RunResumed(runID, gate, decision string) {}

// RunFinished does nothing
func (n *NoOpEmitter) RunFinished(runID string, status core.Status) {}

// RunFailed does nothing
func (n *NoOpEmitter) RunFailed(runID string, err error) {}

// MockCall represents a single method call to the MockEmitter
type MockCall struct {
	Method    string
	RunID     string
	Gate      string
	Decision  string
	Status    core.Status
	Error     error
	Timestamp time.Time
}

// MockEmitter records every call for verification in tests
type MockEmitter struct {
	mu    sync.Mutex
	Calls []MockCall
}

// NewMockEmitter creates a new mock emitter for testing
func NewMockEmitter() *MockEmitter {
	return &MockEmitter{Calls: make([]MockCall, 0)}
}

func (m *MockEmitter) record(call MockCall) {
	call.Timestamp = time.Now()
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	m.mu.Unlock()
}

// RunStarted records a RunStarted call
func (m *MockEmitter) RunStarted(runID string, humanReview bool) {
	m.record(MockCall{Method: TypeRunStarted, RunID: runID})
}

// RunSuspended records a RunSuspended call
func (m *MockEmitter) RunSuspended(runID, gate string) {
	m.record(MockCall{Method: TypeRunSuspended, RunID: runID, Gate: gate})
}

// RunResumed records a RunResumed call
func (m *MockEmitter) RunResumed(runID, gate, decision string) {
	m.record(MockCall{Method: TypeRunResumed, RunID: runID, Gate: gate, Decision: decision})
}

// RunFinished records a RunFinished call
func (m *MockEmitter) RunFinished(runID string, status core.Status) {
	m.record(MockCall{Method: TypeRunFinished, RunID: runID, Status: status})
}

// RunFailed records a RunError call
func (m *MockEmitter) RunFailed(runID string, err error) {
	m.record(MockCall{Method: TypeRunError, RunID: runID, Error: err})
}

// Methods returns the recorded method names in call order
func (m *MockEmitter) Methods() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = c.Method
	}
	return out
}

// FindCallsByMethod returns all calls matching the given method name
func (m *MockEmitter) FindCallsByMethod(method string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var filtered []MockCall
	for _, call := range m.Calls {
		if call.Method == method {
			filtered = append(filtered, call)
		}
	}
	return filtered
}
