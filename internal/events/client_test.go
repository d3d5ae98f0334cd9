package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Backland-Labs/courier/internal/core"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []map[string]interface{}
}

func (r *eventRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			t.Errorf("expected POST request, got %s", req.Method)
		}
		var event map[string]interface{}
		if err := json.NewDecoder(req.Body).Decode(&event); err != nil {
			t.Errorf("failed to decode event: %v", err)
		}
		r.mu.Lock()
		r.events = append(r.events, event)
		r.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}
}

func (r *eventRecorder) all() []map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]map[string]interface{}{}, r.events...)
}

func TestClientPostEvent(t *testing.T) {
	rec := &eventRecorder{}
	srv := httptest.NewServer(rec.handler(t))
	defer srv.Close()

	client := NewClient(srv.URL)
	require.NoError(t, client.PostEvent(TypeRunSuspended, "run-123", map[string]interface{}{"gate": "email"}))

	events := rec.all()
	require.Len(t, events, 1)
	event := events[0]
	assert.Equal(t, TypeRunSuspended, event["type"])
	assert.NotEmpty(t, event["id"])

	data := event["data"].(map[string]interface{})
	assert.Equal(t, "run-123", data["runId"])
	assert.Equal(t, "email", data["gate"])

	ts, err := time.Parse(time.RFC3339, event["timestamp"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestClientEmitterMethodsPostAsync(t *testing.T) {
	rec := &eventRecorder{}
	srv := httptest.NewServer(rec.handler(t))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.RunStarted("run-1", true)
	client.RunResumed("run-1", "chat", "approved")
	client.RunFinished("run-1", core.StatusCompleted)
	client.RunFailed("run-2", errors.New("boom"))
	client.Wait()

	events := rec.all()
	require.Len(t, events, 4)

	byType := map[string]map[string]interface{}{}
	for _, e := range events {
		byType[e["type"].(string)] = e["data"].(map[string]interface{})
	}
	assert.Equal(t, true, byType[TypeRunStarted]["humanReview"])
	assert.Equal(t, "approved", byType[TypeRunResumed]["decision"])
	assert.Equal(t, "completed", byType[TypeRunFinished]["status"])
	assert.Equal(t, "boom", byType[TypeRunError]["error"])
	assert.Equal(t, "run-2", byType[TypeRunError]["runId"])
}

func TestClientRetries(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.backoff = time.Millisecond

	require.NoError(t, client.PostEvent(TypeRunStarted, "run-1", nil))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestClientGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.backoff = time.Millisecond

	err := client.PostEvent(TypeRunStarted, "run-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.Contains(t, err.Error(), "server returned status 500")
}
