package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Backland-Labs/courier/internal/core"
	"github.com/Backland-Labs/courier/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts
	DefaultMaxRetries = 3

	// InitialBackoff is the initial retry backoff duration
	InitialBackoff = 100 * time.Millisecond
)

// Client posts lifecycle events as JSON to a webhook endpoint.
// It implements Emitter; every emission is asynchronous.
type Client struct {
	endpoint   string
	httpClient *http.Client
	backoff    time.Duration
	wg         sync.WaitGroup
}

// NewClient creates a new event client that posts to endpoint
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		backoff:    InitialBackoff,
	}
}

// RunStarted posts a RunStarted event
func (c *Client) RunStarted(runID string, humanReview bool) {
	c.PostEventAsync(TypeRunStarted, runID, map[string]interface{}{"humanReview": humanReview})
}

// RunSuspended posts a RunSuspended event
func (c *Client) RunSuspended(runID, gate string) {
	c.PostEventAsync(TypeRunSuspended, runID, map[string]interface{}{"gate": gate})
}

// RunResumed posts a RunResumed event
func (c *Client) RunResumed(runID, gate, decision string) {
	c.PostEventAsync(TypeRunResumed, runID, map[string]interface{}{"gate": gate, "decision": decision})
}

// RunFinished posts a RunFinished event
func (c *Client) RunFinished(runID string, status core.Status) {
	c.PostEventAsync(TypeRunFinished, runID, map[string]interface{}{"status": string(status)})
}

// RunFailed posts a RunError event
func (c *Client) RunFailed(runID string, err error) {
	data := map[string]interface{}{}
	if err != nil {
		data["error"] = err.Error()
	}
	c.PostEventAsync(TypeRunError, runID, data)
}

// PostEvent posts an event synchronously, retrying with linear backoff
func (c *Client) PostEvent(eventType, runID string, eventData map[string]interface{}) error {
	return c.postWithRetry(c.formatEvent(eventType, runID, eventData), DefaultMaxRetries)
}

// PostEventAsync posts an event from a background goroutine. Failures are
// logged and otherwise ignored.
func (c *Client) PostEventAsync(eventType, runID string, eventData map[string]interface{}) {
	event := c.formatEvent(eventType, runID, eventData)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.postWithRetry(event, DefaultMaxRetries); err != nil {
			logger.WithFields(map[string]interface{}{
				"run_id": runID,
				"event":  eventType,
			}).WithError(err).Warn("Failed to deliver lifecycle event")
		}
	}()
}

// Wait blocks until every in-flight asynchronous post has finished
func (c *Client) Wait() {
	c.wg.Wait()
}

func (c *Client) formatEvent(eventType, runID string, eventData map[string]interface{}) map[string]interface{} {
	data := make(map[string]interface{}, len(eventData)+1)
	for k, v := range eventData {
		data[k] = v
	}
	data["runId"] = runID

	return map[string]interface{}{
		"id":        uuid.NewString(),
		"type":      eventType,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}

func (c *Client) postWithRetry(event map[string]interface{}, maxAttempts int) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := c.post(event)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt < maxAttempts {
			time.Sleep(c.backoff * time.Duration(attempt))
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) post(event map[string]interface{}) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return nil
}
