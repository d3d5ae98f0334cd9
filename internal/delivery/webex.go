package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Backland-Labs/courier/internal/config"
	"github.com/Backland-Labs/courier/internal/logger"
)

const webexTimeout = 30 * time.Second

// WebexPoster posts messages to a Webex space
type WebexPoster struct {
	accessToken string
	apiURL      string
	httpClient  *http.Client
}

// NewWebexPoster creates a WebexPoster. A nil httpClient uses a client with
// a 30 second timeout.
func NewWebexPoster(settings config.WebexSettings, httpClient *http.Client) *WebexPoster {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: webexTimeout}
	}
	apiURL := settings.APIURL
	if apiURL == "" {
		apiURL = config.DefaultWebexAPIURL
	}
	return &WebexPoster{
		accessToken: settings.AccessToken,
		apiURL:      apiURL,
		httpClient:  httpClient,
	}
}

type webexMessage struct {
	RoomID   string `json:"roomId"`
	Text     string `json:"text"`
	Markdown string `json:"markdown,omitempty"`
}

// Post sends text to roomID. Mentions are rendered as inline person tags
// ahead of the markdown body.
func (p *WebexPoster) Post(ctx context.Context, roomID, text, markdown string, mentions []string) Result {
	log := logger.WithField("room_id", roomID)

	payload := webexMessage{RoomID: roomID, Text: text}
	if markdown != "" || len(mentions) > 0 {
		payload.Markdown = renderMarkdown(text, markdown, mentions)
	}

	id, status, respBody, err := p.post(ctx, payload)
	switch {
	case err != nil:
		log.WithError(err).Warn("Webex post failed")
		return Result{Success: false, Message: "Failed to post to Webex: " + err.Error()}
	case status >= http.StatusBadRequest:
		log.WithField("status", status).Warn("Webex API rejected message")
		return Result{Success: false, Message: fmt.Sprintf("Webex API error: %d - %s", status, respBody)}
	}

	log.WithField("message_id", id).Info("Webex message posted")
	return Result{Success: true, Message: "Message posted successfully to Webex", MessageID: id}
}

func (p *WebexPoster) post(ctx context.Context, payload webexMessage) (id string, status int, body string, err error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", 0, "", fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(data))
	if err != nil {
		return "", 0, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", 0, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", resp.StatusCode, "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", resp.StatusCode, string(raw), nil
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &created); err != nil {
		return "", resp.StatusCode, "", fmt.Errorf("failed to decode response: %w", err)
	}
	return created.ID, resp.StatusCode, "", nil
}

func renderMarkdown(text, markdown string, mentions []string) string {
	if markdown == "" {
		markdown = text
	}
	tags := make([]string, 0, len(mentions))
	for _, email := range mentions {
		if email != "" {
			tags = append(tags, "<@personEmail:"+email+">")
		}
	}
	if len(tags) == 0 {
		return markdown
	}
	return strings.Join(tags, " ") + "\n\n" + markdown
}
