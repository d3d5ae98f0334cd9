package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Backland-Labs/courier/internal/config"
	"github.com/Backland-Labs/courier/internal/logger"
)

const (
	// tokenEarlyExpiry refreshes the access token this long before it expires
	tokenEarlyExpiry = 5 * time.Minute
	// defaultTokenLifetime applies when the token endpoint omits expires_in
	defaultTokenLifetime = time.Hour
	stopSequence         = "<|im_end|>"
)

// BridgeClient calls an OpenAI-style chat completions endpoint authenticated
// with an OAuth2 client-credentials token.
type BridgeClient struct {
	apiURL      string
	appKey      string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	tokens      oauth2.TokenSource
}

// NewBridgeClient creates a BridgeClient. Tokens are cached and refreshed
// shortly before expiry; concurrent refreshes share one round trip.
func NewBridgeClient(settings config.LLMSettings, httpClient *http.Client) (*BridgeClient, error) {
	if settings.ClientID == "" || settings.ClientSecret == "" {
		return nil, fmt.Errorf("client ID and secret are required")
	}
	if settings.AppKey == "" {
		return nil, fmt.Errorf("app key is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	apiURL := settings.APIURL
	if apiURL == "" {
		apiURL = config.DefaultBridgeAPIURL
	}
	tokenURL := settings.TokenURL
	if tokenURL == "" {
		tokenURL = config.DefaultTokenURL
	}

	ccfg := &clientcredentials.Config{
		ClientID:     settings.ClientID,
		ClientSecret: settings.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	fetcher := &tokenFetcher{
		ctx: context.WithValue(context.Background(), oauth2.HTTPClient, httpClient),
		cfg: ccfg,
	}

	return &BridgeClient{
		apiURL:      apiURL,
		appKey:      settings.AppKey,
		temperature: settings.Temperature,
		maxTokens:   settings.MaxTokens,
		httpClient:  httpClient,
		tokens:      oauth2.ReuseTokenSourceWithExpiry(nil, fetcher, tokenEarlyExpiry),
	}, nil
}

// tokenFetcher requests a fresh token on every call; caching is left to
// the ReuseTokenSource wrapping it.
type tokenFetcher struct {
	ctx context.Context
	cfg *clientcredentials.Config
}

func (f *tokenFetcher) Token() (*oauth2.Token, error) {
	tok, err := f.cfg.Token(f.ctx)
	if err != nil {
		return nil, err
	}
	if tok.Expiry.IsZero() {
		tok.Expiry = time.Now().Add(defaultTokenLifetime)
	}
	logger.WithField("expires_at", tok.Expiry.Format(time.RFC3339)).Debug("Obtained LLM access token")
	return tok, nil
}

type bridgeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type bridgeRequest struct {
	Messages    []bridgeMessage `json:"messages"`
	User        string          `json:"user"`
	Temperature float64         `json:"temperature"`
	Stop        []string        `json:"stop,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type bridgeResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Generate sends one chat completion request
func (c *BridgeClient) Generate(ctx context.Context, system, user string) (string, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("failed to obtain access token: %w", err)
	}

	userField, err := json.Marshal(map[string]string{"appkey": c.appKey})
	if err != nil {
		return "", fmt.Errorf("failed to marshal app key: %w", err)
	}

	reqBody := bridgeRequest{
		Messages: []bridgeMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		User:        string(userField),
		Temperature: c.temperature,
		Stop:        []string{stopSequence},
		MaxTokens:   c.maxTokens,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("api-key", tok.AccessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat completions API error: %d - %s", resp.StatusCode, string(respBody))
	}

	var completion bridgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
