// Package config provides configuration management for courier.
// Settings are layered: built-in defaults, then an optional YAML file,
// then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Verbosity represents the output verbosity level
type Verbosity string

const (
	// VerbosityNormal shows only essential output
	VerbosityNormal Verbosity = "normal"
	// VerbosityVerbose includes step descriptions and timing
	VerbosityVerbose Verbosity = "verbose"
	// VerbosityDebug provides full debug logging
	VerbosityDebug Verbosity = "debug"
)

// LLM provider names
const (
	ProviderBridge    = "bridge"
	ProviderAnthropic = "anthropic"
)

// Defaults
const (
	DefaultTokenURL       = "https://id.cisco.com/oauth2/default/v1/token"
	DefaultBridgeAPIURL   = "https://chat-ai.cisco.com/openai/deployments/gpt-4o-mini/chat/completions"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	DefaultWebexAPIURL    = "https://webexapis.com/v1/messages"
	DefaultSMTPHost       = "smtp.gmail.com"
	DefaultSMTPPort       = 587
	DefaultHTTPPort       = 3001
	DefaultTemperature    = 0.7
)

// ConfigEnvVar names the environment variable holding the YAML config path
const ConfigEnvVar = "COURIER_CONFIG"

// LLMSettings holds text generation provider configuration
type LLMSettings struct {
	// Provider selects the backend: "bridge" (default) or "anthropic"
	Provider string `yaml:"provider"`

	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	AppKey       string `yaml:"app_key"`
	TokenURL     string `yaml:"token_url"`
	APIURL       string `yaml:"api_url"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	AnthropicModel  string `yaml:"anthropic_model"`

	Temperature float64 `yaml:"temperature"`

	// MaxTokens of zero leaves the limit to the provider
	MaxTokens int `yaml:"max_tokens"`
}

// EmailSettings holds SMTP delivery configuration
type EmailSettings struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`

	// To is the default recipient list
	To []string `yaml:"to"`

	// StartTLS requires the connection to be upgraded before auth
	StartTLS bool `yaml:"starttls"`
}

// WebexSettings holds chat delivery configuration
type WebexSettings struct {
	AccessToken string `yaml:"access_token"`
	RoomID      string `yaml:"room_id"`

	// MentionEmails is the default mention list
	MentionEmails []string `yaml:"mention_emails"`

	APIURL string `yaml:"api_url"`
}

// ServerSettings holds HTTP API configuration
type ServerSettings struct {
	Port int `yaml:"port"`
}

// Settings is the process-wide, read-only configuration
type Settings struct {
	Verbosity Verbosity      `yaml:"verbosity"`
	LLM       LLMSettings    `yaml:"llm"`
	Email     EmailSettings  `yaml:"email"`
	Webex     WebexSettings  `yaml:"webex"`
	Server    ServerSettings `yaml:"server"`

	// EventsEndpoint receives lifecycle events when set
	EventsEndpoint string `yaml:"events_endpoint"`
}

// Defaults returns settings with every default applied and no credentials
func Defaults() *Settings {
	return &Settings{
		Verbosity: VerbosityNormal,
		LLM: LLMSettings{
			Provider:       ProviderBridge,
			TokenURL:       DefaultTokenURL,
			APIURL:         DefaultBridgeAPIURL,
			AnthropicModel: DefaultAnthropicModel,
			Temperature:    DefaultTemperature,
		},
		Email: EmailSettings{
			SMTPHost: DefaultSMTPHost,
			SMTPPort: DefaultSMTPPort,
			StartTLS: true,
		},
		Webex: WebexSettings{
			APIURL: DefaultWebexAPIURL,
		},
		Server: ServerSettings{
			Port: DefaultHTTPPort,
		},
	}
}

// Load builds Settings from defaults, the YAML file at path (or
// $COURIER_CONFIG when path is empty), and the environment.
func Load(path string) (*Settings, error) {
	cfg := Defaults()

	if path == "" {
		path = os.Getenv(ConfigEnvVar)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Settings) applyEnv() error {
	stringVars := map[string]*string{
		"CISCO_CLIENT_ID":         &c.LLM.ClientID,
		"CISCO_CLIENT_SECRET":     &c.LLM.ClientSecret,
		"CISCO_APP_KEY":           &c.LLM.AppKey,
		"CISCO_TOKEN_URL":         &c.LLM.TokenURL,
		"CISCO_API_URL":           &c.LLM.APIURL,
		"LLM_PROVIDER":            &c.LLM.Provider,
		"ANTHROPIC_API_KEY":       &c.LLM.AnthropicAPIKey,
		"ANTHROPIC_MODEL":         &c.LLM.AnthropicModel,
		"SMTP_HOST":               &c.Email.SMTPHost,
		"SMTP_USERNAME":           &c.Email.Username,
		"SMTP_PASSWORD":           &c.Email.Password,
		"EMAIL_FROM":              &c.Email.From,
		"WEBEX_ACCESS_TOKEN":      &c.Webex.AccessToken,
		"WEBEX_ROOM_ID":           &c.Webex.RoomID,
		"WEBEX_API_URL":           &c.Webex.APIURL,
		"COURIER_EVENTS_ENDPOINT": &c.EventsEndpoint,
	}
	for key, dst := range stringVars {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("EMAIL_TO"); v != "" {
		c.Email.To = SplitList(v)
	}
	if v := os.Getenv("WEBEX_MENTION_EMAILS"); v != "" {
		c.Webex.MentionEmails = SplitList(v)
	}

	if v := os.Getenv("COURIER_VERBOSITY"); v != "" {
		c.Verbosity = Verbosity(v)
	}

	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		temp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
		}
		c.LLM.Temperature = temp
	}

	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		maxTokens, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LLM_MAX_TOKENS: %w", err)
		}
		c.LLM.MaxTokens = maxTokens
	}

	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := parsePort(v)
		if err != nil {
			return fmt.Errorf("SMTP_PORT %s", err)
		}
		c.Email.SMTPPort = port
	}

	startTLS, err := parseBoolEnv("SMTP_STARTTLS", c.Email.StartTLS)
	if err != nil {
		return err
	}
	c.Email.StartTLS = startTLS

	if v := os.Getenv("COURIER_HTTP_PORT"); v != "" {
		port, err := parsePort(v)
		if err != nil {
			return fmt.Errorf("COURIER_HTTP_PORT %s", err)
		}
		c.Server.Port = port
	}

	return nil
}

// check rejects malformed values. Missing credentials are reported by Validate.
func (c *Settings) check() error {
	switch c.Verbosity {
	case VerbosityNormal, VerbosityVerbose, VerbosityDebug:
	default:
		return fmt.Errorf("COURIER_VERBOSITY must be one of: normal, verbose, debug; got: %s", c.Verbosity)
	}

	switch c.LLM.Provider {
	case ProviderBridge, ProviderAnthropic:
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of: bridge, anthropic; got: %s", c.LLM.Provider)
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got: %g", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got: %d", c.LLM.MaxTokens)
	}
	if c.Email.SMTPPort < 1 || c.Email.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT must be between 1 and 65535, got: %d", c.Email.SMTPPort)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("COURIER_HTTP_PORT must be between 1 and 65535, got: %d", c.Server.Port)
	}
	return nil
}

// Validate reports every missing required value as a *ConfigurationError
func (c *Settings) Validate() error {
	var missing []string
	require := func(value, name string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	switch c.LLM.Provider {
	case ProviderAnthropic:
		require(c.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	default:
		require(c.LLM.ClientID, "CISCO_CLIENT_ID")
		require(c.LLM.ClientSecret, "CISCO_CLIENT_SECRET")
		require(c.LLM.AppKey, "CISCO_APP_KEY")
	}

	require(c.Email.Username, "SMTP_USERNAME")
	require(c.Email.Password, "SMTP_PASSWORD")
	require(c.Email.From, "EMAIL_FROM")
	if len(c.Email.To) == 0 {
		missing = append(missing, "EMAIL_TO")
	}

	require(c.Webex.AccessToken, "WEBEX_ACCESS_TOKEN")
	require(c.Webex.RoomID, "WEBEX_ROOM_ID")

	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// IsVerbose returns true if verbosity is verbose or debug
func (c *Settings) IsVerbose() bool {
	return c.Verbosity == VerbosityVerbose || c.Verbosity == VerbosityDebug
}

// IsDebug returns true if verbosity is debug
func (c *Settings) IsDebug() bool {
	return c.Verbosity == VerbosityDebug
}

// SplitList parses a comma-separated list, dropping blank entries
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseBoolEnv parses a boolean environment variable with a default value
func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%s must be true or false, got: %s", key, value)
	}
}

// parsePort parses and validates a port number string
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("must be between 1 and 65535, got: %d", port)
	}
	return port, nil
}
