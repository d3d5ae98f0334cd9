package config

// SampleYAML returns a commented starter configuration file
func SampleYAML() string {
	return `# courier configuration
# Every value can also be set through the environment variable noted beside it.

verbosity: normal               # COURIER_VERBOSITY (normal, verbose, debug)
events_endpoint: ""             # COURIER_EVENTS_ENDPOINT

llm:
  provider: bridge              # LLM_PROVIDER (bridge, anthropic)
  client_id: ""                 # CISCO_CLIENT_ID
  client_secret: ""             # CISCO_CLIENT_SECRET
  app_key: ""                   # CISCO_APP_KEY
  token_url: ` + DefaultTokenURL + `
  api_url: ` + DefaultBridgeAPIURL + `
  anthropic_api_key: ""         # ANTHROPIC_API_KEY
  anthropic_model: ` + DefaultAnthropicModel + `
  temperature: 0.7              # LLM_TEMPERATURE
  max_tokens: 0                 # LLM_MAX_TOKENS (0 = provider default)

email:
  smtp_host: smtp.gmail.com     # SMTP_HOST
  smtp_port: 587                # SMTP_PORT
  username: ""                  # SMTP_USERNAME
  password: ""                  # SMTP_PASSWORD
  from: ""                      # EMAIL_FROM
  to: []                        # EMAIL_TO (comma-separated)
  starttls: true                # SMTP_STARTTLS

webex:
  access_token: ""              # WEBEX_ACCESS_TOKEN
  room_id: ""                   # WEBEX_ROOM_ID
  mention_emails: []            # WEBEX_MENTION_EMAILS (comma-separated)
  api_url: ` + DefaultWebexAPIURL + `

server:
  port: 3001                    # COURIER_HTTP_PORT
`
}
