package providers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/teilomillet/aipoet/config"
	"github.com/teilomillet/aipoet/utils"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider speaks the OpenAI chat-completions wire format. Other
// compatible backends embed it and override Name and the default endpoint.
type OpenAIProvider struct {
	apiKey          string
	model           string
	defaultEndpoint string
	endpoint        string
	extraHeaders    map[string]string
	options         map[string]any
	logger          utils.Logger
}

// NewOpenAIProvider creates a new OpenAI provider instance
func NewOpenAIProvider(apiKey, model string, extraHeaders map[string]string) *OpenAIProvider {
	return newOpenAICompatible(apiKey, model, openAIEndpoint, extraHeaders)
}

func newOpenAICompatible(apiKey, model, endpoint string, extraHeaders map[string]string) *OpenAIProvider {
	if extraHeaders == nil {
		extraHeaders = make(map[string]string)
	}
	return &OpenAIProvider{
		apiKey:          apiKey,
		model:           model,
		defaultEndpoint: endpoint,
		extraHeaders:    extraHeaders,
		options:         make(map[string]any),
		logger:          utils.NewLogger(utils.LogLevelWarn),
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Endpoint returns the override set with SetEndpoint, or the default URL.
func (p *OpenAIProvider) Endpoint() string {
	if p.endpoint != "" {
		return p.endpoint
	}
	return p.defaultEndpoint
}

func (p *OpenAIProvider) SetEndpoint(endpoint string) {
	p.endpoint = endpoint
}

func (p *OpenAIProvider) Model() string {
	return p.model
}

func (p *OpenAIProvider) APIKey() string {
	return p.apiKey
}

func (p *OpenAIProvider) SetLogger(logger utils.Logger) {
	p.logger = logger
}

func (p *OpenAIProvider) SetOption(key string, value any) {
	p.options[key] = value
	p.logger.Debug("Option set", "key", key, "value", value)
}

func (p *OpenAIProvider) SetDefaultOptions(cfg *config.Config) {
	p.SetOption("max_tokens", cfg.MaxTokens)
	p.SetOption("stream", cfg.Stream)
	p.logger.Debug("Default options set", "max_tokens", cfg.MaxTokens, "stream", cfg.Stream)
}

// Headers never logs the Authorization value.
func (p *OpenAIProvider) Headers() map[string]string {
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + p.apiKey,
	}

	for key, value := range p.extraHeaders {
		headers[key] = value
	}

	p.logger.Debug("Headers prepared", "count", len(headers))
	return headers
}

func (p *OpenAIProvider) SetExtraHeaders(extraHeaders map[string]string) {
	p.extraHeaders = extraHeaders
	p.logger.Debug("Extra headers set", "count", len(extraHeaders))
}

func (p *OpenAIProvider) PrepareRequest(req *Request, options map[string]any) ([]byte, error) {
	if req == nil || len(req.AllMessages()) == 0 {
		return nil, fmt.Errorf("request has no messages")
	}

	request := map[string]any{
		"model":    p.model,
		"messages": req.AllMessages(),
	}
	for k, v := range p.options {
		request[k] = v
	}
	for k, v := range options {
		request[k] = v
	}

	reqJSON, err := json.Marshal(request)
	if err != nil {
		p.logger.Error("Failed to marshal request", "error", err)
		return nil, err
	}

	p.logger.Debug("Request prepared", "bytes", len(reqJSON))
	return reqJSON, nil
}

func (p *OpenAIProvider) ParseResponse(body []byte) (string, error) {
	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	return response.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) ParseStreamResponse(chunk []byte) (string, error) {
	data := bytes.TrimSpace(chunk)
	if len(data) == 0 {
		return "", nil
	}

	if bytes.Equal(data, []byte("[DONE]")) {
		return "", ErrStreamDone
	}

	var response struct {
		Choices []struct {
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(data, &response); err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", nil
	}

	return response.Choices[0].Delta.Content, nil
}
