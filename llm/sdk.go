package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"

	"github.com/teilomillet/aipoet/config"
	"github.com/teilomillet/aipoet/providers"
	"github.com/teilomillet/aipoet/utils"
)

// SDKStreamer sends the same request through the official openai-go client,
// pointed at the provider's base URL. The SDK's own retries are disabled.
// Stream chunks are decoded by the provider so a malformed chunk is skipped
// rather than failing the attempt.
type SDKStreamer struct {
	provider providers.Provider
	name     string
	model    string
	opts   []option.RequestOption
	logger utils.Logger
}

func NewSDKStreamer(provider providers.Provider, cfg *config.Config, logger utils.Logger) *SDKStreamer {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey()),
		option.WithBaseURL(BaseURL(provider.Endpoint())),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	for k, v := range cfg.ExtraHeaders {
		opts = append(opts, option.WithHeader(k, v))
	}
	return &SDKStreamer{
		provider: provider,
		name:     provider.Name(),
		model:  cfg.Model,
		opts:   opts,
		logger: logger,
	}
}

// BaseURL strips the chat/completions path from a full endpoint URL.
func BaseURL(endpoint string) string {
	base := strings.TrimSuffix(strings.TrimRight(endpoint, "/"), "/chat/completions")
	return base + "/"
}

func (s *SDKStreamer) Name() string {
	return s.name
}

func (s *SDKStreamer) Stream(ctx context.Context, req *StreamRequest, onToken TokenHandler) (string, error) {
	client := openai.NewClient(s.opts...)

	msgs := []openai.ChatCompletionMessageParamUnion{}
	if req.SystemPrompt != "" {
		msgs = append(msgs, openai.SystemMessage(req.SystemPrompt))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(s.model),
		Messages:    msgs,
		Temperature: openai.Float(req.Temperature),
		TopP:        openai.Float(req.TopP),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	if !req.Stream {
		resp, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", sdkError(err)
		}
		if len(resp.Choices) == 0 {
			return "", NewLLMError(ErrorTypeResponse, "empty choices", nil)
		}
		text := resp.Choices[0].Message.Content
		if onToken != nil && text != "" {
			onToken(text)
		}
		return text, nil
	}

	var resp *http.Response
	if err := client.Post(ctx, "chat/completions", params, &resp, option.WithJSONSet("stream", true)); err != nil {
		return "", sdkError(err)
	}
	decoder := ssestream.NewDecoder(resp)
	if decoder == nil {
		return "", NewLLMError(ErrorTypeResponse, "empty stream response", nil)
	}
	defer decoder.Close()

	var full strings.Builder
	skipped := 0
	for decoder.Next() {
		content, err := s.provider.ParseStreamResponse(decoder.Event().Data)
		if errors.Is(err, providers.ErrStreamDone) {
			break
		}
		if err != nil {
			skipped++
			s.logger.Debug("Skipping malformed chunk", "error", err)
			continue
		}
		if content == "" {
			continue
		}
		full.WriteString(content)
		if onToken != nil {
			onToken(content)
		}
	}
	if err := decoder.Err(); err != nil {
		return full.String(), NewLLMError(ErrorTypeResponse, "stream interrupted", err)
	}

	s.logger.Debug("SDK stream finished", "provider", s.name, "chars", full.Len(), "skipped", skipped)
	return full.String(), nil
}

func sdkError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		statusErr := NewStatusError(apiErr.StatusCode, "")
		statusErr.Err = err
		return statusErr
	}
	return NewLLMError(ErrorTypeRequest, "sdk request failed", err)
}
