package llm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/teilomillet/aipoet/providers"
	"github.com/teilomillet/aipoet/utils"
)

const maxErrorBody = 4096

// HTTPStreamer posts provider-formatted bodies with net/http and decodes the
// event stream itself.
type HTTPStreamer struct {
	Provider providers.Provider
	client   *http.Client
	logger   utils.Logger
}

func NewHTTPStreamer(provider providers.Provider, timeout time.Duration, logger utils.Logger) *HTTPStreamer {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &HTTPStreamer{
		Provider: provider,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (s *HTTPStreamer) Name() string {
	return s.Provider.Name()
}

func (s *HTTPStreamer) Stream(ctx context.Context, req *StreamRequest, onToken TokenHandler) (string, error) {
	request := providers.NewRequestBuilder().
		WithSystemPrompt(req.SystemPrompt).
		WithPrompt(req.Prompt).
		Build()

	options := map[string]any{
		"temperature": req.Temperature,
		"top_p":       req.TopP,
		"stream":      req.Stream,
	}
	if req.MaxTokens > 0 {
		options["max_tokens"] = req.MaxTokens
	}

	reqBody, err := s.Provider.PrepareRequest(request, options)
	if err != nil {
		return "", NewLLMError(ErrorTypeRequest, "failed to prepare request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Provider.Endpoint(), bytes.NewReader(reqBody))
	if err != nil {
		return "", NewLLMError(ErrorTypeRequest, "failed to create request", err)
	}
	for k, v := range s.Provider.Headers() {
		httpReq.Header.Set(k, v)
	}
	if req.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", NewLLMError(ErrorTypeRequest, "failed to send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		s.logger.Error("API error", "provider", s.Provider.Name(), "status", resp.StatusCode)
		return "", NewStatusError(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if !req.Stream {
		return s.readWhole(resp.Body, onToken)
	}
	return s.readStream(resp.Body, onToken)
}

func (s *HTTPStreamer) readWhole(body io.Reader, onToken TokenHandler) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", NewLLMError(ErrorTypeResponse, "failed to read response body", err)
	}
	text, err := s.Provider.ParseResponse(raw)
	if err != nil {
		return "", NewLLMError(ErrorTypeResponse, "failed to parse response", err)
	}
	if onToken != nil && text != "" {
		onToken(text)
	}
	return text, nil
}

func (s *HTTPStreamer) readStream(body io.Reader, onToken TokenHandler) (string, error) {
	var full strings.Builder
	decoder := NewSSEDecoder(body)
	skipped := 0

	for decoder.Next() {
		content, err := s.Provider.ParseStreamResponse(decoder.Event().Data)
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

	s.logger.Debug("Stream finished", "provider", s.Provider.Name(), "chars", full.Len(), "skipped", skipped)
	return full.String(), nil
}
