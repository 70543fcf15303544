// Package llm sends chat-completion requests to a provider and streams the
// generated text back. It also carries the shared validator, the JSON-schema
// checker and token counting.
package llm

import (
	"context"
	"fmt"

	"github.com/teilomillet/aipoet/config"
	"github.com/teilomillet/aipoet/providers"
	"github.com/teilomillet/aipoet/utils"
)

// StreamRequest is one generation call.
type StreamRequest struct {
	SystemPrompt string
	Prompt       string
	Temperature  float64
	TopP         float64
	MaxTokens    int
	Stream       bool
}

// TokenHandler receives each content delta as it arrives.
type TokenHandler func(token string)

// Streamer performs exactly one request per Stream call. Retrying is the
// caller's job so attempt budgets stay exact.
type Streamer interface {
	Name() string
	Stream(ctx context.Context, req *StreamRequest, onToken TokenHandler) (string, error)
}

// NewStreamer resolves cfg.Provider through registry (the default registry
// when nil) and wraps it in the transport named by cfg.Transport.
func NewStreamer(cfg *config.Config, registry *providers.ProviderRegistry, logger utils.Logger) (Streamer, error) {
	if registry == nil {
		registry = providers.NewProviderRegistry()
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	provider, err := registry.Get(cfg.Provider, cfg.APIKey(), cfg.Model, cfg.ExtraHeaders)
	if err != nil {
		return nil, NewLLMError(ErrorTypeProvider, "failed to resolve provider", err)
	}
	provider.SetLogger(logger)
	provider.SetDefaultOptions(cfg)
	if cfg.Endpoint != "" {
		provider.SetEndpoint(cfg.Endpoint)
	}

	if cfg.APIKey() == "" {
		logger.Warn("No API key configured; requests will likely be rejected", "provider", provider.Name())
	}

	switch cfg.Transport {
	case config.TransportSDK:
		return NewSDKStreamer(provider, cfg, logger), nil
	case config.TransportHTTP, "":
		return NewHTTPStreamer(provider, cfg.Timeout, logger), nil
	default:
		return nil, NewLLMError(ErrorTypeInvalidInput, fmt.Sprintf("unknown transport %q", cfg.Transport), nil)
	}
}
