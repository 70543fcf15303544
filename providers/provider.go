// Package providers describes the OpenAI-compatible chat-completion backends
// a poem request can be sent to. A provider knows its endpoint, how to
// authenticate, how to format a request body, and how to read a response or a
// single streamed chunk back out.
package providers

import (
	"github.com/teilomillet/aipoet/config"
	"github.com/teilomillet/aipoet/utils"
)

// Provider defines what the transports in package llm need from a backend.
type Provider interface {
	Name() string
	Endpoint() string
	SetEndpoint(endpoint string)
	Headers() map[string]string
	SetExtraHeaders(extraHeaders map[string]string)
	SetDefaultOptions(cfg *config.Config)
	SetOption(key string, value any)
	SetLogger(logger utils.Logger)

	// PrepareRequest renders the JSON body. options override provider
	// defaults key by key.
	PrepareRequest(req *Request, options map[string]any) ([]byte, error)

	// ParseResponse reads a non-streamed completion body.
	ParseResponse(body []byte) (string, error)

	// ParseStreamResponse reads the payload of one "data:" line. It returns
	// ErrStreamDone for the terminator.
	ParseStreamResponse(chunk []byte) (string, error)
}

// ProviderConstructor builds a provider for an API key, model and optional
// extra headers.
type ProviderConstructor func(apiKey, model string, extraHeaders map[string]string) Provider
