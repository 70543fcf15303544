package providers

const deepSeekEndpoint = "https://api.deepseek.com/v1/chat/completions"

// DeepSeekProvider is the default backend. DeepSeek serves an
// OpenAI-compatible API, so everything but the name and URL is inherited.
type DeepSeekProvider struct {
	*OpenAIProvider
}

// NewDeepSeekProvider creates a provider for models such as "deepseek-chat".
func NewDeepSeekProvider(apiKey, model string, extraHeaders map[string]string) *DeepSeekProvider {
	return &DeepSeekProvider{
		OpenAIProvider: newOpenAICompatible(apiKey, model, deepSeekEndpoint, extraHeaders),
	}
}

func (p *DeepSeekProvider) Name() string {
	return "deepseek"
}
