// File: config/config.go

package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/teilomillet/aipoet/utils"
)

// Transport names accepted by Config.Transport.
const (
	TransportHTTP = "http"
	TransportSDK  = "sdk"
)

// DefaultSensitiveWords is the forbidden-term list masked out of every prompt.
var DefaultSensitiveWords = []string{"暴力", "色情", "政治", "敏感词", "违禁", "非法", "反动"}

type Config struct {
	Provider        string         `env:"POET_PROVIDER" envDefault:"deepseek" validate:"required"`
	Model           string         `env:"POET_MODEL" envDefault:"deepseek-chat" validate:"required"`
	Endpoint        string         `env:"POET_ENDPOINT" validate:"omitempty,url"`
	Transport       string         `env:"POET_TRANSPORT" envDefault:"http" validate:"oneof=http sdk"`
	MaxTokens       int            `env:"POET_MAX_TOKENS" envDefault:"500" validate:"min=1"`
	Stream          bool           `env:"POET_STREAM" envDefault:"true"`
	Timeout         time.Duration  `env:"POET_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	MaxAttempts     int            `env:"POET_MAX_ATTEMPTS" envDefault:"3" validate:"min=1"`
	RetryDelay      time.Duration  `env:"POET_RETRY_DELAY" envDefault:"1s" validate:"gte=0"`
	RequestInterval time.Duration  `env:"POET_REQUEST_INTERVAL" envDefault:"0s" validate:"gte=0"`
	StreamDelay     time.Duration  `env:"POET_STREAM_DELAY" envDefault:"20ms" validate:"gte=0"`
	OutputDir       string         `env:"POET_OUTPUT_DIR" envDefault:"." validate:"required"`
	SensitiveWords  []string       `env:"POET_SENSITIVE_WORDS" envSeparator:"," envDefault:"暴力,色情,政治,敏感词,违禁,非法,反动"`
	Animate         bool           `env:"POET_ANIMATE" envDefault:"true"`
	LogLevel        utils.LogLevel `env:"POET_LOG_LEVEL" envDefault:"WARN"`
	APIKeys         map[string]string
	ExtraHeaders    map[string]string
	Logger          utils.Logger
}

// LoadConfig reads POET_* variables and sweeps every *_API_KEY variable into
// APIKeys, keyed by the lower-cased prefix (DEEPSEEK_API_KEY -> "deepseek").
func LoadConfig() (*Config, error) {
	cfg := &Config{
		APIKeys:      make(map[string]string),
		ExtraHeaders: make(map[string]string),
	}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	loadAPIKeys(cfg)
	return cfg, nil
}

func loadAPIKeys(cfg *Config) {
	for _, envVar := range os.Environ() {
		key, value, found := strings.Cut(envVar, "=")
		if found && strings.HasSuffix(strings.ToUpper(key), "_API_KEY") {
			provider := strings.TrimSuffix(strings.ToUpper(key), "_API_KEY")
			cfg.APIKeys[strings.ToLower(provider)] = value
		}
	}
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	return c.APIKeys[c.Provider]
}

type ConfigOption func(*Config)

// NewConfig returns the same defaults LoadConfig would produce from an empty
// environment.
func NewConfig() *Config {
	return &Config{
		Provider:       "deepseek",
		Model:          "deepseek-chat",
		Transport:      TransportHTTP,
		MaxTokens:      500,
		Stream:         true,
		Timeout:        30 * time.Second,
		MaxAttempts:    3,
		RetryDelay:     time.Second,
		StreamDelay:    20 * time.Millisecond,
		OutputDir:      ".",
		SensitiveWords: append([]string(nil), DefaultSensitiveWords...),
		Animate:        true,
		LogLevel:       utils.LogLevelWarn,
		APIKeys:        make(map[string]string),
		ExtraHeaders:   make(map[string]string),
	}
}

func SetProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

func SetModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

func SetEndpoint(endpoint string) ConfigOption {
	return func(c *Config) {
		c.Endpoint = endpoint
	}
}

func SetTransport(transport string) ConfigOption {
	return func(c *Config) {
		c.Transport = transport
	}
}

func SetMaxTokens(maxTokens int) ConfigOption {
	return func(c *Config) {
		if maxTokens < 1 {
			maxTokens = 1
		}
		c.MaxTokens = maxTokens
	}
}

func SetStream(stream bool) ConfigOption {
	return func(c *Config) {
		c.Stream = stream
	}
}

func SetTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

func SetAPIKey(apiKey string) ConfigOption {
	return func(c *Config) {
		if c.APIKeys == nil {
			c.APIKeys = make(map[string]string)
		}
		c.APIKeys[c.Provider] = apiKey
	}
}

func SetMaxAttempts(attempts int) ConfigOption {
	return func(c *Config) {
		c.MaxAttempts = attempts
	}
}

func SetRetryDelay(retryDelay time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryDelay = retryDelay
	}
}

func SetRequestInterval(interval time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestInterval = interval
	}
}

func SetStreamDelay(delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.StreamDelay = delay
	}
}

func SetOutputDir(dir string) ConfigOption {
	return func(c *Config) {
		c.OutputDir = dir
	}
}

func SetSensitiveWords(words []string) ConfigOption {
	return func(c *Config) {
		c.SensitiveWords = append([]string(nil), words...)
	}
}

func SetAnimate(animate bool) ConfigOption {
	return func(c *Config) {
		c.Animate = animate
	}
}

func SetLogLevel(level utils.LogLevel) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}

func SetLogger(logger utils.Logger) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

func SetExtraHeaders(headers map[string]string) ConfigOption {
	return func(c *Config) {
		if c.ExtraHeaders == nil {
			c.ExtraHeaders = make(map[string]string)
		}
		for k, v := range headers {
			c.ExtraHeaders[k] = v
		}
	}
}

func ApplyOptions(cfg *Config, options ...ConfigOption) {
	for _, option := range options {
		option(cfg)
	}
}
