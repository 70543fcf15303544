// Package aipoet asks a chat-completion model for the same poem under four
// sampling settings and records how the results differ.
package aipoet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/teilomillet/aipoet/config"
	"github.com/teilomillet/aipoet/llm"
	"github.com/teilomillet/aipoet/utils"
)

// ErrEmptyPoem is reported when a call succeeded but produced no text.
var ErrEmptyPoem = errors.New("model returned an empty poem")

const ruleWidth = 70

// Generation is the outcome of one generation call. Fallback set means every
// attempt failed and the caller should substitute FallbackPoem.
type Generation struct {
	Text     string
	Fallback bool
	Attempts int
	Err      error
}

// Generator produces one poem for a parameter set. Implementations never
// return an error: failure is reported through Generation.Fallback.
type Generator interface {
	Generate(ctx context.Context, req UserRequest, params ParameterSet) Generation
}

// Poet is the Generator backed by an llm.Streamer.
type Poet struct {
	cfg       *config.Config
	streamer  llm.Streamer
	sanitizer *Sanitizer
	logger    utils.Logger
	out       io.Writer
}

type PoetOption func(*Poet)

// WithStreamer replaces the transport built from the config.
func WithStreamer(s llm.Streamer) PoetOption {
	return func(p *Poet) { p.streamer = s }
}

// WithOutput sets where streamed tokens and progress are echoed.
func WithOutput(w io.Writer) PoetOption {
	return func(p *Poet) { p.out = w }
}

func WithLogger(l utils.Logger) PoetOption {
	return func(p *Poet) { p.logger = l }
}

// NewPoet validates cfg and builds the streamer it names unless one is
// supplied.
func NewPoet(cfg *config.Config, opts ...PoetOption) (*Poet, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := llm.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p := &Poet{
		cfg:       cfg,
		sanitizer: NewSanitizer(cfg.SensitiveWords),
		logger:    loggerFor(cfg),
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.streamer == nil {
		s, err := llm.NewStreamer(cfg, nil, p.logger)
		if err != nil {
			return nil, err
		}
		p.streamer = s
	}
	return p, nil
}

func loggerFor(cfg *config.Config) utils.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return utils.NewLogger(cfg.LogLevel)
}

// Prompt returns the sanitized user prompt actually sent for req.
func (p *Poet) Prompt(req UserRequest) string {
	return p.sanitizer.Sanitize(BuildPrompt(req))
}

// Generate makes up to cfg.MaxAttempts calls, echoing tokens as they arrive.
func (p *Poet) Generate(ctx context.Context, req UserRequest, params ParameterSet) Generation {
	sreq := &llm.StreamRequest{
		SystemPrompt: SystemPrompt,
		Prompt:       p.Prompt(req),
		Temperature:  params.Temperature,
		TopP:         params.TopP,
		MaxTokens:    p.cfg.MaxTokens,
		Stream:       p.cfg.Stream,
	}
	strategy := llm.NewFixedRetryStrategy(p.cfg.MaxAttempts, p.cfg.RetryDelay)
	maxAttempts := strategy.MaxAttempts

	for attempt := 1; ; attempt++ {
		started := false
		text, err := p.streamer.Stream(ctx, sreq, func(token string) {
			if !started {
				started = true
				p.printHeader(params)
			}
			fmt.Fprint(p.out, token)
			if p.cfg.StreamDelay > 0 {
				_ = llm.Wait(ctx, p.cfg.StreamDelay)
			}
		})

		if err == nil {
			if started {
				fmt.Fprintf(p.out, "\n%s\n\n", strings.Repeat("=", ruleWidth))
			}
			if strings.TrimSpace(text) == "" {
				p.logger.Warn("Empty poem returned", "params", params.Params(), "attempt", attempt)
				fmt.Fprintln(p.out, "⚠️ 模型返回了空内容，跳过此参数组合")
				return Generation{Fallback: true, Attempts: attempt, Err: ErrEmptyPoem}
			}
			p.logger.Debug("Poem generated", "params", params.Params(), "attempt", attempt)
			return Generation{Text: text, Attempts: attempt}
		}

		if started {
			fmt.Fprintln(p.out)
		}
		p.reportFailure(err, attempt, maxAttempts)

		if !strategy.ShouldRetry(err) {
			fmt.Fprintln(p.out, "❌ 多次尝试后仍失败，跳过此参数组合")
			return Generation{Fallback: true, Attempts: attempt, Err: err}
		}
		if werr := llm.Wait(ctx, strategy.NextDelay()); werr != nil {
			return Generation{Fallback: true, Attempts: attempt, Err: werr}
		}
	}
}

func (p *Poet) printHeader(params ParameterSet) {
	fmt.Fprintf(p.out, "\n🌼 参数组合 [%s] 创作中...\n\n", params.Params())
	fmt.Fprintf(p.out, "🎨 风格描述: %s\n\n", params.Quadrant().Description())
}

func (p *Poet) reportFailure(err error, attempt, maxAttempts int) {
	var llmErr *llm.LLMError
	if errors.As(err, &llmErr) {
		p.logger.Warn("Generation attempt failed", append(llmErr.LoggableFields(), "attempt", attempt, "max_attempts", maxAttempts)...)
	} else {
		p.logger.Warn("Generation attempt failed", "error", err, "attempt", attempt, "max_attempts", maxAttempts)
	}

	if code := llm.StatusCode(err); code != 0 {
		fmt.Fprintf(p.out, "⚠️ API请求失败，状态码: %d (尝试 %d/%d)\n", code, attempt, maxAttempts)
		return
	}
	fmt.Fprintf(p.out, "⚠️ 请求异常: %v (尝试 %d/%d)\n", err, attempt, maxAttempts)
}
