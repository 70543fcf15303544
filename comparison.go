package aipoet

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/teilomillet/aipoet/llm"
	"github.com/teilomillet/aipoet/utils"
)

// ComparisonResult is one entry of the output document.
type ComparisonResult struct {
	Params   string `json:"params"`
	Label    string `json:"label"`
	Poem     string `json:"poem"`
	Analysis string `json:"analysis,omitempty"`
}

// Comparison holds one result per parameter set, in table order.
type Comparison struct {
	Results      []ComparisonResult
	SuccessCount int
}

// Comparator runs a Generator once per parameter set.
type Comparator struct {
	generator Generator
	sets      []ParameterSet
	limiter   *rate.Limiter
	tokens    llm.TokenCounter
	logger    utils.Logger
	out       io.Writer
}

type ComparatorOption func(*Comparator)

func WithParameterSets(sets []ParameterSet) ComparatorOption {
	return func(c *Comparator) { c.sets = append([]ParameterSet(nil), sets...) }
}

// WithRequestInterval spaces generation calls at least interval apart.
// Zero disables pacing.
func WithRequestInterval(interval time.Duration) ComparatorOption {
	return func(c *Comparator) { c.limiter = newLimiter(interval) }
}

func WithTokenCounter(counter llm.TokenCounter) ComparatorOption {
	return func(c *Comparator) { c.tokens = counter }
}

func WithComparatorOutput(w io.Writer) ComparatorOption {
	return func(c *Comparator) { c.out = w }
}

func WithComparatorLogger(l utils.Logger) ComparatorOption {
	return func(c *Comparator) { c.logger = l }
}

func NewComparator(generator Generator, opts ...ComparatorOption) *Comparator {
	c := &Comparator{
		generator: generator,
		sets:      DefaultParameterSets(),
		limiter:   newLimiter(0),
		tokens:    llm.RuneCounter{},
		logger:    utils.NewNopLogger(),
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Compare always visits every parameter set; a failed generation is replaced
// by the fallback poem for that set.
func (c *Comparator) Compare(ctx context.Context, req UserRequest) Comparison {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(c.out, "\n%s\n", rule)
	fmt.Fprintf(c.out, "✨ 主题《%s》诗歌创作 - 参数调优对比演示 ✨\n", req.Theme)
	fmt.Fprintf(c.out, "📜 诗歌风格: %s, 行数: %d\n", req.Style, req.Length)
	fmt.Fprintf(c.out, "%s\n\n", rule)

	comparison := Comparison{Results: make([]ComparisonResult, 0, len(c.sets))}
	for i, set := range c.sets {
		fmt.Fprintf(c.out, "🔹 组合 %d/%d: %s\n", i+1, len(c.sets), set.Label)
		fmt.Fprintf(c.out, "  温度: %s, top_p: %s\n", formatFloat(set.Temperature), formatFloat(set.TopP))

		if err := c.limiter.Wait(ctx); err != nil {
			c.logger.Warn("Pacing wait aborted", "error", err)
		}

		gen := c.generator.Generate(ctx, req, set)
		poem := gen.Text
		if gen.Fallback {
			poem = FallbackPoem(req.Theme, set.Temperature, set.TopP, req.Length)
			c.logger.Info("Using fallback poem", "params", set.Params(), "attempts", gen.Attempts, "error", gen.Err)
			fmt.Fprintf(c.out, "⚠️ 使用示例诗歌替代参数组合: %s\n", set.Label)
		} else {
			comparison.SuccessCount++
		}

		analysis := Analyze(poem)
		fmt.Fprintf(c.out, "📝 分析: %s\n", analysis)
		fmt.Fprintf(c.out, "📏 约 %d tokens\n", c.tokens.Count(poem))

		comparison.Results = append(comparison.Results, ComparisonResult{
			Params:   set.Params(),
			Label:    set.Label,
			Poem:     poem,
			Analysis: analysis,
		})

		if i < len(c.sets)-1 {
			fmt.Fprintf(c.out, "\n%s\n\n", strings.Repeat("-", ruleWidth))
		}
	}
	return comparison
}
