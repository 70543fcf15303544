package aipoet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/teilomillet/aipoet/config"
	"github.com/teilomillet/aipoet/llm"
)

// RunOptions carries what a run needs beyond the config. Zero values fall
// back to the console and the config-built generator.
type RunOptions struct {
	// Request skips interactive input when set.
	Request      *UserRequest
	In           io.Reader
	Out          io.Writer
	Generator    Generator
	TokenCounter llm.TokenCounter
	Now          func() time.Time
}

// Summary describes a finished run.
type Summary struct {
	Request      UserRequest
	Elapsed      time.Duration
	SuccessCount int
	Total        int
	Filename     string
	// WriteErr is set when the document was not written. It does not fail
	// the run.
	WriteErr error
}

// Run performs one full comparison: input, generation under every parameter
// set, the output document and the summary. A panic below Run is returned as
// an error.
func Run(ctx context.Context, cfg *config.Config, opts RunOptions) (summary *Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			summary, err = nil, fmt.Errorf("unexpected panic: %v", r)
		}
	}()

	start := time.Now()
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := loggerFor(cfg)

	printBanner(out)

	var req UserRequest
	if opts.Request != nil {
		req = *opts.Request
		if err := req.Validate(); err != nil {
			return nil, err
		}
	} else {
		in := opts.In
		if in == nil {
			in = os.Stdin
		}
		req, err = NewInputCollector(in, out).Collect()
		if err != nil {
			return nil, err
		}
	}
	logger.Info("Request accepted", "theme", req.Theme, "style", req.Style, "length", req.Length)

	if cfg.Animate {
		Animate(ctx, out, "正在初始化诗歌创作引擎...", StartupAnimation)
	}

	generator := opts.Generator
	if generator == nil {
		poet, err := NewPoet(cfg, WithOutput(out), WithLogger(logger))
		if err != nil {
			return nil, err
		}
		generator = poet
	}
	counter := opts.TokenCounter
	if counter == nil {
		counter = llm.NewTokenCounter(cfg.Model, logger)
	}

	comparator := NewComparator(generator,
		WithRequestInterval(cfg.RequestInterval),
		WithTokenCounter(counter),
		WithComparatorOutput(out),
		WithComparatorLogger(logger),
	)
	comparison := comparator.Compare(ctx, req)

	doc := NewDocument(req.Theme, comparison.Results, now())
	filename, werr := WriteDocument(doc, cfg.OutputDir)
	var verr *ValidationError
	switch {
	case errors.As(werr, &verr):
		fmt.Fprintf(out, "❌ 输出验证失败: %v\n", verr.Err)
	case werr != nil:
		logger.Error("Failed to save results", "file", filename, "error", werr)
		fmt.Fprintf(out, "❌ 保存结果失败: %v\n", werr)
	default:
		fmt.Fprintf(out, "\n✅ 结果已保存到: %s\n", filename)
	}

	summary = &Summary{
		Request:      req,
		Elapsed:      time.Since(start),
		SuccessCount: comparison.SuccessCount,
		Total:        len(comparison.Results),
		Filename:     filename,
		WriteErr:     werr,
	}
	PrintSummary(out, summary)
	return summary, nil
}
