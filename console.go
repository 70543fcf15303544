package aipoet

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"

	"github.com/teilomillet/aipoet/llm"
)

const (
	spinnerCharSet  = 14
	spinnerInterval = 100 * time.Millisecond

	// StartupAnimation is how long the start-up spinner runs.
	StartupAnimation = 2 * time.Second
)

// Animate shows a spinner with message for d, or until ctx is done.
func Animate(ctx context.Context, out io.Writer, message string, d time.Duration) {
	s := spinner.New(spinner.CharSets[spinnerCharSet], spinnerInterval,
		spinner.WithWriter(out),
		spinner.WithSuffix(" "+message),
	)
	s.Start()
	_ = llm.Wait(ctx, d)
	s.Stop()
	fmt.Fprintln(out)
}

func printBanner(out io.Writer) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(out, "\n%s\n", rule)
	fmt.Fprintln(out, "🎭 AI对话诗人 - 参数调优演示系统 🎭")
	fmt.Fprintln(out, rule)
}

// PrintSummary writes the closing statistics of a run.
func PrintSummary(out io.Writer, s *Summary) {
	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", ruleWidth))
	fmt.Fprintln(out, "🎉 演示完成！")
	fmt.Fprintf(out, "⏱️ 总运行时间: %.2f秒\n", s.Elapsed.Seconds())
	fmt.Fprintf(out, "📝 成功生成: %d/%d 首诗歌\n", s.SuccessCount, s.Total)
	fmt.Fprintf(out, "💾 结果文件: %s\n", s.Filename)
}

// ReportFailure prints a top-level error with the generic advice line.
func ReportFailure(out io.Writer, err error) {
	fmt.Fprintf(out, "❌ 程序发生未预期错误: %v\n", err)
	fmt.Fprintln(out, "建议：请检查网络连接或API密钥")
}
