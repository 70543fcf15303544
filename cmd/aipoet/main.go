// Package main provides the aipoet command-line interface.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teilomillet/aipoet"
	"github.com/teilomillet/aipoet/config"
	"github.com/teilomillet/aipoet/utils"
)

// cmdFlags holds all command-line flags
type cmdFlags struct {
	theme       string
	style       string
	length      int
	apiKey      string
	provider    string
	model       string
	endpoint    string
	transport   string
	outputDir   string
	logLevel    string
	maxAttempts int
	retryDelay  time.Duration
	interval    time.Duration
	timeout     time.Duration
	noAnimation bool
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			aipoet.ReportFailure(os.Stdout, fmt.Errorf("panic: %v", r))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(&cmdFlags{}, os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		aipoet.ReportFailure(os.Stdout, err)
	}
}

func newRootCommand(flags *cmdFlags, in io.Reader, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aipoet",
		Short: "Compare one poem across four sampling settings",
		Long: "aipoet asks a chat model for the same poem under four (temperature, top_p)\n" +
			"settings, streams each result and saves the comparison as JSON.\n" +
			"Without --theme the request is collected interactively.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(cmd, flags)
			if err != nil {
				return err
			}

			opts := aipoet.RunOptions{In: in, Out: out}
			if cmd.Flags().Changed("theme") {
				req, err := aipoet.NewUserRequest(flags.theme, parseStyle(flags.style), flags.length)
				if err != nil {
					return err
				}
				opts.Request = &req
			}

			_, err = aipoet.Run(cmd.Context(), cfg, opts)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.theme, "theme", "", "Poem theme; skips the interactive prompts")
	f.StringVar(&flags.style, "style", string(aipoet.StyleAny), "Poem style: 古诗, 现代诗, 自由体, 不限 or menu number 1-4")
	f.IntVar(&flags.length, "length", aipoet.DefaultLength, "Poem length in lines (4-20)")
	f.StringVar(&flags.apiKey, "api-key", "", "API key for the provider (defaults to <PROVIDER>_API_KEY)")
	f.StringVar(&flags.provider, "provider", "", "LLM provider (deepseek, openai)")
	f.StringVar(&flags.model, "model", "", "LLM model")
	f.StringVar(&flags.endpoint, "endpoint", "", "Chat-completions endpoint override")
	f.StringVar(&flags.transport, "transport", "", "Request transport (http, sdk)")
	f.StringVar(&flags.outputDir, "output-dir", "", "Directory for the comparison JSON")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level (off, error, warn, info, debug)")
	f.IntVar(&flags.maxAttempts, "max-attempts", 0, "Attempts per parameter set")
	f.DurationVar(&flags.retryDelay, "retry-delay", 0, "Delay between attempts")
	f.DurationVar(&flags.interval, "request-interval", 0, "Minimum spacing between generation requests")
	f.DurationVar(&flags.timeout, "timeout", 0, "HTTP request timeout")
	f.BoolVar(&flags.noAnimation, "no-animation", false, "Skip the start-up spinner")

	return cmd
}

// buildConfig loads the environment and overlays explicitly set flags.
func buildConfig(cmd *cobra.Command, flags *cmdFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	changed := cmd.Flags().Changed
	var opts []config.ConfigOption
	if changed("provider") {
		opts = append(opts, config.SetProvider(flags.provider))
	}
	if changed("api-key") {
		opts = append(opts, config.SetAPIKey(flags.apiKey))
	}
	if changed("model") {
		opts = append(opts, config.SetModel(flags.model))
	}
	if changed("endpoint") {
		opts = append(opts, config.SetEndpoint(flags.endpoint))
	}
	if changed("transport") {
		opts = append(opts, config.SetTransport(flags.transport))
	}
	if changed("output-dir") {
		opts = append(opts, config.SetOutputDir(flags.outputDir))
	}
	if changed("log-level") {
		var level utils.LogLevel
		if err := level.UnmarshalText([]byte(flags.logLevel)); err != nil {
			return nil, err
		}
		opts = append(opts, config.SetLogLevel(level))
	}
	if changed("max-attempts") {
		opts = append(opts, config.SetMaxAttempts(flags.maxAttempts))
	}
	if changed("retry-delay") {
		opts = append(opts, config.SetRetryDelay(flags.retryDelay))
	}
	if changed("request-interval") {
		opts = append(opts, config.SetRequestInterval(flags.interval))
	}
	if changed("timeout") {
		opts = append(opts, config.SetTimeout(flags.timeout))
	}
	if flags.noAnimation {
		opts = append(opts, config.SetAnimate(false))
	}
	config.ApplyOptions(cfg, opts...)

	return cfg, nil
}

// parseStyle accepts a style name or its 1-based menu number.
func parseStyle(value string) aipoet.Style {
	if _, err := strconv.Atoi(value); err == nil {
		return aipoet.ParseStyleChoice(value)
	}
	return aipoet.Style(value)
}
