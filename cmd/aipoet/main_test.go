package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/aipoet"
	"github.com/teilomillet/aipoet/utils"
)

func TestBuildConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("POET_MODEL", "env-model")
	t.Setenv("POET_MAX_ATTEMPTS", "5")
	t.Setenv("OPENAI_API_KEY", "env-openai")

	flags := &cmdFlags{}
	cmd := newRootCommand(flags, strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, cmd.ParseFlags([]string{
		"--provider", "openai",
		"--max-attempts", "2",
		"--retry-delay", "250ms",
		"--request-interval", "2s",
		"--log-level", "debug",
		"--transport", "sdk",
		"--no-animation",
	}))

	cfg, err := buildConfig(cmd, flags)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "env-model", cfg.Model)
	assert.Equal(t, 2, cfg.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 2*time.Second, cfg.RequestInterval)
	assert.Equal(t, utils.LogLevelDebug, cfg.LogLevel)
	assert.Equal(t, "sdk", cfg.Transport)
	assert.Equal(t, "env-openai", cfg.APIKey())
	assert.False(t, cfg.Animate)
}

func TestBuildConfigAPIKeyFlag(t *testing.T) {
	flags := &cmdFlags{}
	cmd := newRootCommand(flags, strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, cmd.ParseFlags([]string{"--api-key", "flag-key"}))

	cfg, err := buildConfig(cmd, flags)
	require.NoError(t, err)
	assert.Equal(t, "deepseek", cfg.Provider)
	assert.Equal(t, "flag-key", cfg.APIKey())
	assert.True(t, cfg.Animate)
}

func TestBuildConfigRejectsBadLogLevel(t *testing.T) {
	flags := &cmdFlags{}
	cmd := newRootCommand(flags, strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, cmd.ParseFlags([]string{"--log-level", "loud"}))

	_, err := buildConfig(cmd, flags)
	assert.Error(t, err)
}

func TestInvalidThemeFlag(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand(&cmdFlags{}, strings.NewReader(""), &out)
	cmd.SetArgs([]string{"--theme", "", "--length", "8", "--no-animation"})

	err := cmd.Execute()
	assert.Error(t, err)
}

func TestParseStyle(t *testing.T) {
	assert.Equal(t, aipoet.StyleClassical, parseStyle("1"))
	assert.Equal(t, aipoet.StyleAny, parseStyle("7"))
	assert.Equal(t, aipoet.StyleModern, parseStyle("现代诗"))
	assert.Equal(t, aipoet.Style("sonnet"), parseStyle("sonnet"))
}
