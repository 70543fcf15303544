package aipoet

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/aipoet/config"
	"github.com/teilomillet/aipoet/llm"
)

func TestRunAllCallsFail(t *testing.T) {
	srv, hits := failingServer(t, http.StatusServiceUnavailable)
	cfg := testConfig(t, config.SetEndpoint(srv.URL))

	var out bytes.Buffer
	summary, err := Run(context.Background(), cfg, RunOptions{
		In:           strings.NewReader("春天\n4\n8\n"),
		Out:          &out,
		TokenCounter: llm.RuneCounter{},
		Now:          func() time.Time { return fixedNow },
	})
	require.NoError(t, err)

	assert.EqualValues(t, 12, hits.Load(), "three attempts for each of the four settings")
	assert.Equal(t, 0, summary.SuccessCount)
	assert.Equal(t, 4, summary.Total)
	assert.NoError(t, summary.WriteErr)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "poetry_comparison_春天.json"), summary.Filename)

	raw, err := os.ReadFile(summary.Filename)
	require.NoError(t, err)
	require.NoError(t, ValidateDocumentJSON(raw))

	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "春天", doc.Theme)
	require.Len(t, doc.Comparisons, 4)
	for i, set := range DefaultParameterSets() {
		assert.Equal(t, set.Params(), doc.Comparisons[i].Params)
		assert.Equal(t, FallbackPoem("春天", set.Temperature, set.TopP, 8), doc.Comparisons[i].Poem)
	}

	text := out.String()
	assert.Contains(t, text, "🎭 AI对话诗人 - 参数调优演示系统 🎭")
	assert.Contains(t, text, "📝 成功生成: 0/4 首诗歌")
	assert.Contains(t, text, "✅ 结果已保存到:")
}

func TestRunWithRequest(t *testing.T) {
	gen := &fakeGenerator{poems: map[string]string{"自由创作 (高随机性)": "自由的风"}}
	cfg := testConfig(t)
	req := UserRequest{Theme: "风", Style: StyleModern, Length: 6}

	var out bytes.Buffer
	summary, err := Run(context.Background(), cfg, RunOptions{
		Request:      &req,
		Out:          &out,
		Generator:    gen,
		TokenCounter: llm.RuneCounter{},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SuccessCount)
	assert.Equal(t, req, summary.Request)
	assert.FileExists(t, summary.Filename)
	assert.NotContains(t, out.String(), "请提供诗歌创作要求")
}

func TestRunRejectsInvalidRequest(t *testing.T) {
	req := UserRequest{Theme: "", Style: StyleAny, Length: 8}
	_, err := Run(context.Background(), testConfig(t), RunOptions{Request: &req, Out: &bytes.Buffer{}})
	assert.Error(t, err)
}

type panickingGenerator struct{}

func (panickingGenerator) Generate(context.Context, UserRequest, ParameterSet) Generation {
	panic("kaboom")
}

func TestRunRecoversPanic(t *testing.T) {
	req := UserRequest{Theme: "雨", Style: StyleAny, Length: 8}
	summary, err := Run(context.Background(), testConfig(t), RunOptions{
		Request:   &req,
		Out:       &bytes.Buffer{},
		Generator: panickingGenerator{},
	})
	assert.Nil(t, summary)
	assert.ErrorContains(t, err, "kaboom")
}

func TestReportFailure(t *testing.T) {
	var out bytes.Buffer
	ReportFailure(&out, assert.AnError)
	assert.Contains(t, out.String(), "❌ 程序发生未预期错误: ")
	assert.Contains(t, out.String(), "建议：请检查网络连接或API密钥")
}
