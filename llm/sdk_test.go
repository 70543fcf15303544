package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/aipoet/config"
	"github.com/teilomillet/aipoet/providers"
)

func newSDKTestStreamer(serverURL string) *SDKStreamer {
	cfg := config.NewConfig()
	config.ApplyOptions(cfg, config.SetAPIKey("sk-test"), config.SetTimeout(5*time.Second))
	provider := providers.NewDeepSeekProvider("sk-test", cfg.Model, nil)
	provider.SetEndpoint(serverURL + "/v1/chat/completions")
	return NewSDKStreamer(provider, cfg, nil)
}

func TestSDKStreamerStreams(t *testing.T) {
	var path atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"明月\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"几时有\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	var tokens []string
	text, err := newSDKTestStreamer(server.URL).Stream(context.Background(), &StreamRequest{
		SystemPrompt: "s", Prompt: "p", Temperature: 0.3, TopP: 0.9, MaxTokens: 100, Stream: true,
	}, func(tok string) { tokens = append(tokens, tok) })

	require.NoError(t, err)
	assert.Equal(t, "明月几时有", text)
	assert.Equal(t, []string{"明月", "几时有"}, tokens)
	assert.Equal(t, "/v1/chat/completions", path.Load())
}

func TestSDKStreamerSingleAttemptOnError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom"}}`)
	}))
	defer server.Close()

	_, err := newSDKTestStreamer(server.URL).Stream(context.Background(), &StreamRequest{Prompt: "p", Stream: true}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSDKStreamerSkipsMalformedChunk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"明月\"}}]}\n\n")
		fmt.Fprint(w, "data: {not json\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"几时有\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	var tokens []string
	text, err := newSDKTestStreamer(server.URL).Stream(context.Background(), &StreamRequest{
		Prompt: "p", Temperature: 1.2, TopP: 0.5, Stream: true,
	}, func(tok string) { tokens = append(tokens, tok) })

	require.NoError(t, err)
	assert.Equal(t, "明月几时有", text)
	assert.Equal(t, []string{"明月", "几时有"}, tokens)
}

func TestSDKStreamerSendsStreamFlag(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	text, err := newSDKTestStreamer(server.URL).Stream(context.Background(), &StreamRequest{
		Prompt: "p", Temperature: 0.3, TopP: 0.9, MaxTokens: 50, Stream: true,
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, true, body["stream"])
	assert.Equal(t, 0.3, body["temperature"])
	assert.Equal(t, 0.9, body["top_p"])
	assert.Equal(t, "deepseek-chat", body["model"])
}
