package aipoet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/teilomillet/aipoet/config"
	"github.com/teilomillet/aipoet/llm"
	"github.com/teilomillet/aipoet/utils"
)

// scriptedStreamer replays a fixed list of outcomes, one per call.
type scriptedStreamer struct {
	outcomes []streamOutcome
	calls    int
	requests []*llm.StreamRequest
}

type streamOutcome struct {
	tokens []string
	err    error
}

func (s *scriptedStreamer) Name() string { return "scripted" }

func (s *scriptedStreamer) Stream(_ context.Context, req *llm.StreamRequest, onToken llm.TokenHandler) (string, error) {
	s.requests = append(s.requests, req)
	o := s.outcomes[min(s.calls, len(s.outcomes)-1)]
	s.calls++
	if o.err != nil {
		return "", o.err
	}
	text := ""
	for _, t := range o.tokens {
		onToken(t)
		text += t
	}
	return text, nil
}

var errBoom = errors.New("connection reset")

// fakeGenerator answers per parameter label.
type fakeGenerator struct {
	poems map[string]string
	seen  []ParameterSet
}

func (f *fakeGenerator) Generate(_ context.Context, _ UserRequest, params ParameterSet) Generation {
	f.seen = append(f.seen, params)
	if poem, ok := f.poems[params.Label]; ok {
		return Generation{Text: poem, Attempts: 1}
	}
	return Generation{Fallback: true, Attempts: 3, Err: errBoom}
}

func testConfig(t *testing.T, opts ...config.ConfigOption) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	config.ApplyOptions(cfg,
		config.SetAPIKey("test-key"),
		config.SetRetryDelay(0),
		config.SetStreamDelay(0),
		config.SetAnimate(false),
		config.SetOutputDir(t.TempDir()),
		config.SetLogger(utils.NewNopLogger()),
		config.SetTimeout(5*time.Second),
	)
	config.ApplyOptions(cfg, opts...)
	return cfg
}

// failingServer answers every request with status and counts hits.
func failingServer(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, `{"error":{"message":"upstream unavailable"}}`, status)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}
