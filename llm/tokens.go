package llm

import (
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/teilomillet/aipoet/utils"
)

const fallbackEncoding = "cl100k_base"

// TokenCounter estimates how many tokens a text costs.
type TokenCounter interface {
	Count(text string) int
}

// RuneCounter counts one token per rune. It is the offline stand-in when no
// BPE table can be loaded.
type RuneCounter struct{}

func (RuneCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

func (c *TiktokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// NewTokenCounter picks the model's encoding, then cl100k_base, then falls
// back to RuneCounter. Loading an encoding may need network access the first
// time, so failure is only logged.
func NewTokenCounter(model string, logger utils.Logger) TokenCounter {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.Debug("No encoding for model, trying default", "model", model, "encoding", fallbackEncoding)
		encoding, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			logger.Warn("Token encoding unavailable, counting runes instead", "error", err)
			return RuneCounter{}
		}
	}
	return &TiktokenCounter{encoding: encoding}
}
