package aipoet

import (
	"fmt"
	"regexp"
	"strings"
)

// SystemPrompt is sent ahead of every user prompt.
const SystemPrompt = "你是一位专业的诗人，擅长创作各种风格的诗歌。"

const (
	// MaskPlaceholder replaces forbidden terms. It must not contain any of
	// the characters stripped by PreventPromptInjection.
	MaskPlaceholder = "[屏蔽]"
	MaxPromptRunes  = 1000

	maxMaskPasses = 8
)

// placeholderCandidates are tried in order; the first one no forbidden term
// matches is used.
var placeholderCandidates = []string{MaskPlaceholder, "[已过滤]", "□"}

var injectionChars = regexp.MustCompile(`[;\\/*]`)

// BuildPrompt renders the user message for req.
func BuildPrompt(req UserRequest) string {
	return fmt.Sprintf(`你是一位富有诗意的AI诗人，请根据用户要求创作诗歌。
创作要求：
1. 主题：%s
2. %s
3. 诗歌长度：%d行
4. 语言优美，富有意境

注意：请确保内容积极健康，避免任何不当内容。`, req.Theme, req.Style.Instruction(), req.Length)
}

// Sanitizer masks a fixed list of forbidden terms.
type Sanitizer struct {
	patterns    []*regexp.Regexp
	placeholder string
}

func NewSanitizer(words []string) *Sanitizer {
	s := &Sanitizer{}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		s.patterns = append(s.patterns, regexp.MustCompile("(?i)"+regexp.QuoteMeta(w)))
	}
	for _, candidate := range placeholderCandidates {
		if !s.matches(candidate) {
			s.placeholder = candidate
			break
		}
	}
	return s
}

// Placeholder is the text forbidden terms are replaced with. It is empty
// when every candidate contains a forbidden term, in which case matches are
// removed.
func (s *Sanitizer) Placeholder() string {
	return s.placeholder
}

// FilterSensitiveWords replaces every forbidden term, in any case, until
// none is left.
func (s *Sanitizer) FilterSensitiveWords(text string) string {
	for pass := 0; pass < maxMaskPasses; pass++ {
		if !s.matches(text) {
			return text
		}
		text = s.mask(text, s.placeholder)
	}
	// The placeholder keeps forming a term with its neighbours.
	for s.matches(text) {
		text = s.mask(text, "")
	}
	return text
}

func (s *Sanitizer) mask(text, replacement string) string {
	for _, p := range s.patterns {
		text = p.ReplaceAllLiteralString(text, replacement)
	}
	return text
}

func (s *Sanitizer) matches(text string) bool {
	for _, p := range s.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Sanitize strips injection characters before masking so that a term split
// by them ("暴;力") is still caught, then truncates.
func (s *Sanitizer) Sanitize(prompt string) string {
	return truncateRunes(s.FilterSensitiveWords(stripInjectionChars(prompt)), MaxPromptRunes)
}

// PreventPromptInjection removes ; \ / * and truncates to MaxPromptRunes.
func PreventPromptInjection(prompt string) string {
	return truncateRunes(stripInjectionChars(prompt), MaxPromptRunes)
}

func stripInjectionChars(s string) string {
	return injectionChars.ReplaceAllLiteralString(s, "")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
