package aipoet

import (
	"bufio"
	"strings"
)

const (
	AnalysisStructured = "这首诗歌采用了传统格式，注重韵律和节奏"
	AnalysisLongForm   = "这是一首长诗，包含丰富意象和情感表达"
	AnalysisConcise    = "这是一首简洁的诗歌，语言精炼意境深远"

	longFormLines = 10
)

// Analyze labels a poem: full-width punctuation wins, then length.
func Analyze(poem string) string {
	switch {
	case strings.ContainsAny(poem, "，。："):
		return AnalysisStructured
	case countLines(poem) > longFormLines:
		return AnalysisLongForm
	default:
		return AnalysisConcise
	}
}

// countLines counts lines the way a line reader would: a trailing newline
// does not open a new line.
func countLines(text string) int {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 4096), len(text)+1)
	n := 0
	for scanner.Scan() {
		n++
	}
	return n
}
