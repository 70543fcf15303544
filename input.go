package aipoet

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInputClosed is returned when input ends before a valid request was read.
var ErrInputClosed = errors.New("input closed before a valid request was entered")

// InputCollector asks for a UserRequest on an interactive console.
type InputCollector struct {
	in  *bufio.Reader
	out io.Writer
	eof bool
}

func NewInputCollector(in io.Reader, out io.Writer) *InputCollector {
	return &InputCollector{in: bufio.NewReader(in), out: out}
}

// Collect prompts until the answers form a valid request. Missing answers
// take their defaults, so a closed input still yields a request.
func (c *InputCollector) Collect() (UserRequest, error) {
	for {
		req := c.ask()
		err := req.Validate()
		if err == nil {
			return req, nil
		}
		fmt.Fprintf(c.out, "❌ %v\n", err)
		if c.eof {
			return UserRequest{}, errors.Join(ErrInputClosed, err)
		}
	}
}

func (c *InputCollector) ask() UserRequest {
	fmt.Fprintln(c.out, "\n请提供诗歌创作要求：")

	theme := c.readLine("1. 诗歌主题（例如：春天、离别、大海）: ")
	if theme == "" {
		theme = DefaultTheme
		fmt.Fprintf(c.out, "⚠️ 未输入主题，使用默认主题: %s\n", theme)
	}

	fmt.Fprintln(c.out, "\n可选诗歌风格:")
	for i, s := range Styles {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, s)
	}
	style := ParseStyleChoice(c.readLine("选择诗歌风格 (1-4, 默认4): "))

	length := ParseLength(c.readLine(fmt.Sprintf("诗歌行数 (%d-%d, 默认%d): ", MinLength, MaxLength, DefaultLength)))

	return UserRequest{Theme: theme, Style: style, Length: length}
}

func (c *InputCollector) readLine(prompt string) string {
	fmt.Fprint(c.out, prompt)
	if c.eof {
		return ""
	}
	line, err := c.in.ReadString('\n')
	if err != nil {
		c.eof = true
	}
	return strings.TrimSpace(line)
}

// ParseStyleChoice maps a 1-based menu answer to a Style. Empty picks the
// last entry; anything else unrecognised is StyleAny.
func ParseStyleChoice(answer string) Style {
	if answer == "" {
		return Styles[len(Styles)-1]
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(Styles) {
		return StyleAny
	}
	return Styles[n-1]
}

// ParseLength reads a line count, clamping numbers and defaulting the rest.
func ParseLength(answer string) int {
	if answer == "" {
		return DefaultLength
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return DefaultLength
	}
	return ClampLength(n)
}
