package aipoet

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/teilomillet/aipoet/llm"
)

func init() {
	if err := llm.RegisterCustomValidation("poemstyle", func(fl validator.FieldLevel) bool {
		return Style(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
}

// Style is the poetic form the user asks for.
type Style string

const (
	StyleClassical Style = "古诗"
	StyleModern    Style = "现代诗"
	StyleFreeVerse Style = "自由体"
	StyleAny       Style = "不限"
)

// Styles lists the accepted styles in menu order.
var Styles = []Style{StyleClassical, StyleModern, StyleFreeVerse, StyleAny}

// Valid reports whether s is one of Styles.
func (s Style) Valid() bool {
	return slices.Contains(Styles, s)
}

// Instruction is the sentence embedded in the prompt for this style.
func (s Style) Instruction() string {
	switch s {
	case StyleClassical:
		return "请创作一首符合格律的古诗"
	case StyleModern:
		return "请创作一首现代诗"
	case StyleFreeVerse:
		return "请创作一首自由体诗歌"
	default:
		return "请创作一首诗歌"
	}
}

const (
	DefaultTheme  = "自然"
	DefaultLength = 8
	MinLength     = 4
	MaxLength     = 20
)

// UserRequest is what the user asked for. It is built once per run.
type UserRequest struct {
	Theme  string `json:"theme" validate:"required,min=1"`
	Style  Style  `json:"poem_style" validate:"poemstyle"`
	Length int    `json:"length" validate:"min=4,max=20"`
}

// NewUserRequest builds and validates a request.
func NewUserRequest(theme string, style Style, length int) (UserRequest, error) {
	req := UserRequest{Theme: theme, Style: style, Length: length}
	if err := req.Validate(); err != nil {
		return UserRequest{}, err
	}
	return req, nil
}

func (r UserRequest) Validate() error {
	if err := llm.Validate(&r); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}
	return nil
}

// ClampLength forces n into [MinLength, MaxLength].
func ClampLength(n int) int {
	return max(MinLength, min(MaxLength, n))
}
