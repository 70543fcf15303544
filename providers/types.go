package providers

import "errors"

// ErrStreamDone is returned by ParseStreamResponse for the "[DONE]" terminator.
var ErrStreamDone = errors.New("stream done")

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries the per-call parts of a chat completion. Sampling values
// travel as options so a provider's defaults can fill the gaps.
type Request struct {
	SystemPrompt string
	Messages     []Message
}

// AllMessages returns the system prompt, if any, followed by Messages.
func (r *Request) AllMessages() []Message {
	msgs := make([]Message, 0, len(r.Messages)+1)
	if r.SystemPrompt != "" {
		msgs = append(msgs, Message{Role: "system", Content: r.SystemPrompt})
	}
	return append(msgs, r.Messages...)
}

// RequestBuilder helps construct Request objects.
type RequestBuilder struct {
	systemPrompt string
	messages     []Message
}

func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{
		messages: []Message{},
	}
}

func (rb *RequestBuilder) WithSystemPrompt(prompt string) *RequestBuilder {
	rb.systemPrompt = prompt
	return rb
}

// WithPrompt appends a user message.
func (rb *RequestBuilder) WithPrompt(prompt string) *RequestBuilder {
	return rb.WithMessage("user", prompt)
}

func (rb *RequestBuilder) WithMessage(role, content string) *RequestBuilder {
	rb.messages = append(rb.messages, Message{
		Role:    role,
		Content: content,
	})
	return rb
}

func (rb *RequestBuilder) Build() *Request {
	return &Request{
		SystemPrompt: rb.systemPrompt,
		Messages:     rb.messages,
	}
}
