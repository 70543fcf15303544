package llm

import (
	"bufio"
	"bytes"
	"io"
)

const maxEventLine = 1024 * 1024

// Event is one "data:" line of a server-sent event stream.
type Event struct {
	Type string
	Data []byte
}

// SSEDecoder reads a chat-completion event stream line by line. Each data
// line is its own event; chat endpoints do not always separate chunks with a
// blank line, so events are not accumulated across lines.
type SSEDecoder struct {
	reader    *bufio.Scanner
	current   Event
	eventType string
}

func NewSSEDecoder(reader io.Reader) *SSEDecoder {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	return &SSEDecoder{
		reader: scanner,
	}
}

func (d *SSEDecoder) Next() bool {
	for d.reader.Scan() {
		line := bytes.TrimRight(d.reader.Bytes(), "\r")

		if len(line) == 0 {
			d.eventType = ""
			continue
		}

		name, value, _ := bytes.Cut(line, []byte(":"))

		// Remove optional space after colon
		if len(value) > 0 && value[0] == ' ' {
			value = value[1:]
		}

		switch string(name) {
		case "":
			continue // comment
		case "event":
			d.eventType = string(value)
		case "data":
			d.current = Event{
				Type: d.eventType,
				Data: append([]byte(nil), value...),
			}
			return true
		}
	}

	return false
}

func (d *SSEDecoder) Event() Event {
	return d.current
}

// Err reports a read failure; a clean end of stream returns nil.
func (d *SSEDecoder) Err() error {
	return d.reader.Err()
}
