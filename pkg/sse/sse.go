// Package sse implements the Server-Sent Events wire format: writing
// events to a stream and parsing raw streams back into events.
// Follows the SSE specification (https://html.spec.whatwg.org/multipage/server-sent-events.html).
package sse

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
)

// Event represents a single Server-Sent Event.
type Event struct {
	Event string // Event type (the "event:" field)
	Data  string // Event data; newlines split into multiple "data:" fields
	ID    string // Event ID (the "id:" field)
	Retry int    // Reconnect delay in ms (the "retry:" field)
}

// WriteEvent serializes e to w, terminated by the blank line that ends
// an event. At least one data field is always written; browsers drop
// events whose data buffer stays empty.
func WriteEvent(w io.Writer, e Event) error {
	var sb strings.Builder

	if e.Event != "" {
		sb.WriteString("event: ")
		sb.WriteString(e.Event)
		sb.WriteByte('\n')
	}
	if e.ID != "" {
		sb.WriteString("id: ")
		sb.WriteString(e.ID)
		sb.WriteByte('\n')
	}
	if e.Retry > 0 {
		sb.WriteString("retry: ")
		sb.WriteString(strconv.Itoa(e.Retry))
		sb.WriteByte('\n')
	}
	for _, line := range strings.Split(e.Data, "\n") {
		sb.WriteString("data: ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteComment writes a comment line. Clients ignore it; proxies see
// traffic. Used as a keepalive.
func WriteComment(w io.Writer, text string) error {
	_, err := io.WriteString(w, ": "+text+"\n\n")
	return err
}

// Parse parses a raw SSE stream into its events.
func Parse(data []byte) []Event {
	if len(data) == 0 {
		return nil
	}

	var events []Event
	var current Event
	var dataLines []string

	flush := func() {
		if len(dataLines) > 0 || current.Event != "" || current.ID != "" {
			current.Data = strings.Join(dataLines, "\n")
			events = append(events, current)
		}
		current = Event{}
		dataLines = nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()

		// Empty line = end of event
		if line == "" {
			flush()
			continue
		}

		// Comment lines start with a colon
		if strings.HasPrefix(line, ":") {
			continue
		}

		colonIdx := strings.Index(line, ":")
		if colonIdx == -1 {
			continue
		}

		field := line[:colonIdx]
		value := line[colonIdx+1:]

		// Remove one leading space from the value (SSE spec)
		if len(value) > 0 && value[0] == ' ' {
			value = value[1:]
		}

		switch field {
		case "event":
			current.Event = value
		case "data":
			dataLines = append(dataLines, value)
		case "id":
			current.ID = value
		case "retry":
			if v, err := strconv.Atoi(value); err == nil && v >= 0 {
				current.Retry = v
			}
		}
	}

	// Handle a final event with no trailing blank line
	flush()

	return events
}

// LastEvent returns the final complete event of a stream, or nil.
func LastEvent(data []byte) *Event {
	events := Parse(data)
	if len(events) == 0 {
		return nil
	}
	return &events[len(events)-1]
}
