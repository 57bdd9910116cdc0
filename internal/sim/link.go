package sim

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.bug.st/serial"
)

// The orchestrator protocol is line-oriented ASCII at 115200 baud:
// the orchestrator sends "RPM:123.456", the controller replies
// "PITCH:12.345". A bare "STATUS" query is answered with one JSON line.

// MessageKind classifies a received line.
type MessageKind int

const (
	// MessageRPM carries a rotor speed sample.
	MessageRPM MessageKind = iota

	// MessageStatus is a status snapshot request.
	MessageStatus

	// MessageUnknown is anything else (logged and skipped).
	MessageUnknown
)

// Message is one parsed line from the orchestrator.
type Message struct {
	Kind MessageKind
	RPM  float64
	Raw  string
}

// DefaultBaud is the orchestrator's serial rate.
const DefaultBaud = 115200

// OpenSerial opens the co-sim serial port in 8N1 mode.
func OpenSerial(portName string, baud int) (serial.Port, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", portName, err)
	}
	return port, nil
}

// Link speaks the orchestrator protocol over any byte stream, so tests
// run against in-memory buffers instead of a port.
type Link struct {
	w       io.Writer
	scanner *bufio.Scanner
}

// NewLink wraps a byte stream.
func NewLink(rw io.ReadWriter) *Link {
	return &Link{w: rw, scanner: bufio.NewScanner(rw)}
}

// Next blocks for one line and parses it. io.EOF is returned when the
// stream ends.
func (l *Link) Next() (Message, error) {
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return Message{}, err
		}
		return Message{}, io.EOF
	}

	raw := strings.TrimSpace(l.scanner.Text())
	msg := Message{Kind: MessageUnknown, Raw: raw}
	if raw == "" {
		return msg, nil
	}

	upper := strings.ToUpper(raw)
	switch {
	case strings.HasPrefix(upper, "RPM:"):
		v, err := strconv.ParseFloat(strings.TrimSpace(raw[len("RPM:"):]), 64)
		if err != nil {
			return msg, nil
		}
		msg.Kind = MessageRPM
		msg.RPM = v
	case upper == "STATUS":
		msg.Kind = MessageStatus
	}
	return msg, nil
}

// SendPitch replies with the commanded pitch in degrees.
func (l *Link) SendPitch(pitchDeg float64) error {
	if _, err := fmt.Fprintf(l.w, "PITCH:%.3f\n", pitchDeg); err != nil {
		return fmt.Errorf("write pitch: %w", err)
	}
	return nil
}

// SendStatus replies to a STATUS query with one payload line.
func (l *Link) SendStatus(payload []byte) error {
	if _, err := fmt.Fprintf(l.w, "%s\n", payload); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}
