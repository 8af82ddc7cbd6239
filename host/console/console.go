// Package console reads the node's debug UART: CRLF-framed lines, some of
// them "name=value" readings printed by the firmware's PrintInt16.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Line is one line of device output
type Line struct {
	At       time.Time
	Text     string
	Key      string // set when Text is "key=value" with a numeric value
	Value    int
	HasValue bool
}

// ParseLine splits a device line into its reading, if any.
func ParseLine(text string, at time.Time) Line {
	l := Line{At: at, Text: text}
	key, value, ok := strings.Cut(text, "=")
	if !ok || key == "" || strings.ContainsAny(key, " :") {
		return l
	}
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return l
	}
	l.Key, l.Value, l.HasValue = key, v, true
	return l
}

// Reader turns a byte stream into Lines
type Reader struct {
	src io.Reader
	now func() time.Time
}

// NewReader returns a reader over the device stream
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src, now: time.Now}
}

// Run delivers lines to fn until ctx is done or the stream ends. Read
// timeouts from the port (zero-byte reads) are retried.
func (r *Reader) Run(ctx context.Context, fn func(Line)) error {
	scanner := bufio.NewScanner(&retryReader{ctx: ctx, src: r.src})
	for scanner.Scan() {
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}
		fn(ParseLine(text, r.now()))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("console: read: %w", err)
	}
	return ctx.Err()
}

// retryReader hides read timeouts until the context is cancelled
type retryReader struct {
	ctx context.Context
	src io.Reader
}

func (rr *retryReader) Read(p []byte) (int, error) {
	for {
		if err := rr.ctx.Err(); err != nil {
			return 0, io.EOF
		}
		n, err := rr.src.Read(p)
		if n > 0 {
			return n, nil
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if err == io.EOF && !isTimeoutSource(rr.src) {
			return 0, io.EOF
		}
	}
}

// TimeoutSource marks streams whose zero-byte reads mean "no data yet"
// rather than end of stream, like a serial port opened with a read timeout.
type TimeoutSource interface {
	ReadTimesOut() bool
}

func isTimeoutSource(src io.Reader) bool {
	ts, ok := src.(TimeoutSource)
	return ok && ts.ReadTimesOut()
}

// Format renders a line for the terminal
func Format(l Line) string {
	stamp := l.At.Format("15:04:05.000")
	if l.HasValue {
		return fmt.Sprintf("%s %-8s %d", stamp, l.Key, l.Value)
	}
	return stamp + " " + l.Text
}
