package x3270protocol

import (
	"io"
	"log/slog"
	"strings"
	"unicode"
)

// LineReader is the read half of a Transport.
type LineReader interface {
	ReadLine() (string, error)
}

// readerState is the position of a ResponseParser within one response.
type readerState int

const (
	// stateCollectingData accepts data lines until the status line arrives.
	stateCollectingData readerState = iota
	// stateReadingResult expects exactly one result line.
	stateReadingResult
	// stateDone means the response is complete.
	stateDone
)

// ResponseParser consumes the lines of a single response from the
// emulator: zero or more data lines, one status line and one result line.
type ResponseParser struct {
	logger *slog.Logger
}

// NewResponseParser creates a new response parser. A nil logger discards
// the per-line debug records.
func NewResponseParser(logger *slog.Logger) *ResponseParser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ResponseParser{logger: logger}
}

// Read reads one complete response from r. On a read error the partially
// filled Response is returned along with the error.
func (p *ResponseParser) Read(r LineReader) (Response, error) {
	var resp Response
	state := stateCollectingData

	for state != stateDone {
		line, err := r.ReadLine()
		if err != nil {
			return resp, err
		}

		switch state {
		case stateCollectingData:
			p.logger.Debug("stdout line", "line", trimRightSpace(line))
			if payload, ok := ParseDataLine(line); ok {
				resp.Data = append(resp.Data, payload)
				continue
			}
			resp.StatusLine = strings.TrimRight(line, "\r\n")
			state = stateReadingResult

		case stateReadingResult:
			resp.Result = trimRightSpace(line)
			p.logger.Debug("result line", "result", resp.Result)
			state = stateDone
		}
	}

	return resp, nil
}

// ParseDataLine reports whether line is a data line and returns its payload
// with the "data: " prefix and the line ending removed.
func ParseDataLine(line string) (string, bool) {
	if !strings.HasPrefix(line, DataPrefix) {
		return "", false
	}
	payload := ""
	if len(line) > dataPrefixLen {
		payload = line[dataPrefixLen:]
	}
	return strings.TrimRight(payload, "\r\n"), true
}

func trimRightSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
