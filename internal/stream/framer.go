package stream

import "strings"

// LineFramer reassembles newline-delimited records from a stream of
// arbitrarily-sized chunks. The transport hands over whatever byte ranges
// it received; record boundaries land anywhere, so the framer buffers the
// trailing partial line between writes. The emitted record sequence is
// identical no matter how the input was chunked.
type LineFramer struct {
	rest string
}

// NewLineFramer returns a framer with an empty buffer.
func NewLineFramer() *LineFramer {
	return &LineFramer{}
}

// Write appends chunk to the internal buffer and returns every complete
// record that became available. The final segment after the last newline is
// retained for the next Write.
func (f *LineFramer) Write(chunk string) []string {
	if chunk == "" {
		return nil
	}
	parts := strings.Split(f.rest+chunk, "\n")
	f.rest = parts[len(parts)-1]
	return parts[:len(parts)-1]
}

// Flush returns the buffered remainder, if any, once the stream has ended.
// A whitespace-only remainder is dropped: it is trailing padding, not a
// truncated record worth classifying.
func (f *LineFramer) Flush() (string, bool) {
	rest := f.rest
	f.rest = ""
	if strings.TrimSpace(rest) == "" {
		return "", false
	}
	return rest, true
}
