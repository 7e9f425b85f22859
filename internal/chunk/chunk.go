// Package chunk splits a byte range of newline-terminated records into
// line-aligned pieces that can be aggregated independently.
package chunk

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	// DefaultTarget is the preferred chunk size in bytes.
	DefaultTarget = 1 << 20
	// DefaultLookahead bounds the search for a line terminator past the
	// target boundary. It must exceed the longest record:
	// key + ';' + value + '\n'.
	DefaultLookahead = 256

	endLine = '\n'
)

var (
	ErrInvalidSize       = errors.New("chunk size and lookahead must be positive")
	ErrMalformedBoundary = errors.New("no line terminator within lookahead window")
)

// BoundaryError reports a record that is longer than the lookahead window.
type BoundaryError struct {
	Offset int
	Window int
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("no line terminator in %d bytes after offset %d", e.Window, e.Offset)
}

func (e *BoundaryError) Is(target error) bool {
	return target == ErrMalformedBoundary
}

// Chunk is the half-open byte range [Start, End).
type Chunk struct {
	Index int
	Start int
	End   int
}

func (c Chunk) Len() int {
	return c.End - c.Start
}

// Plan partitions data into contiguous chunks of roughly target bytes. Every
// chunk except possibly the last ends right after a line terminator, so no
// record crosses a boundary.
func Plan(data []byte, target, lookahead int) ([]Chunk, error) {
	if target <= 0 || lookahead <= 0 {
		return nil, ErrInvalidSize
	}
	length := len(data)
	chunks := make([]Chunk, 0, length/target+1)

	start := 0
	for start < length {
		end := start + target
		if end >= length {
			chunks = append(chunks, Chunk{Index: len(chunks), Start: start, End: length})
			break
		}

		// begin at end-1 so a candidate right after a terminator is kept
		from := end - 1
		window := data[from:min(from+lookahead, length)]
		i := bytes.IndexByte(window, endLine)
		switch {
		case i != -1:
			end = from + i + 1
		case from+len(window) == length:
			end = length
		default:
			return nil, &BoundaryError{Offset: from, Window: lookahead}
		}

		chunks = append(chunks, Chunk{Index: len(chunks), Start: start, End: end})
		start = end
	}
	return chunks, nil
}
