package stats

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrMalformedLine  = errors.New("malformed line")
	ErrUnalignedChunk = errors.New("chunk does not end on a line terminator")
)

// LineError describes the first malformed line of a chunk in strict mode.
type LineError struct {
	Offset int
	Line   []byte
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("malformed line at offset %d (%s): %q", e.Offset, e.Reason, e.Line)
}

func (e *LineError) Is(target error) bool {
	return target == ErrMalformedLine
}

// Options controls Aggregate.
type Options struct {
	// Base is added to offsets in errors, normally the chunk start.
	Base int
	// Final marks the last chunk of the input, which may lack a trailing
	// terminator.
	Final bool
	// Strict fails on the first malformed line instead of skipping it.
	Strict bool
	// SizeHint presizes the table.
	SizeHint int
}

// Partial is the result of aggregating one chunk.
type Partial struct {
	Table   *Table
	Records int64
	Skipped int64
}

// Aggregate folds every record of data into a new table. data must start at
// the beginning of a line. Lines without a separator, with an empty key or
// with a value that does not parse are skipped unless opts.Strict is set.
func Aggregate(data []byte, opts Options) (*Partial, error) {
	if !opts.Final && len(data) > 0 && data[len(data)-1] != endLine {
		return nil, fmt.Errorf("offset %d: %w", opts.Base+len(data), ErrUnalignedChunk)
	}

	p := &Partial{Table: NewTable(opts.SizeHint)}
	n := len(data)
	pos := 0
	for pos < n {
		start := pos

		// key: stop at the separator or at the end of the line
		sep := -1
		for ; pos < n; pos++ {
			c := data[pos]
			if c == valueSep {
				sep = pos
				break
			}
			if c == endLine {
				break
			}
		}

		reason := ""
		switch {
		case sep == -1:
			reason = "missing separator"
		case sep == start:
			reason = "empty key"
		default:
			value, used, ok := ParseValue(data[sep+1:])
			if ok {
				p.Table.Observe(data[start:sep], value)
				p.Records++
				pos = sep + 1 + used
				continue
			}
			pos = sep + 1 + used
			reason = "invalid value"
		}

		// skip the rest of the malformed line
		end := n
		if i := bytes.IndexByte(data[pos:], endLine); i != -1 {
			end = pos + i
		}
		if opts.Strict {
			return nil, &LineError{Offset: opts.Base + start, Line: bytes.Clone(data[start:end]), Reason: reason}
		}
		p.Skipped++
		pos = end + 1
	}
	return p, nil
}
