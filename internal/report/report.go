// Package report renders aggregated statistics as
//
//	{k1=min/mean/max, k2=min/mean/max, ...}
//
// with keys in ascending byte-wise order and every number fixed to one
// decimal. Rounding is that of strconv: the exact binary value is rounded to
// the nearest tenth, ties to even. Negative zero is printed as 0.0.
package report

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"github.com/weirdgiraffe/brcstats/internal/stats"
)

// Source is a key to statistics mapping with sorted key enumeration.
type Source interface {
	Keys() []string
	Get(key string) (stats.Stat, bool)
}

const bufSize = 64 << 10

// Write renders src to w. w only sees whole buffers, not one write per key.
func Write(w io.Writer, src Source) error {
	bw := bufio.NewWriterSize(w, bufSize)
	scratch := make([]byte, 0, 128)

	bw.WriteByte('{')
	for i, key := range src.Keys() {
		s, ok := src.Get(key)
		if !ok {
			continue
		}
		scratch = scratch[:0]
		if i != 0 {
			scratch = append(scratch, ", "...)
		}
		scratch = AppendEntry(scratch, key, s)
		bw.Write(scratch)
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// Format renders src into a new byte slice.
func Format(src Source) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail
	_ = Write(&buf, src)
	return buf.Bytes()
}

// AppendEntry appends "key=min/mean/max" to b.
func AppendEntry(b []byte, key string, s stats.Stat) []byte {
	b = append(b, key...)
	b = append(b, '=')
	b = appendTenths(b, s.Min)
	b = append(b, '/')
	b = appendTenths(b, s.Mean())
	b = append(b, '/')
	b = appendTenths(b, s.Max)
	return b
}

func appendTenths(b []byte, v float64) []byte {
	n := len(b)
	b = strconv.AppendFloat(b, v, 'f', 1, 64)
	if string(b[n:]) == "-0.0" {
		b = append(b[:n], "0.0"...)
	}
	return b
}
