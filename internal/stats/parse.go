package stats

import (
	"math"
	"strconv"
	"unsafe"
)

const (
	valueSep = ';'
	endLine  = '\n'

	// above this many digits the mantissa no longer fits the exact path
	maxFastDigits = 15
)

var pow10 = [...]float64{1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10, 1e11, 1e12, 1e13, 1e14, 1e15}

// ParseValue parses a decimal literal at the start of b: an optional sign,
// digits and an optional fractional part. The literal must be followed by a
// line terminator ("\n" or "\r\n") or the end of b. It returns the value and
// the number of bytes consumed including the terminator. When ok is false, n
// never extends past the terminator.
//
// profiling shows strconv.ParseFloat dominating the hot path, so the common
// shape is handled here and only unusually long literals fall back to it.
func ParseValue(b []byte) (value float64, n int, ok bool) {
	i := 0
	neg := false
	if i < len(b) && (b[i] == '-' || b[i] == '+') {
		neg = b[i] == '-'
		i++
	}

	var mantissa uint64
	digits, frac := 0, 0
	dot := false
	for ; i < len(b); i++ {
		c := b[i]
		if c >= '0' && c <= '9' {
			mantissa = mantissa*10 + uint64(c-'0')
			digits++
			if dot {
				frac++
			}
			continue
		}
		if c == '.' && !dot {
			dot = true
			continue
		}
		break
	}
	if digits == 0 {
		return 0, i, false
	}

	end := i
	switch {
	case i == len(b):
	case b[i] == endLine:
		i++
	case b[i] == '\r' && i+1 < len(b) && b[i+1] == endLine:
		i += 2
	case b[i] == '\r' && i+1 == len(b):
		i++
	default:
		return 0, i, false
	}

	if digits > maxFastDigits {
		v, err := strconv.ParseFloat(unsafe.String(unsafe.SliceData(b), end), 64)
		if err != nil {
			return 0, end, false
		}
		value = v
	} else {
		value = float64(mantissa) / pow10[frac]
		if neg {
			value = -value
		}
	}
	if math.Abs(value) > math.MaxFloat32 {
		return 0, end, false
	}
	return value, i, true
}
