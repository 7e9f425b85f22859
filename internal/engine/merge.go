package engine

import (
	"slices"
	"unsafe"

	"github.com/dolthub/swiss"

	"github.com/weirdgiraffe/brcstats/internal/stats"
)

// Result is the merged, global mapping from key to statistics. Keys are owned
// by the result and do not reference the input.
type Result struct {
	m       *swiss.Map[string, *stats.Stat]
	records int64
	skipped int64
}

// NewResult returns an empty result with room for about size keys.
func NewResult(size int) *Result {
	return &Result{m: swiss.NewMap[string, *stats.Stat](uint32(max(size, 16)))}
}

// Merge folds all partials into one result. Partials are consumed: their
// slots are cleared so the tables can be collected. nil partials are ignored.
func Merge(parts []*stats.Partial) *Result {
	size := 0
	for _, p := range parts {
		if p != nil {
			size = max(size, p.Table.Len())
		}
	}
	res := NewResult(size)
	for i, p := range parts {
		if p == nil {
			continue
		}
		res.Fold(p)
		parts[i] = nil
	}
	return res
}

// Fold merges one partial into r.
func (r *Result) Fold(p *stats.Partial) {
	r.records += p.Records
	r.skipped += p.Skipped
	for _, e := range p.Table.Entries() {
		// lookup without copying the key out of the source
		if s, ok := r.m.Get(unsafe.String(unsafe.SliceData(e.Key), len(e.Key))); ok {
			s.Merge(e.Stat)
			continue
		}
		s := e.Stat
		r.m.Put(string(e.Key), &s)
	}
}

func (r *Result) Len() int {
	return r.m.Count()
}

func (r *Result) Get(key string) (stats.Stat, bool) {
	s, ok := r.m.Get(key)
	if !ok {
		return stats.Stat{}, false
	}
	return *s, true
}

// Keys returns all keys in ascending byte-wise order.
func (r *Result) Keys() []string {
	keys := make([]string, 0, r.m.Count())
	r.m.Iter(func(k string, _ *stats.Stat) bool {
		keys = append(keys, k)
		return false
	})
	slices.Sort(keys)
	return keys
}

// Records is the number of records folded into the result.
func (r *Result) Records() int64 { return r.records }

// Skipped is the number of malformed lines that were ignored.
func (r *Result) Skipped() int64 { return r.skipped }
