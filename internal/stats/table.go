package stats

import (
	"bytes"

	"github.com/zeebo/xxh3"
)

const defaultTableSize = 1 << 12

// Entry is one key of a Table. Key aliases the bytes the table was fed from.
type Entry struct {
	Key  []byte
	Hash uint64
	Stat Stat
}

// Table is an open-addressing hash table from raw key bytes to Stat.
// Two keys are equal iff their bytes are identical. A Table is not safe for
// concurrent use; each chunk owns its own.
type Table struct {
	// 0 marks an empty slot, otherwise index+1 into entries
	slots   []int32
	entries []Entry
	mask    uint64
}

// NewTable returns a table with room for about size/2 keys before growing.
func NewTable(size int) *Table {
	n := defaultTableSize
	for n < size {
		n <<= 1
	}
	return &Table{
		slots:   make([]int32, n),
		entries: make([]Entry, 0, n/2),
		mask:    uint64(n - 1),
	}
}

// Observe folds value into the statistics of key.
func (t *Table) Observe(key []byte, value float64) {
	h := xxh3.Hash(key)
	for i := h & t.mask; ; i = (i + 1) & t.mask {
		slot := t.slots[i]
		if slot == 0 {
			t.entries = append(t.entries, Entry{Key: key, Hash: h, Stat: NewStat(value)})
			t.slots[i] = int32(len(t.entries))
			if 2*len(t.entries) > len(t.slots) {
				t.grow()
			}
			return
		}
		e := &t.entries[slot-1]
		if e.Hash == h && bytes.Equal(e.Key, key) {
			e.Stat.Add(value)
			return
		}
	}
}

// Lookup returns the statistics of key.
func (t *Table) Lookup(key []byte) (Stat, bool) {
	h := xxh3.Hash(key)
	for i := h & t.mask; ; i = (i + 1) & t.mask {
		slot := t.slots[i]
		if slot == 0 {
			return Stat{}, false
		}
		e := &t.entries[slot-1]
		if e.Hash == h && bytes.Equal(e.Key, key) {
			return e.Stat, true
		}
	}
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the entries in insertion order. The slice is owned by the
// table.
func (t *Table) Entries() []Entry {
	return t.entries
}

func (t *Table) grow() {
	n := len(t.slots) << 1
	t.slots = make([]int32, n)
	t.mask = uint64(n - 1)
	for idx := range t.entries {
		for i := t.entries[idx].Hash & t.mask; ; i = (i + 1) & t.mask {
			if t.slots[i] == 0 {
				t.slots[i] = int32(idx + 1)
				break
			}
		}
	}
}
