package stats

import (
	"errors"
	"fmt"
	"testing"
)

func TestStat(t *testing.T) {
	t.Parallel()

	s := NewStat(10)
	s.Add(20)
	s.Add(-5)
	want := Stat{Min: -5, Max: 20, Sum: 25, Count: 3}
	if s != want {
		t.Fatalf("got %+v, want %+v", s, want)
	}
	if m := s.Mean(); m != 25.0/3 {
		t.Fatalf("Mean() = %v", m)
	}

	a, b := NewStat(1), NewStat(7)
	b.Add(3)
	ab, ba := a, b
	ab.Merge(b)
	ba.Merge(a)
	if ab != ba {
		t.Fatalf("Merge is not commutative: %+v != %+v", ab, ba)
	}
	if ab != (Stat{Min: 1, Max: 7, Sum: 11, Count: 3}) {
		t.Fatalf("Merge() = %+v", ab)
	}
}

func TestTable(t *testing.T) {
	t.Parallel()

	tbl := NewTable(0)
	const keys = 10000
	for round := 0; round < 3; round++ {
		for i := 0; i < keys; i++ {
			tbl.Observe([]byte(fmt.Sprintf("key-%d", i)), float64(i+round))
		}
	}
	if tbl.Len() != keys {
		t.Fatalf("Len() = %d, want %d", tbl.Len(), keys)
	}
	for _, i := range []int{0, 1, 4095, 4096, 9999} {
		got, ok := tbl.Lookup([]byte(fmt.Sprintf("key-%d", i)))
		want := Stat{Min: float64(i), Max: float64(i + 2), Sum: float64(3*i + 3), Count: 3}
		if !ok || got != want {
			t.Fatalf("Lookup(key-%d) = %+v, %v, want %+v", i, got, ok, want)
		}
	}
	if _, ok := tbl.Lookup([]byte("missing")); ok {
		t.Fatal("Lookup(missing) found a key")
	}
}

func TestTableKeysAreByteExact(t *testing.T) {
	t.Parallel()

	tbl := NewTable(0)
	tbl.Observe([]byte("Zürich"), 1)
	tbl.Observe([]byte("Zürich"), 2)
	tbl.Observe([]byte("zürich"), 3)
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		in          string
		want        map[string]Stat
		wantRecords int64
		wantSkipped int64
	}{
		{
			name: "basic",
			in:   "A;10.0\nB;5.0\nA;20.0\n",
			want: map[string]Stat{
				"A": {Min: 10, Max: 20, Sum: 30, Count: 2},
				"B": {Min: 5, Max: 5, Sum: 5, Count: 1},
			},
			wantRecords: 3,
		},
		{
			name: "bad line is skipped",
			in:   "A;10.0\nbadline\nA;20.0\n",
			want: map[string]Stat{
				"A": {Min: 10, Max: 20, Sum: 30, Count: 2},
			},
			wantRecords: 2,
			wantSkipped: 1,
		},
		{
			name: "every kind of malformed line",
			in:   "A;1.0\n;2.0\nB;\nC;abc\nD;1.0x\n\nE\nA;3.0",
			want: map[string]Stat{
				"A": {Min: 1, Max: 3, Sum: 4, Count: 2},
			},
			wantRecords: 2,
			wantSkipped: 6,
		},
		{
			name: "split on first separator only",
			in:   "A;B;1.0\nA;2.0\n",
			want: map[string]Stat{
				"A": {Min: 2, Max: 2, Sum: 2, Count: 1},
			},
			wantRecords: 1,
			wantSkipped: 1,
		},
		{
			name: "unterminated final record",
			in:   "A;-1.5\nA;2.5",
			want: map[string]Stat{
				"A": {Min: -1.5, Max: 2.5, Sum: 1, Count: 2},
			},
			wantRecords: 2,
		},
		{
			name: "crlf",
			in:   "A;1.0\r\nA;2.0\r\n",
			want: map[string]Stat{
				"A": {Min: 1, Max: 2, Sum: 3, Count: 2},
			},
			wantRecords: 2,
		},
		{
			name: "empty",
			in:   "",
			want: map[string]Stat{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Aggregate([]byte(tt.in), Options{Final: true})
			if err != nil {
				t.Fatalf("failed to aggregate: %v", err)
			}
			if p.Records != tt.wantRecords || p.Skipped != tt.wantSkipped {
				t.Fatalf("records/skipped = %d/%d, want %d/%d", p.Records, p.Skipped, tt.wantRecords, tt.wantSkipped)
			}
			if p.Table.Len() != len(tt.want) {
				t.Fatalf("got %d keys, want %d", p.Table.Len(), len(tt.want))
			}
			for key, want := range tt.want {
				got, ok := p.Table.Lookup([]byte(key))
				if !ok || got != want {
					t.Fatalf("key %q = %+v, %v, want %+v", key, got, ok, want)
				}
			}
		})
	}
}

func TestAggregateStrict(t *testing.T) {
	t.Parallel()

	_, err := Aggregate([]byte("A;1.0\nB;oops\nC;2.0\n"), Options{Base: 100, Final: true, Strict: true})
	if !errors.Is(err, ErrMalformedLine) {
		t.Fatalf("Aggregate() error = %v, want ErrMalformedLine", err)
	}
	var lErr *LineError
	if !errors.As(err, &lErr) {
		t.Fatalf("Aggregate() error = %T, want *LineError", err)
	}
	if lErr.Offset != 106 || string(lErr.Line) != "B;oops" || lErr.Reason != "invalid value" {
		t.Fatalf("got %+v", lErr)
	}
}

func TestAggregateUnaligned(t *testing.T) {
	t.Parallel()

	_, err := Aggregate([]byte("A;1.0\nB;2"), Options{})
	if !errors.Is(err, ErrUnalignedChunk) {
		t.Fatalf("Aggregate() error = %v, want ErrUnalignedChunk", err)
	}
}

func BenchmarkAggregate(b *testing.B) {
	var data []byte
	for i := 0; i < 100000; i++ {
		data = fmt.Appendf(data, "station-%d;%d.%d\n", i%413, i%100-50, i%10)
	}
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Aggregate(data, Options{Final: true}); err != nil {
			b.Fatalf("failed to aggregate: %v", err)
		}
	}
}
