// Package stats holds the per-key running statistics and the chunk-local
// aggregation that produces them.
package stats

// Stat accumulates min, max, sum and count of the values seen for one key.
// The mean is derived on read.
type Stat struct {
	Min   float64
	Max   float64
	Sum   float64
	Count int64
}

func NewStat(value float64) Stat {
	return Stat{
		Min:   value,
		Max:   value,
		Sum:   value,
		Count: 1,
	}
}

func (s *Stat) Add(value float64) {
	s.Sum += value
	s.Count++
	if s.Min > value {
		s.Min = value
	}
	if s.Max < value {
		s.Max = value
	}
}

// Merge folds other into s. Merge is associative and commutative.
func (s *Stat) Merge(other Stat) {
	if s.Min > other.Min {
		s.Min = other.Min
	}
	if s.Max < other.Max {
		s.Max = other.Max
	}
	s.Sum += other.Sum
	s.Count += other.Count
}

func (s Stat) Mean() float64 {
	return s.Sum / float64(s.Count)
}
