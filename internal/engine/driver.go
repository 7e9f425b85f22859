// Package engine runs the aggregation: it plans chunks over a byte source,
// aggregates them in parallel and merges the chunk-local results.
package engine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/weirdgiraffe/brcstats/internal/chunk"
	"github.com/weirdgiraffe/brcstats/internal/stats"
)

// Source is a read-only random-access byte range.
type Source interface {
	Len() int
	Slice(start, end int) []byte
}

// Driver aggregates chunks on a fixed number of workers.
type Driver struct {
	workers int
	strict  bool
}

// NewDriver returns a driver with the given number of workers. A
// non-positive count means GOMAXPROCS at the time of the call.
func NewDriver(workers int, strict bool) *Driver {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Driver{workers: workers, strict: strict}
}

func (d *Driver) Workers() int {
	return d.workers
}

// Run aggregates every chunk of src and returns one partial result per chunk,
// indexed like chunks. It returns after all started chunks have finished. The
// first failure cancels chunks that have not started yet and is returned.
func (d *Driver) Run(ctx context.Context, src Source, chunks []chunk.Chunk) ([]*stats.Partial, error) {
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(d.workers)

	parts := make([]*stats.Partial, len(chunks))
	length := src.Len()
	for i, c := range chunks {
		i, c := i, c
		if ectx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := ectx.Err(); err != nil {
				return err
			}
			p, err := stats.Aggregate(src.Slice(c.Start, c.End), stats.Options{
				Base:   c.Start,
				Final:  c.End == length,
				Strict: d.strict,
			})
			if err != nil {
				return fmt.Errorf("failed to aggregate chunk %d [%d, %d): %w", c.Index, c.Start, c.End, err)
			}
			// each worker owns its slot; no lock needed
			parts[i] = p
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}
