package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/weirdgiraffe/brcstats/internal/chunk"
	"github.com/weirdgiraffe/brcstats/internal/config"
	"github.com/weirdgiraffe/brcstats/internal/metrics"
	"github.com/weirdgiraffe/brcstats/internal/mmap"
	"github.com/weirdgiraffe/brcstats/internal/report"
	"github.com/weirdgiraffe/brcstats/internal/stats"
)

// Summary describes a finished run.
type Summary struct {
	Bytes   int
	Chunks  int
	Workers int
	Records int64
	Skipped int64
	Keys    int
}

// Run aggregates cfg.Input and writes the formatted result to w. Nothing is
// written unless aggregation succeeds. An empty input yields "{}\n".
func Run(ctx context.Context, cfg config.Config, w io.Writer) (Summary, error) {
	job := cfg.Metrics.Job

	var (
		src   *mmap.File
		empty bool
	)
	err := step(job, "open", func() (err error) {
		src, err = mmap.Open(cfg.Input)
		if errors.Is(err, mmap.ErrEmpty) {
			empty = true
			return nil
		}
		return err
	})
	if err != nil {
		return Summary{}, err
	}
	if empty {
		return Summary{}, report.Write(w, NewResult(0))
	}
	defer src.Close()

	res, sum, err := Process(ctx, src, cfg)
	if err != nil {
		return sum, err
	}

	err = step(job, "format", func() error {
		return report.Write(w, res)
	})
	if err != nil {
		return sum, fmt.Errorf("failed to write result: %w", err)
	}
	return sum, nil
}

// Process plans, aggregates and merges src. The returned result does not
// reference src.
func Process(ctx context.Context, src Source, cfg config.Config) (*Result, Summary, error) {
	job := cfg.Metrics.Job
	driver := NewDriver(cfg.Workers, cfg.Strict)
	sum := Summary{Bytes: src.Len(), Workers: driver.Workers()}

	var chunks []chunk.Chunk
	err := step(job, "plan", func() (err error) {
		chunks, err = chunk.Plan(src.Slice(0, src.Len()), cfg.ChunkSize, cfg.Lookahead)
		return err
	})
	if err != nil {
		return nil, sum, fmt.Errorf("failed to plan chunks: %w", err)
	}
	sum.Chunks = len(chunks)

	var parts []*stats.Partial
	err = step(job, "aggregate", func() (err error) {
		parts, err = driver.Run(ctx, src, chunks)
		return err
	})
	if err != nil {
		return nil, sum, err
	}

	var res *Result
	_ = step(job, "merge", func() error {
		res = Merge(parts)
		return nil
	})

	sum.Records = res.Records()
	sum.Skipped = res.Skipped()
	sum.Keys = res.Len()

	metrics.RecordCount(job, metrics.InputBytesTotal, int64(sum.Bytes))
	metrics.RecordCount(job, metrics.ChunksTotal, int64(sum.Chunks))
	metrics.RecordCount(job, metrics.KeysTotal, int64(sum.Keys))
	metrics.RecordRecords(job, "processed", sum.Records)
	metrics.RecordRecords(job, "skipped", sum.Skipped)
	return res, sum, nil
}

func step(job, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	return err
}
