// Command brc prints min/mean/max per key of a "key;value" measurements file.
//
//	brc [flags] measurements.txt
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/weirdgiraffe/brcstats/internal/config"
	"github.com/weirdgiraffe/brcstats/internal/engine"
	"github.com/weirdgiraffe/brcstats/internal/metrics"
	"github.com/weirdgiraffe/brcstats/internal/metrics/datadog"
	"github.com/weirdgiraffe/brcstats/internal/metrics/prompush"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	log.SetOutput(stderr)
	log.SetPrefix("brc: ")

	cfg, err := config.FromEnv(config.Default())
	if err != nil {
		fmt.Fprintf(stderr, "failed to read environment: %v\n", err)
		return 2
	}

	fs := flag.NewFlagSet("brc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of parallel workers (0 = GOMAXPROCS)")
	fs.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "target chunk size in bytes")
	fs.IntVar(&cfg.Lookahead, "lookahead", cfg.Lookahead, "max bytes searched for a line end at a chunk boundary")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "fail on the first malformed line instead of skipping it")
	fs.StringVar(&cfg.Output, "o", cfg.Output, "write the result to this file instead of stdout")
	fs.StringVar(&cfg.Metrics.Backend, "metrics-backend", cfg.Metrics.Backend, "metrics backend (none, pushgateway, datadog)")
	fs.StringVar(&cfg.Metrics.Job, "metrics-job", cfg.Metrics.Job, "job name attached to metrics")
	fs.StringVar(&cfg.Metrics.PushgatewayURL, "pushgateway-url", cfg.Metrics.PushgatewayURL, "Pushgateway base URL (env PUSHGATEWAY_URL)")
	fs.StringVar(&cfg.Metrics.DogStatsDAddr, "dogstatsd-addr", cfg.Metrics.DogStatsDAddr, "DogStatsD address (env DOGSTATSD_ADDR)")
	profileMode := fs.String("profile", "", "write a profile to the current directory (cpu, mem, trace)")
	verbose := fs.Bool("v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: brc [flags] <measurements file>")
		fs.PrintDefaults()
		return 2
	}
	cfg.Input = fs.Arg(0)

	issues := cfg.Validate()
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.Err(issues) != nil {
		return 2
	}

	if stop := startProfile(*profileMode); stop != nil {
		defer stop()
	}

	if flush := setupMetrics(cfg.Metrics, *verbose); flush != nil {
		defer flush()
	}

	start := time.Now()
	if err := solve(cfg, stdout, *verbose); err != nil {
		fmt.Fprintf(stderr, "failed to solve: %v\n", err)
		return 1
	}
	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
	return 0
}

func solve(cfg config.Config, stdout io.Writer, verbose bool) error {
	// nothing reaches the output file unless the whole run succeeds
	var out bytes.Buffer
	w := stdout
	if cfg.Output != "" {
		w = &out
	}

	sum, err := engine.Run(context.Background(), cfg, w)
	if err != nil {
		return err
	}
	if verbose {
		log.Printf("input=%s bytes=%d chunks=%d workers=%d records=%d skipped=%d keys=%d",
			cfg.Input, sum.Bytes, sum.Chunks, sum.Workers, sum.Records, sum.Skipped, sum.Keys)
	}

	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, out.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func startProfile(mode string) func() {
	var opt func(*profile.Profile)
	switch mode {
	case "":
		return nil
	case "cpu":
		opt = profile.CPUProfile
	case "mem":
		opt = profile.MemProfile
	case "trace":
		opt = profile.TraceProfile
	default:
		log.Printf("unknown profile mode %q; profiling disabled", mode)
		return nil
	}
	return profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook).Stop
}

// setupMetrics installs the configured backend and returns a func that
// flushes it, or nil when metrics are disabled.
func setupMetrics(m config.Metrics, verbose bool) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch m.Backend {
	case "pushgateway":
		b, err = prompush.NewBackend(m.Job, m.PushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       m.DogStatsDAddr,
			Namespace:  "brc.",
			GlobalTags: []string{"job:" + m.Job},
		})
	default:
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", m.Backend)
		}
		return nil
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", m.Backend, err)
		return nil
	}
	if verbose {
		log.Printf("metrics: backend=%s job=%s", m.Backend, m.Job)
	}
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}
