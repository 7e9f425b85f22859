// Package config defines the run configuration of brc and a small validator
// for it. Values come from defaults, then the environment, then flags.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/weirdgiraffe/brcstats/internal/chunk"
)

// Config describes one aggregation run.
type Config struct {
	// Input is the path of the measurements file.
	Input string
	// Output is the path results are written to; empty means stdout.
	Output string

	// Workers bounds the number of chunks aggregated at once. Zero means
	// GOMAXPROCS.
	Workers int
	// ChunkSize is the target chunk length in bytes.
	ChunkSize int
	// Lookahead bounds the search for a line terminator at a chunk boundary.
	Lookahead int
	// Strict fails the run on the first malformed line.
	Strict bool

	Metrics Metrics
}

// Metrics selects where run metrics are sent.
type Metrics struct {
	// Backend is one of "none", "pushgateway" or "datadog".
	Backend        string
	Job            string
	PushgatewayURL string
	DogStatsDAddr  string
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		ChunkSize: chunk.DefaultTarget,
		Lookahead: chunk.DefaultLookahead,
		Metrics: Metrics{
			Backend: "none",
			Job:     "brc",
		},
	}
}

// FromEnv overlays environment variables on c. Unparseable numbers are
// reported, unset variables leave c untouched.
func FromEnv(c Config) (Config, error) {
	if v, ok := os.LookupEnv("BRC_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("failed to parse BRC_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v, ok := os.LookupEnv("BRC_CHUNK_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("failed to parse BRC_CHUNK_SIZE: %w", err)
		}
		c.ChunkSize = n
	}
	if v := os.Getenv("METRICS_BACKEND"); v != "" {
		c.Metrics.Backend = v
	}
	if v := os.Getenv("PUSHGATEWAY_URL"); v != "" {
		c.Metrics.PushgatewayURL = v
	}
	if v := os.Getenv("DOGSTATSD_ADDR"); v != "" {
		c.Metrics.DogStatsDAddr = v
	}
	return c, nil
}
