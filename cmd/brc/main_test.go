package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "measurements.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}

func TestRunStdout(t *testing.T) {
	input := writeInput(t, "A;10.0\nB;5.0\nA;20.0\n")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-chunk-size", "8", input}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if got, want := stdout.String(), "{A=10.0/15.0/20.0, B=5.0/5.0/5.0}\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
}

func TestRunOutputFile(t *testing.T) {
	input := writeInput(t, "A;10.0\nbadline\nA;20.0\n")
	output := filepath.Join(t.TempDir(), "result.txt")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-o", output, "-v", input}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(got) != "{A=10.0/15.0/20.0}\n" {
		t.Fatalf("output = %q", got)
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout = %q, want empty", stdout.String())
	}
	if !strings.Contains(stderr.String(), "skipped=1") {
		t.Fatalf("verbose log missing summary: %s", stderr.String())
	}
}

func TestRunFailureWritesNoOutput(t *testing.T) {
	input := writeInput(t, "A;10.0\nbroken\n")
	output := filepath.Join(t.TempDir(), "result.txt")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-strict", "-o", output, input}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Fatalf("output file exists after failure: %v", err)
	}
	if !strings.Contains(stderr.String(), "malformed line") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no input", args: nil},
		{name: "bad flag", args: []string{"-nope", "x"}},
		{name: "invalid config", args: []string{"-chunk-size", "0", "x"}},
		{name: "unknown metrics backend", args: []string{"-metrics-backend", "graphite", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 2 {
				t.Fatalf("exit code %d, want 2", code)
			}
			if stdout.Len() != 0 {
				t.Fatalf("stdout = %q", stdout.String())
			}
		})
	}
}
