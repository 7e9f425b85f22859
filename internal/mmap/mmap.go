// Package mmap exposes a file as a read-only byte range without copying it
// into process memory.
package mmap

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned by Open for a zero-length file, which cannot be mapped.
var ErrEmpty = errors.New("file is empty")

// Error records a failed operation on the mapped file.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// File is a read-only view of a whole file. Slices handed out by File are
// valid until Close is called.
type File struct {
	path   string
	data   []byte
	closed bool
	unmap  func([]byte) error
}

// Len returns the length of the file in bytes.
func (f *File) Len() int {
	return len(f.data)
}

// Slice returns the bytes in [start, end) without copying.
func (f *File) Slice(start, end int) []byte {
	f.mustBeOpen()
	if start < 0 || end > len(f.data) || start > end {
		panic(fmt.Sprintf("mmap: slice [%d:%d] out of range for %d bytes", start, end, len(f.data)))
	}
	return f.data[start:end:end]
}

// Close releases the mapping. It is safe to call Close more than once.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	data := f.data
	f.data = nil
	if f.unmap == nil || data == nil {
		return nil
	}
	if err := f.unmap(data); err != nil {
		return &Error{Op: "unmap", Path: f.path, Err: err}
	}
	return nil
}

func (f *File) mustBeOpen() {
	if f.closed {
		panic("mmap: use of closed file " + f.path)
	}
}
