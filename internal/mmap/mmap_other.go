//go:build !unix

package mmap

import "os"

// Open reads the whole file into memory on platforms without mmap support.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}
	if len(data) == 0 {
		return nil, &Error{Op: "map", Path: path, Err: ErrEmpty}
	}
	return &File{path: path, data: data}, nil
}
