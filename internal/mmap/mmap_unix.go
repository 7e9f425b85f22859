//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// Open maps the file at path read-only into the address space.
func Open(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}
	// the mapping stays valid after the descriptor is closed
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, &Error{Op: "stat", Path: path, Err: err}
	}
	size := stat.Size()
	if size == 0 {
		return nil, &Error{Op: "map", Path: path, Err: ErrEmpty}
	}
	if int64(int(size)) != size {
		return nil, &Error{Op: "map", Path: path, Err: unix.EFBIG}
	}

	fd := int(file.Fd())
	prefetch(fd)

	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, &Error{Op: "map", Path: path, Err: err}
	}
	// every chunk is scanned front to back
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &File{
		path:  path,
		data:  data,
		unmap: unix.Munmap,
	}, nil
}
