package mmap

import "golang.org/x/sys/unix"

func prefetch(fd int) {
	_ = unix.Fadvise(fd, 0, 0, unix.FADV_WILLNEED)
}
