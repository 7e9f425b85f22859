//go:build unix && !linux

package mmap

func prefetch(int) {}
