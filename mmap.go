package bitcask

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// remap refreshes the read-only mapping after the file has grown. It is a
// no-op when the mapped length already matches the file length. An empty
// file is left unmapped.
func (l *Log) remap() error {
	if !l.useMmap {
		return nil
	}

	size, err := l.size()
	if err != nil {
		return err
	}
	if size == int64(len(l.mmap)) {
		return nil
	}

	if err := l.munmap(); err != nil {
		return err
	}
	if size == 0 {
		return nil
	}

	data, err := unix.Mmap(int(l.file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("failed to mmap log file: %w", err)
	}
	l.mmap = data
	return nil
}

func (l *Log) munmap() error {
	if l.mmap == nil {
		return nil
	}
	if err := unix.Munmap(l.mmap); err != nil {
		return fmt.Errorf("failed to unmap log file: %w", err)
	}
	l.mmap = nil
	return nil
}
