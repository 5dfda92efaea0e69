package bitcask

import (
	"errors"
	"os"
)

// Store is a single-file Bitcask instance: one append-only log plus an
// in-memory index from key to the location of its latest live value.
// A Store is not safe for concurrent use; callers sharing one across
// goroutines must provide their own synchronization.
type Store struct {
	log    *Log
	index  *keydir
	config *Config
}

// Log owns the append-only data file. Entries are packed back-to-back
// with no padding: every prefix of the file up to the last fully-written
// entry is a valid sequence of entries.
type Log struct {
	file *os.File
	path string

	// mmap holds a read-only mapping of the file when mmap reads are
	// enabled and the file is non-empty. The mapping may lag appends
	// until the next remap; readValue falls back to pread for bytes
	// beyond the mapped range.
	useMmap bool
	mmap    []byte
}

// valueLoc locates one value inside the log file.
type valueLoc struct {
	offset uint64
	size   uint32
}

const (
	headerSize = 8 // 4(keySize) + 4(valueSize), both big-endian

	// mergeFileExt replaces the log path's extension to form the merge
	// scratch file, which is renamed over the log on commit.
	mergeFileExt = "merge_ext"
)

var ErrKeyNotFound = errors.New("key not found")
