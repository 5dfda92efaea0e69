package bitcask

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// openLog opens the data file at path in read/write mode, creating it and
// any missing parent directories. An existing file is never truncated;
// recovering its contents is the caller's job via rebuildIndex.
func openLog(path string) (*Log, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Log{file: file, path: path}, nil
}

// appendEntry writes one entry at the end of the log as a single buffered
// write and flushes it to the OS (not fsynced). A nil value encodes a
// tombstone: valueSize 0 and no value bytes. It returns the offset at
// which the value bytes begin and the value size, which is exactly what
// the index stores.
func (l *Log) appendEntry(key, value []byte) (uint64, uint32, error) {
	keySize := uint32(len(key))
	valueSize := uint32(len(value))
	entrySize := headerSize + int(keySize) + int(valueSize)

	offset, err := l.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to seek to end of log: %w", err)
	}

	header := make([]byte, headerSize)
	binary.BigEndian.PutUint32(header[:4], keySize)
	binary.BigEndian.PutUint32(header[4:], valueSize)

	w := bufio.NewWriterSize(l.file, entrySize)
	if _, err := w.Write(header); err != nil {
		return 0, 0, fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(key); err != nil {
		return 0, 0, fmt.Errorf("failed to write key: %w", err)
	}
	if valueSize > 0 {
		if _, err := w.Write(value); err != nil {
			return 0, 0, fmt.Errorf("failed to write value: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return 0, 0, fmt.Errorf("failed to flush entry: %w", err)
	}

	return uint64(offset) + headerSize + uint64(keySize), valueSize, nil
}

// readValue reads exactly size bytes starting at offset. A short read is
// an error: it means the file is corrupt or the index entry is stale.
func (l *Log) readValue(offset uint64, size uint32) ([]byte, error) {
	value := make([]byte, size)

	if l.useMmap && offset+uint64(size) <= uint64(len(l.mmap)) {
		copy(value, l.mmap[offset:offset+uint64(size)])
		return value, nil
	}

	if _, err := l.file.ReadAt(value, int64(offset)); err != nil {
		return nil, fmt.Errorf("failed to read value at offset %d: %w", offset, err)
	}
	return value, nil
}

// rebuildIndex scans the whole log from offset 0 and returns the index of
// live values. Only headers and keys are read; value bytes are skipped, so
// memory stays proportional to the key set, not the data. Entries are
// processed strictly in file order: a later entry supersedes any earlier
// one for the same key, and a tombstone (valueSize 0) removes the key.
// Any entry that cannot be decoded in full aborts the scan.
func (l *Log) rebuildIndex() (*keydir, error) {
	info, err := l.file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}
	fileSize := info.Size()

	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to start of log: %w", err)
	}

	index := newKeydir()
	reader := bufio.NewReader(l.file)
	var pos int64

	for pos < fileSize {
		key, valueSize, err := decodeEntryHeaderAndKey(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode entry at offset %d: %w", pos, err)
		}

		valueOffset := pos + headerSize + int64(len(key))

		if valueSize == 0 {
			// Tombstone: no value bytes follow.
			index.remove(key)
			pos = valueOffset
			continue
		}

		if n, err := reader.Discard(int(valueSize)); err != nil || n < int(valueSize) {
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("failed to skip value at offset %d: %w", valueOffset, err)
		}

		index.put(key, valueLoc{offset: uint64(valueOffset), size: valueSize})
		pos = valueOffset + int64(valueSize)
	}

	return index, nil
}

// decodeEntryHeaderAndKey reads one entry header and its key from r. The
// caller is responsible for skipping or reading the value bytes. A key cut
// short by end-of-file is reported as io.ErrUnexpectedEOF.
func decodeEntryHeaderAndKey(r io.Reader) ([]byte, uint32, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, 0, err
	}

	keySize := binary.BigEndian.Uint32(header[:4])
	valueSize := binary.BigEndian.Uint32(header[4:])

	key := make([]byte, keySize)
	if _, err := io.ReadFull(r, key); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, 0, err
	}

	return key, valueSize, nil
}

// sync forces all written bytes to durable storage.
func (l *Log) sync() error {
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	return nil
}

// close releases the mapping, if any, and closes the file descriptor.
func (l *Log) close() error {
	if err := l.munmap(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}

// size returns the current length of the log file in bytes.
func (l *Log) size() (int64, error) {
	info, err := l.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat log file: %w", err)
	}
	return info.Size(), nil
}

// mergePath derives the merge scratch path from the log path: the
// extension, if any, is replaced by mergeFileExt.
func mergePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + mergeFileExt
}
