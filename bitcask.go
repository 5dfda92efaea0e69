package bitcask

import (
	"fmt"
)

// Open opens (creating if needed) the store backed by the log file at
// path and rebuilds the in-memory index with a full scan of the log. An
// empty or absent file yields an empty store.
func Open(path string, opts ...Option) (*Store, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	log, err := openLog(path)
	if err != nil {
		return nil, err
	}
	log.useMmap = config.MmapReads

	index, err := log.rebuildIndex()
	if err != nil {
		log.close()
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}

	if err := log.remap(); err != nil {
		log.close()
		return nil, err
	}

	return &Store{log: log, index: index, config: config}, nil
}

// Get returns the value most recently stored for key, or ErrKeyNotFound.
// A miss is answered from the index alone, with no disk access.
func (s *Store) Get(key []byte) ([]byte, error) {
	loc, ok := s.index.get(key)
	if !ok {
		return nil, ErrKeyNotFound
	}

	value, err := s.log.readValue(loc.offset, loc.size)
	if err != nil {
		return nil, err
	}
	return decompress(s.config.Compression, value)
}

// Put stores value under key by appending a live entry to the log. The
// index is updated only after the append succeeds, so a failed write
// leaves both the index and the visible state of the key unchanged.
func (s *Store) Put(key, value []byte) error {
	encoded, err := compress(s.config.Compression, value)
	if err != nil {
		return fmt.Errorf("failed to compress value: %w", err)
	}

	offset, size, err := s.log.appendEntry(key, encoded)
	if err != nil {
		return err
	}
	if err := s.afterAppend(); err != nil {
		return err
	}

	// The index owns its key bytes; the caller may reuse key.
	k := make([]byte, len(key))
	copy(k, key)
	s.index.put(k, valueLoc{offset: offset, size: size})
	return nil
}

// Delete appends a tombstone for key and removes it from the index. A
// tombstone is written even when the key was never set or is already
// deleted; only a merge reclaims it.
func (s *Store) Delete(key []byte) error {
	if _, _, err := s.log.appendEntry(key, nil); err != nil {
		return err
	}
	if err := s.afterAppend(); err != nil {
		return err
	}
	s.index.remove(key)
	return nil
}

func (s *Store) afterAppend() error {
	if s.config.SyncWrites {
		if err := s.log.sync(); err != nil {
			return err
		}
	}
	return s.log.remap()
}

// Has reports whether key currently has a live value.
func (s *Store) Has(key []byte) bool {
	_, ok := s.index.get(key)
	return ok
}

// Len returns the number of live keys.
func (s *Store) Len() int {
	return s.index.len()
}

// Sync forces all written bytes to durable storage.
func (s *Store) Sync() error {
	return s.log.sync()
}

// Close syncs the log best-effort and closes the file. A sync failure on
// teardown is reported through the configured logger and returned, but the
// file is still closed.
func (s *Store) Close() error {
	if err := s.log.sync(); err != nil {
		s.config.Logger.Errorf("failed to sync log on close: %v", err)
		s.log.close()
		return err
	}
	return s.log.close()
}
