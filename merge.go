package bitcask

import (
	"fmt"
	"os"
)

// Merge compacts the log: every currently-live value is rewritten into a
// fresh log at a scratch path next to the original, the scratch file is
// renamed over the log path, and the Store's log/index pair is swapped as
// a unit. The merged log holds exactly one entry per live key, so its
// length is the sum of 8+len(key)+len(value) over the live keys only.
//
// The rename is the commit point: an I/O failure before it leaves the
// original log and index untouched. Merge must not be interleaved with
// Put or Delete on the same Store.
func (s *Store) Merge() error {
	newLog, err := openLog(mergePath(s.log.path))
	if err != nil {
		return fmt.Errorf("failed to open merge log: %w", err)
	}
	newLog.useMmap = s.log.useMmap

	// An interrupted earlier merge may have left stale entries behind.
	if err := newLog.file.Truncate(0); err != nil {
		newLog.close()
		return fmt.Errorf("failed to truncate merge log: %w", err)
	}

	// Rewrite live values as stored: no codec round-trip, the bytes are
	// copied verbatim.
	newIndex := newKeydir()
	var mergeErr error
	s.index.ascend(func(key []byte, loc valueLoc) bool {
		value, err := s.log.readValue(loc.offset, loc.size)
		if err != nil {
			mergeErr = err
			return false
		}
		offset, size, err := newLog.appendEntry(key, value)
		if err != nil {
			mergeErr = err
			return false
		}
		newIndex.put(key, valueLoc{offset: offset, size: size})
		return true
	})
	if mergeErr != nil {
		newLog.close()
		os.Remove(mergePath(s.log.path))
		return fmt.Errorf("failed to rewrite live entries: %w", mergeErr)
	}

	if err := os.Rename(newLog.path, s.log.path); err != nil {
		newLog.close()
		return fmt.Errorf("failed to commit merged log: %w", err)
	}
	newLog.path = s.log.path

	if err := s.log.close(); err != nil {
		s.config.Logger.Warnf("failed to close old log after merge: %v", err)
	}
	s.log = newLog
	s.index = newIndex

	if err := newLog.remap(); err != nil {
		return err
	}
	s.config.Logger.Infof("merge complete: %d live keys", newIndex.len())
	return nil
}
