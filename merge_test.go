package bitcask

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeReclaimsDeletedKey(t *testing.T) {
	s, path := newTestStore(t)

	require.NoError(t, s.Put([]byte("CQM"), []byte("handsome")))
	assert.Equal(t, int64(8+3+8), fileSize(t, path))

	require.NoError(t, s.Delete([]byte("CQM")))
	assert.Equal(t, int64(19+11), fileSize(t, path))

	require.NoError(t, s.Merge())

	assert.Equal(t, int64(0), fileSize(t, path))
	assert.Equal(t, 0, s.Len())
	_, err := s.Get([]byte("CQM"))
	require.ErrorIs(t, err, ErrKeyNotFound)

	// The scratch file was renamed away.
	_, err = os.Stat(mergePath(path))
	assert.True(t, os.IsNotExist(err))
}

func TestMergeKeepsLatestValue(t *testing.T) {
	s, path := newTestStore(t)

	require.NoError(t, s.Put([]byte("CQM"), []byte("handsome")))
	require.NoError(t, s.Put([]byte("CQM"), []byte("so fuck handsome")))
	assert.Equal(t, int64(19+27), fileSize(t, path))

	require.NoError(t, s.Merge())

	assert.Equal(t, int64(27), fileSize(t, path))
	got, err := s.Get([]byte("CQM"))
	require.NoError(t, err)
	assert.Equal(t, []byte("so fuck handsome"), got)
}

func TestMergePreservesLiveState(t *testing.T) {
	s, path := newTestStore(t)

	live := make(map[string][]byte)
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("key-%02d", i)
		require.NoError(t, s.Put([]byte(key), []byte("first")))
		value := []byte(fmt.Sprintf("value-%d", i))
		require.NoError(t, s.Put([]byte(key), value))
		live[key] = value
	}
	for i := 0; i < 50; i += 5 {
		key := fmt.Sprintf("key-%02d", i)
		require.NoError(t, s.Delete([]byte(key)))
		delete(live, key)
	}

	require.NoError(t, s.Merge())

	var want int64
	for key, value := range live {
		got, err := s.Get([]byte(key))
		require.NoError(t, err)
		assert.Equal(t, value, got)
		want += int64(8 + len(key) + len(value))
	}
	assert.Equal(t, want, fileSize(t, path))
	assert.Equal(t, len(live), s.Len())
}

func TestMergeEmptyStore(t *testing.T) {
	s, path := newTestStore(t)

	require.NoError(t, s.Merge())
	assert.Equal(t, int64(0), fileSize(t, path))
}

func TestMergeIsIdempotent(t *testing.T) {
	s, path := newTestStore(t)

	require.NoError(t, s.Put([]byte("key"), []byte("value")))
	require.NoError(t, s.Merge())
	size := fileSize(t, path)

	require.NoError(t, s.Merge())
	assert.Equal(t, size, fileSize(t, path))

	got, err := s.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestMergeThenReopen(t *testing.T) {
	s, path := newTestStore(t)

	require.NoError(t, s.Put([]byte("a"), []byte("1")))
	require.NoError(t, s.Put([]byte("a"), []byte("2")))
	require.NoError(t, s.Put([]byte("b"), []byte("3")))
	require.NoError(t, s.Delete([]byte("b")))
	require.NoError(t, s.Merge())
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
	_, err = reopened.Get([]byte("b"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMergeSurvivesStaleScratchFile(t *testing.T) {
	s, path := newTestStore(t)

	require.NoError(t, s.Put([]byte("key"), []byte("value")))

	// Leftover from an interrupted merge must not leak into the result.
	require.NoError(t, os.WriteFile(mergePath(path), []byte("garbage"), 0644))

	require.NoError(t, s.Merge())
	assert.Equal(t, int64(8+3+5), fileSize(t, path))

	got, err := s.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestWriteAfterMerge(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.Put([]byte("a"), []byte("1")))
	require.NoError(t, s.Merge())

	require.NoError(t, s.Put([]byte("b"), []byte("2")))
	require.NoError(t, s.Delete([]byte("a")))

	_, err := s.Get([]byte("a"))
	require.ErrorIs(t, err, ErrKeyNotFound)
	got, err := s.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}
