package bitcask

// Iterator walks the live keys in sorted order. It captures the key set
// at creation time; values are read lazily from the log. Mutating the
// store while iterating invalidates the iterator.
type Iterator struct {
	store *Store
	keys  [][]byte
	index int
}

// Iterator returns an iterator over the current live keys.
func (s *Store) Iterator() *Iterator {
	return &Iterator{
		store: s,
		keys:  s.index.keys(),
		index: -1,
	}
}

// Next advances the iterator to the next key-value pair.
func (it *Iterator) Next() bool {
	it.index++
	return it.index < len(it.keys)
}

// Key returns the key of the current key-value pair.
func (it *Iterator) Key() []byte {
	return it.keys[it.index]
}

// Value returns the value of the current key-value pair.
func (it *Iterator) Value() ([]byte, error) {
	return it.store.Get(it.Key())
}
