package bitcask

import (
	"bytes"

	"github.com/google/btree"
)

const keydirDegree = 32

type keydirItem struct {
	key []byte
	loc valueLoc
}

// keydir is the in-memory index from key to the location of its latest
// live value. It is fully derived from the log: rebuilt by a whole-file
// scan on open and replaced wholesale at merge. Keys are kept in sorted
// order so iteration is deterministic.
type keydir struct {
	tree *btree.BTreeG[keydirItem]
}

func newKeydir() *keydir {
	return &keydir{
		tree: btree.NewG(keydirDegree, func(a, b keydirItem) bool {
			return bytes.Compare(a.key, b.key) < 0
		}),
	}
}

func (kd *keydir) get(key []byte) (valueLoc, bool) {
	item, ok := kd.tree.Get(keydirItem{key: key})
	if !ok {
		return valueLoc{}, false
	}
	return item.loc, true
}

func (kd *keydir) put(key []byte, loc valueLoc) {
	kd.tree.ReplaceOrInsert(keydirItem{key: key, loc: loc})
}

func (kd *keydir) remove(key []byte) {
	kd.tree.Delete(keydirItem{key: key})
}

func (kd *keydir) len() int {
	return kd.tree.Len()
}

// ascend visits every entry in key order until fn returns false.
func (kd *keydir) ascend(fn func(key []byte, loc valueLoc) bool) {
	kd.tree.Ascend(func(item keydirItem) bool {
		return fn(item.key, item.loc)
	})
}

// keys returns all live keys in sorted order.
func (kd *keydir) keys() [][]byte {
	keys := make([][]byte, 0, kd.tree.Len())
	kd.tree.Ascend(func(item keydirItem) bool {
		keys = append(keys, item.key)
		return true
	})
	return keys
}
