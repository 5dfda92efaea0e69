package main

import (
	"fmt"
	"os"
	"path/filepath"

	bitcask "github.com/chenqimiao/mini-bitcask-rs"
)

func main() {
	path := filepath.Join("data", "store.log")
	db, err := bitcask.Open(path, bitcask.WithLogger(bitcask.NewStdLogger(os.Stderr)))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	if err = db.Put([]byte("key1"), []byte("value1")); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("stored key1")

	value, err := db.Get([]byte("key1"))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("got key1:", string(value))

	if err = db.Put([]byte("key1"), []byte("value1-updated")); err != nil {
		fmt.Println(err)
		return
	}
	if err = db.Put([]byte("key2"), []byte("value2")); err != nil {
		fmt.Println(err)
		return
	}

	if err = db.Delete([]byte("key2")); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("deleted key2")

	// Reclaim the space held by the overwritten and deleted entries.
	if err = db.Merge(); err != nil {
		fmt.Println(err)
		return
	}

	it := db.Iterator()
	for it.Next() {
		value, err := it.Value()
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Printf("iterate key:%s, val:%s\n", it.Key(), value)
	}
}
