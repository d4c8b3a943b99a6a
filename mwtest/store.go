package mwtest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/store/iavl"
)

// CommitKVStore returns a store backed by the same iavl engine a
// production node runs on, persisted under a throwaway directory.
// Prefer MemStore unless the test depends on commit semantics.
func CommitKVStore(t testing.TB) (db multiwallet.CommitKVStore, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "multiwallet")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}

	db = iavl.NewCommitStore(dbpath, "db")
	return db, func() { os.RemoveAll(dbpath) }
}
