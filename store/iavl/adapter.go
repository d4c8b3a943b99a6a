package iavl

import (
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/iov-one/multiwallet/store"
)

// cacheSize is the number of inner nodes held in memory by the tree
const cacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store backed by a leveldb database
// stored in the given directory
func NewCommitStore(path, name string) CommitStore {
	db := dbm.NewDB(name, dbm.GoLevelDBBackend, path)
	tree := iavl.NewMutableTree(db, cacheSize)
	return CommitStore{tree: tree}
}

// MockCommitStore returns a proper CommitStore for testing, with
// an in-memory backing database
func MockCommitStore() CommitStore {
	db := dbm.NewMemDB()
	tree := iavl.NewMutableTree(db, cacheSize)
	return CommitStore{tree: tree}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist
func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, value := s.tree.Get(key)
	return value, nil
}

// Has returns true iff the key is present at last committed state
func (s CommitStore) Has(key []byte) (bool, error) {
	return s.tree.Has(key), nil
}

// Iterator over a domain of keys in ascending order.
// The tree is walked eagerly as iavl exposes only a callback interface.
func (s CommitStore) Iterator(start, end []byte) (store.Iterator, error) {
	return s.materialize(start, end, true), nil
}

// ReverseIterator over a domain of keys in descending order.
func (s CommitStore) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return s.materialize(start, end, false), nil
}

func (s CommitStore) materialize(start, end []byte, ascending bool) store.Iterator {
	var models []store.Model
	s.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		models = append(models, store.Model{Key: key, Value: value})
		return false
	})
	return store.NewSliceIterator(models)
}

// Set updates the tree in the working (uncommitted) state
func (s CommitStore) Set(key, value []byte) error {
	s.tree.Set(key, value)
	return nil
}

// Delete removes the key from the working (uncommitted) state
func (s CommitStore) Delete(key []byte) error {
	s.tree.Remove(key)
	return nil
}

// NewBatch returns a batch that applies to the working state on Write
func (s CommitStore) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(s)
}

// CacheWrap returns a scratch-pad over the committed state. On Write
// all pending operations are applied to the working tree, but they are
// only persisted with the next Commit.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Commit the current working state as the next version
func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, err
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	_, err := s.tree.Load()
	return err
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}
