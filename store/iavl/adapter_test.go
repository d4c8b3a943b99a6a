package iavl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStoreRoundTrip(t *testing.T) {
	db := MockCommitStore()

	k, v := []byte("ferry"), []byte("man")

	cache := db.CacheWrap()
	require.NoError(t, cache.Set(k, v))

	// not committed yet, but visible through the wrap
	got, err := cache.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	require.NoError(t, cache.Write())
	id, err := db.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	got, err = db.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestCommitStoreDiscard(t *testing.T) {
	db := MockCommitStore()

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("scratch"), []byte("pad")))
	cache.Discard()

	if _, err := db.Commit(); err != nil {
		t.Fatalf("commit of empty state: %s", err)
	}
	got, err := db.Get([]byte("scratch"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCommitStoreIterator(t *testing.T) {
	db := MockCommitStore()
	require.NoError(t, db.Set([]byte{1}, []byte("a")))
	require.NoError(t, db.Set([]byte{2}, []byte("b")))

	iter, err := db.Iterator(nil, nil)
	require.NoError(t, err)
	defer iter.Close()

	var values []string
	for ; iter.Valid(); require.NoError(t, iter.Next()) {
		values = append(values, string(iter.Value()))
	}
	assert.Equal(t, []string{"a", "b"}, values)
}
