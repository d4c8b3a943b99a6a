package orm

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/multiwallet/errors"
	"github.com/iov-one/multiwallet/store"
)

// counter is a minimal CloneableData for tests
type counter struct {
	Count int64
}

var _ CloneableData = (*counter)(nil)

func (c *counter) Marshal() ([]byte, error) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(c.Count))
	return bz, nil
}

func (c *counter) Unmarshal(bz []byte) error {
	if len(bz) != 8 {
		return errors.Wrap(errors.ErrInput, "invalid counter data")
	}
	c.Count = int64(binary.BigEndian.Uint64(bz))
	return nil
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "count must be non-negative")
	}
	return nil
}

func (c *counter) Copy() CloneableData {
	return &counter{Count: c.Count}
}

func counterObj(key []byte, count int64) Object {
	return NewSimpleObj(key, &counter{Count: count})
}

func TestBucketName(t *testing.T) {
	assert.Panics(t, func() { NewBucket("l33t", NewSimpleObj(nil, new(counter))) })
	assert.Panics(t, func() { NewBucket("no", NewSimpleObj(nil, new(counter))) })
	assert.NotPanics(t, func() { NewBucket("good", NewSimpleObj(nil, new(counter))) })
}

func TestBucketStore(t *testing.T) {
	bucket := NewBucket("cnts", NewSimpleObj(nil, new(counter)))
	db := store.MemStore()

	k1, k2 := []byte("a"), []byte("b")

	// empty read
	obj, err := bucket.Get(db, k1)
	require.NoError(t, err)
	assert.Nil(t, obj)

	// write and read back
	require.NoError(t, bucket.Save(db, counterObj(k1, 5)))
	obj, err = bucket.Get(db, k1)
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, k1, obj.Key())
	assert.Equal(t, int64(5), obj.Value().(*counter).Count)

	// second key is not visible
	obj, err = bucket.Get(db, k2)
	require.NoError(t, err)
	assert.Nil(t, obj)

	// has
	has, err := bucket.Has(db, k1)
	require.NoError(t, err)
	assert.True(t, has)
	has, err = bucket.Has(db, k2)
	require.NoError(t, err)
	assert.False(t, has)

	// invalid model is rejected
	err = bucket.Save(db, counterObj(k2, -3))
	assert.Error(t, err)

	// delete
	require.NoError(t, bucket.Delete(db, k1))
	obj, err = bucket.Get(db, k1)
	require.NoError(t, err)
	assert.Nil(t, obj)
}

func TestBucketPrefixQuery(t *testing.T) {
	bucket := NewBucket("cnts", NewSimpleObj(nil, new(counter)))
	other := NewBucket("other", NewSimpleObj(nil, new(counter)))
	db := store.MemStore()

	require.NoError(t, bucket.Save(db, counterObj([]byte("ab"), 1)))
	require.NoError(t, bucket.Save(db, counterObj([]byte("ac"), 2)))
	require.NoError(t, bucket.Save(db, counterObj([]byte("zz"), 3)))
	require.NoError(t, other.Save(db, counterObj([]byte("ab"), 4)))

	q := bucketQuery{bucket}

	// exact key
	models, err := q.Query(db, "", []byte("ab"))
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, bucket.DBKey([]byte("ab")), models[0].Key)

	// prefix scan matches only this bucket
	models, err = q.Query(db, "prefix", []byte("a"))
	require.NoError(t, err)
	assert.Len(t, models, 2)

	// full bucket scan
	models, err = q.Query(db, "prefix", nil)
	require.NoError(t, err)
	assert.Len(t, models, 3)
}

func TestSequence(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("cnts", SeqID)

	// no value yet
	_, _, err := s.Latest(db)
	assert.True(t, errors.ErrNotFound.Is(err))

	for i := int64(1); i < 10; i++ {
		val, err := s.NextInt(db)
		require.NoError(t, err)
		assert.Equal(t, i, val)
	}

	latest, raw, err := s.Latest(db)
	require.NoError(t, err)
	assert.Equal(t, int64(9), latest)
	assert.Len(t, raw, 8)

	// a fresh handle to the same sequence continues the count
	val, err := NewSequence("cnts", SeqID).NextInt(db)
	require.NoError(t, err)
	assert.Equal(t, int64(10), val)
}
