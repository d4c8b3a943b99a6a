/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary index (which may be composite),
and may possess secondary indexes.
* It may possess one or more secondary indexes (1:1 or 1:N)
* Easy queries for one and iteration over indexes
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
)

const (
	// SeqID is a constant to use to get a default ID sequence
	SeqID = "id"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a generic holder that stores data as well
// as references to secondary indexes and sequences.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
// Bucket is a prefixed subspace of the DB
// proto defines the default Model, all elements of this type
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

var _ Reader = Bucket{}

// NewBucket creates a bucket to store data
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element
func (b Bucket) Get(db multiwallet.ReadOnlyKVStore, key []byte) (Object, error) {
	dbkey := b.DBKey(key)
	bz, err := db.Get(dbkey)
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Parse takes a key and value data (weird kvstore style) and
// reconstructs the data this Bucket would return.
//
// Used internally as part of Get.
// It is exposed mainly as a test helper, but can work for
// any code that wants to parse
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", b.name)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save will write the model, it must be of the same type as proto
func (b Bucket) Save(db multiwallet.KVStore, model Object) error {
	err := model.Validate()
	if err != nil {
		return errors.Wrap(err, "invalid model")
	}

	bz, err := model.Value().Marshal()
	if err != nil {
		return err
	}
	return db.Set(b.DBKey(model.Key()), bz)
}

// Delete a given key from the database
func (b Bucket) Delete(db multiwallet.KVStore, key []byte) error {
	dbkey := b.DBKey(key)
	return db.Delete(dbkey)
}

// Has returns true if the given key is present in the bucket
func (b Bucket) Has(db multiwallet.ReadOnlyKVStore, key []byte) (bool, error) {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return false, err
	}
	return bz != nil, nil
}

// Sequence returns a Sequence by name
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// RegisterQuery allows queries by key and prefix against this bucket
func (b Bucket) RegisterQuery(qr multiwallet.QueryRouter) {
	root := "/" + b.name
	qr.Register(root, bucketQuery{b})
}

type bucketQuery struct {
	b Bucket
}

var _ multiwallet.QueryHandler = bucketQuery{}

// Query performs the query from the request, either by exact key or by
// key prefix, and returns models with the full db key.
func (q bucketQuery) Query(db multiwallet.ReadOnlyKVStore, mod string, data []byte) ([]multiwallet.Model, error) {
	switch mod {
	case multiwallet.KeyQueryMod:
		key := q.b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		res := []multiwallet.Model{{Key: key, Value: value}}
		return res, nil
	case multiwallet.PrefixQueryMod:
		prefix := q.b.DBKey(data)
		return queryPrefix(db, prefix)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %s", mod)
	}
}

// queryPrefix returns all models with the given key prefix
func queryPrefix(db multiwallet.ReadOnlyKVStore, prefix []byte) ([]multiwallet.Model, error) {
	iter, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var res []multiwallet.Model
	for iter.Valid() {
		key := append([]byte{}, iter.Key()...)
		value := append([]byte{}, iter.Value()...)
		res = append(res, multiwallet.Model{Key: key, Value: value})
		if err := iter.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
