package orm

import (
	"encoding/binary"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both NextInt() as well as bytes.Compare() on NextVal().
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//   _s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes
func (s Sequence) NextVal(db multiwallet.KVStore) ([]byte, error) {
	_, bz, err := s.increment(db)
	return bz, err
}

// NextInt increments the sequence and returns its state as int64
func (s Sequence) NextInt(db multiwallet.KVStore) (int64, error) {
	val, _, err := s.increment(db)
	return val, err
}

// Latest returns the recently returned value of the sequence. This method
// does not modify the sequence state. Use NextVal or NextInt to acquire a
// sequence value that was not given to anyone else.
func (s Sequence) Latest(db multiwallet.ReadOnlyKVStore) (int64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, errors.Wrap(err, "cannot get sequence data")
	}
	if raw == nil {
		return 0, nil, errors.Wrap(errors.ErrNotFound, "no sequence value")
	}
	val := int64(binary.BigEndian.Uint64(raw))
	return val, raw, nil
}

func (s Sequence) increment(db multiwallet.KVStore) (int64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, err
	}
	val := int64(0)
	if raw != nil {
		val = int64(binary.BigEndian.Uint64(raw))
	}
	val++
	raw = make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(val))
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, err
	}
	return val, raw, nil
}
