package store

import (
	"bytes"
	"sync"

	"github.com/google/btree"
)

// btreeIter streams items out of a btree walk through a channel so the
// push style Ascend/Descend callbacks can back a pull style Iterator.
type btreeIter struct {
	data    btree.Item
	hasMore bool
	read    <-chan btree.Item
	stop    chan<- struct{}
	once    sync.Once
}

// source tells which side of a cache wrap the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// ascendBtree walks the btree items within [start, end) in ascending
// order.
func ascendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	read := make(chan btree.Item)
	// buffered so close never blocks the consumer
	stop := make(chan struct{}, 1)
	iter := &btreeIter{
		read: read,
		stop: stop,
	}

	insert := func(item btree.Item) bool {
		select {
		case read <- item:
			return true
		case <-stop:
			close(read)
			return false
		}
	}

	go func() {
		switch {
		case start == nil && end == nil:
			bt.Ascend(insert)
		case start == nil:
			bt.AscendLessThan(bkey{end}, insert)
		case end == nil:
			bt.AscendGreaterOrEqual(bkey{start}, insert)
		default:
			bt.AscendRange(bkey{start}, bkey{end}, insert)
		}
		close(read)
	}()

	iter.next()
	return iter
}

func descendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	read := make(chan btree.Item)
	// buffered so close never blocks the consumer
	stop := make(chan struct{}, 1)
	iter := &btreeIter{
		read: read,
		stop: stop,
	}

	insert := func(item btree.Item) bool {
		select {
		case read <- item:
			return true
		case <-stop:
			close(read)
			return false
		}
	}

	go func() {
		switch {
		case start == nil && end == nil:
			bt.Descend(insert)
		case start == nil:
			bt.DescendLessOrEqual(bkeyLess{end}, insert)
		case end == nil:
			bt.DescendGreaterThan(bkeyLess{start}, insert)
		default:
			bt.DescendRange(bkeyLess{end}, bkeyLess{start}, insert)
		}
		close(read)
	}()

	iter.next()
	return iter
}

func (b *btreeIter) wrap(parent Iterator) *itemIter {
	iter := &itemIter{
		wrap:   b,
		parent: parent,
	}
	_ = iter.skipAllDeleted()
	return iter
}

func (b *btreeIter) next() {
	b.data, b.hasMore = <-b.read
}

func (b *btreeIter) close() {
	b.once.Do(func() {
		b.stop <- struct{}{}
	})
}

// get returns the current item, only valid while hasMore is true
func (b *btreeIter) get() keyer {
	return b.data.(keyer)
}

func (b *btreeIter) valid() bool {
	return b.hasMore
}

// itemIter merges the local btree walk with the parent store's
// iterator, hiding locally deleted keys and shadowing parent values
// with local writes.
type itemIter struct {
	wrap   *btreeIter
	parent Iterator
}

var _ Iterator = (*itemIter)(nil)

func (i *itemIter) Valid() bool {
	return i.wrap.valid() || i.parentValid()
}

// Next advances the cursor. Panics when Valid is false.
func (i *itemIter) Next() error {
	switch i.firstKey() {
	case us:
		i.wrap.next()
	case both:
		i.wrap.next()
		fallthrough
	case parent:
		err := i.parent.Next()
		if err != nil {
			return err
		}
	default:
		panic("iterator read past the end")
	}

	return i.skipAllDeleted()
}

func (i *itemIter) Key() (key []byte) {
	switch i.firstKey() {
	case us, both:
		return i.wrap.get().Key()
	case parent:
		return i.parent.Key()
	default: // none
		panic("iterator read past the end")
	}
}

func (i *itemIter) Value() (value []byte) {
	switch i.firstKey() {
	case us, both:
		return i.wrap.get().(setItem).value
	case parent:
		return i.parent.Value()
	default: // none
		panic("iterator read past the end")
	}
}

func (i *itemIter) Close() {
	i.parent.Close()
	i.wrap.close()
}

// skipAllDeleted fast forwards the cursor over any run of locally
// deleted entries so callers never observe a tombstone.
func (i *itemIter) skipAllDeleted() error {
	var err error
	more := true
	for more {
		more, err = i.skipDeleted()
		if err != nil {
			return err
		}
	}
	return nil
}

// skipDeleted reports true when it skipped one entry, so the caller
// knows to look again.
func (i *itemIter) skipDeleted() (bool, error) {
	src := i.firstKey()
	if src == us || src == both {
		if _, ok := i.wrap.get().(deletedItem); ok {
			i.wrap.next()
			// a local tombstone shadows the parent entry under the
			// same key
			if src == both {
				err := i.parent.Next()
				if err != nil {
					return false, err
				}
			}
			return true, nil
		}
	}
	return false, nil
}

// firstKey selects the side holding the lowest key, or both when the
// keys collide
func (i *itemIter) firstKey() source {
	if !i.parentValid() {
		if !i.wrap.valid() {
			return none
		}
		return us
	}
	if !i.wrap.valid() {
		return parent
	}

	switch cmp := bytes.Compare(i.parent.Key(), i.wrap.get().Key()); {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

func (i *itemIter) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}
