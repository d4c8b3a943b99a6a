package admin

import (
	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
	"github.com/iov-one/multiwallet/orm"
)

// OwnerStore gives access to the owner sequence and keeps the reverse
// lookup in sync with it. Every mutation maintains the invariant that
// each live owner's reverse entry points back at its own slot and no
// removed owner resolves to any slot.
type OwnerStore struct {
	set   orm.Bucket
	slots orm.Bucket
}

func NewOwnerStore() OwnerStore {
	return OwnerStore{
		set:   NewOwnerSetBucket(),
		slots: NewOwnerSlotBucket(),
	}
}

// Init writes the initial owner sequence and builds the reverse
// lookup. May be called only once, on wallet initialization.
func (s OwnerStore) Init(db multiwallet.KVStore, owners []multiwallet.Address) error {
	switch ok, err := s.set.Has(db, ownerSetKey); {
	case err != nil:
		return err
	case ok:
		return errors.Wrap(errors.ErrImmutable, "owner set already initialized")
	}
	set := &OwnerSet{Owners: owners}
	if err := s.set.Save(db, orm.NewSimpleObj(ownerSetKey, set)); err != nil {
		return errors.Wrap(err, "save owner set")
	}
	for i, a := range owners {
		slot := &OwnerSlot{Slot: uint32(i) + 1}
		if err := s.slots.Save(db, orm.NewSimpleObj(a, slot)); err != nil {
			return errors.Wrapf(err, "save reverse entry for slot %d", i+1)
		}
	}
	return nil
}

// Load returns the owner set. The set must exist, the wallet cannot
// operate before initialization.
func (s OwnerStore) Load(db multiwallet.ReadOnlyKVStore) (*OwnerSet, error) {
	obj, err := s.set.Get(db, ownerSetKey)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "owner set not initialized")
	}
	set, ok := obj.Value().(*OwnerSet)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return set, nil
}

// Count returns the number of current owners.
func (s OwnerStore) Count(db multiwallet.ReadOnlyKVStore) (int, error) {
	set, err := s.Load(db)
	if err != nil {
		return 0, err
	}
	return len(set.Owners), nil
}

// SlotOf returns the slot held by given address, or 0 if the address
// is not an owner.
func (s OwnerStore) SlotOf(db multiwallet.ReadOnlyKVStore, addr multiwallet.Address) (uint32, error) {
	obj, err := s.slots.Get(db, addr)
	if err != nil {
		return 0, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return 0, nil
	}
	slot, ok := obj.Value().(*OwnerSlot)
	if !ok {
		return 0, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return slot.Slot, nil
}

// IsOwner returns true if given address holds an owner slot.
func (s OwnerStore) IsOwner(db multiwallet.ReadOnlyKVStore, addr multiwallet.Address) (bool, error) {
	slot, err := s.SlotOf(db, addr)
	return slot != 0, err
}

// Add appends the address at the next free slot.
func (s OwnerStore) Add(db multiwallet.KVStore, addr multiwallet.Address) error {
	set, err := s.Load(db)
	if err != nil {
		return err
	}
	switch slot, err := s.SlotOf(db, addr); {
	case err != nil:
		return err
	case slot != 0:
		return errors.Wrapf(ErrAlreadyOwner, "%s holds slot %d", addr, slot)
	}
	set.Owners = append(set.Owners, addr)
	if err := s.set.Save(db, orm.NewSimpleObj(ownerSetKey, set)); err != nil {
		return errors.Wrap(err, "save owner set")
	}
	entry := &OwnerSlot{Slot: uint32(len(set.Owners))}
	return s.slots.Save(db, orm.NewSimpleObj(addr, entry))
}

// Remove drops the address from the owner sequence. The owner in the
// last slot is swapped into the freed position and the sequence is
// truncated by one, so all remaining slots stay dense.
func (s OwnerStore) Remove(db multiwallet.KVStore, addr multiwallet.Address) error {
	set, err := s.Load(db)
	if err != nil {
		return err
	}
	slot, err := s.SlotOf(db, addr)
	if err != nil {
		return err
	}
	if slot == 0 {
		return errors.Wrapf(ErrNotOwner, "%s", addr)
	}

	last := uint32(len(set.Owners))
	if slot != last {
		moved := set.Owners[last-1]
		set.Owners[slot-1] = moved
		entry := &OwnerSlot{Slot: slot}
		if err := s.slots.Save(db, orm.NewSimpleObj(moved, entry)); err != nil {
			return errors.Wrap(err, "update moved owner")
		}
	}
	set.Owners = set.Owners[:last-1]
	if err := s.set.Save(db, orm.NewSimpleObj(ownerSetKey, set)); err != nil {
		return errors.Wrap(err, "save owner set")
	}
	return s.slots.Delete(db, addr)
}

// Replace hands the slot held by from over to to. The reverse entry of
// from is cleared and to points at the inherited slot.
func (s OwnerStore) Replace(db multiwallet.KVStore, from, to multiwallet.Address) error {
	set, err := s.Load(db)
	if err != nil {
		return err
	}
	slot, err := s.SlotOf(db, from)
	if err != nil {
		return err
	}
	if slot == 0 {
		return errors.Wrapf(ErrNotOwner, "%s", from)
	}
	switch toSlot, err := s.SlotOf(db, to); {
	case err != nil:
		return err
	case toSlot != 0:
		return errors.Wrapf(ErrAlreadyOwner, "%s holds slot %d", to, toSlot)
	}

	set.Owners[slot-1] = to
	if err := s.set.Save(db, orm.NewSimpleObj(ownerSetKey, set)); err != nil {
		return errors.Wrap(err, "save owner set")
	}
	if err := s.slots.Delete(db, from); err != nil {
		return errors.Wrap(err, "clear old reverse entry")
	}
	entry := &OwnerSlot{Slot: slot}
	return s.slots.Save(db, orm.NewSimpleObj(to, entry))
}
