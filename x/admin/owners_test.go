package admin

import (
	"testing"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
	"github.com/iov-one/multiwallet/mwtest"
	"github.com/iov-one/multiwallet/mwtest/assert"
	"github.com/iov-one/multiwallet/store"
)

// checkReverseIndex verifies that every live owner's reverse entry
// points back at its own slot and that no other address resolves to
// any slot.
func checkReverseIndex(t testing.TB, db multiwallet.KVStore, s OwnerStore, removed ...multiwallet.Address) {
	t.Helper()
	set, err := s.Load(db)
	assert.Nil(t, err)
	for i, a := range set.Owners {
		slot, err := s.SlotOf(db, a)
		assert.Nil(t, err)
		if want := uint32(i) + 1; slot != want {
			t.Fatalf("owner %s: want slot %d, got %d", a, want, slot)
		}
	}
	for _, a := range removed {
		slot, err := s.SlotOf(db, a)
		assert.Nil(t, err)
		if slot != 0 {
			t.Fatalf("removed owner %s still resolves to slot %d", a, slot)
		}
	}
}

func TestOwnerStoreInit(t *testing.T) {
	db := store.MemStore()
	s := NewOwnerStore()

	owners := []multiwallet.Address{mwtest.NewAddress(), mwtest.NewAddress(), mwtest.NewAddress()}
	assert.Nil(t, s.Init(db, owners))

	count, err := s.Count(db)
	assert.Nil(t, err)
	assert.Equal(t, 3, count)
	checkReverseIndex(t, db, s)

	// double initialization must fail
	assert.IsErr(t, errors.ErrImmutable, s.Init(db, owners))
}

func TestOwnerStoreAddRemove(t *testing.T) {
	db := store.MemStore()
	s := NewOwnerStore()

	a, b, c, d := mwtest.NewAddress(), mwtest.NewAddress(), mwtest.NewAddress(), mwtest.NewAddress()
	assert.Nil(t, s.Init(db, []multiwallet.Address{a, b, c}))

	assert.Nil(t, s.Add(db, d))
	count, err := s.Count(db)
	assert.Nil(t, err)
	assert.Equal(t, 4, count)
	slot, err := s.SlotOf(db, d)
	assert.Nil(t, err)
	assert.Equal(t, uint32(4), slot)
	checkReverseIndex(t, db, s)

	// adding an existing owner must fail
	assert.IsErr(t, ErrAlreadyOwner, s.Add(db, b))

	// removing from the middle swaps the last owner into the freed slot
	assert.Nil(t, s.Remove(db, b))
	count, err = s.Count(db)
	assert.Nil(t, err)
	assert.Equal(t, 3, count)
	slot, err = s.SlotOf(db, d)
	assert.Nil(t, err)
	assert.Equal(t, uint32(2), slot)
	checkReverseIndex(t, db, s, b)

	// removing the last slot only truncates
	assert.Nil(t, s.Remove(db, c))
	checkReverseIndex(t, db, s, b, c)

	// removing a non owner must fail
	assert.IsErr(t, ErrNotOwner, s.Remove(db, b))
}

func TestOwnerStoreReplace(t *testing.T) {
	db := store.MemStore()
	s := NewOwnerStore()

	a, b, c := mwtest.NewAddress(), mwtest.NewAddress(), mwtest.NewAddress()
	assert.Nil(t, s.Init(db, []multiwallet.Address{a, b}))

	assert.Nil(t, s.Replace(db, a, c))
	slot, err := s.SlotOf(db, c)
	assert.Nil(t, err)
	assert.Equal(t, uint32(1), slot)
	checkReverseIndex(t, db, s, a)

	// replacing a non owner must fail
	assert.IsErr(t, ErrNotOwner, s.Replace(db, a, mwtest.NewAddress()))
	// the replacement must not be an owner already
	assert.IsErr(t, ErrAlreadyOwner, s.Replace(db, b, c))
}

func TestOwnerStoreRandomChurn(t *testing.T) {
	db := store.MemStore()
	s := NewOwnerStore()

	live := []multiwallet.Address{mwtest.NewAddress(), mwtest.NewAddress()}
	assert.Nil(t, s.Init(db, live))

	var removed []multiwallet.Address
	for i := 0; i < 20; i++ {
		if i%3 == 2 && len(live) > 1 {
			idx := i % len(live)
			victim := live[idx]
			assert.Nil(t, s.Remove(db, victim))
			// mirror the swap and truncate
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
			removed = append(removed, victim)
		} else {
			next := mwtest.NewAddress()
			assert.Nil(t, s.Add(db, next))
			live = append(live, next)
		}
		checkReverseIndex(t, db, s, removed...)
	}
}
