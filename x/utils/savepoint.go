package utils

import (
	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error.
//
// This is what makes every call all or nothing: either a handler
// completes all its state mutations or its entire effect is discarded
// as a unit.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ multiwallet.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	return Savepoint{
		onCheck:   true,
		onDeliver: s.onDeliver,
	}
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	return Savepoint{
		onCheck:   s.onCheck,
		onDeliver: true,
	}
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx multiwallet.Context, store multiwallet.KVStore, tx multiwallet.Tx, next multiwallet.Checker) (multiwallet.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}

	cstore, ok := store.(multiwallet.CacheableKVStore)
	if !ok {
		return next.Check(ctx, store, tx)
	}

	cache := cstore.CacheWrap()
	res, err := next.Check(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return res, err
	}
	if werr := cache.Write(); werr != nil {
		return multiwallet.CheckResult{}, errors.Wrap(werr, "writing savepoint")
	}
	return res, nil
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx multiwallet.Context, store multiwallet.KVStore, tx multiwallet.Tx, next multiwallet.Deliverer) (multiwallet.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}

	cstore, ok := store.(multiwallet.CacheableKVStore)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	cache := cstore.CacheWrap()
	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return res, err
	}
	if werr := cache.Write(); werr != nil {
		return multiwallet.DeliverResult{}, errors.Wrap(werr, "writing savepoint")
	}
	return res, nil
}
