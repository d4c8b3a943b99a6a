package app

import (
	"context"
	"testing"

	"github.com/iov-one/multiwallet/errors"
	"github.com/iov-one/multiwallet/mwtest"
	"github.com/iov-one/multiwallet/mwtest/assert"
	"github.com/iov-one/multiwallet/store"
)

func TestChain(t *testing.T) {
	var (
		d1, d2, d3 mwtest.Decorator
		h          mwtest.Handler
	)

	stack := ChainDecorators(&d1, nil, &d2).
		Chain(&d3).
		WithHandler(&h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &mwtest.Tx{Msg: &mwtest.Msg{RoutePath: "test/ok"}}

	if _, err := stack.Check(ctx, db, tx); err != nil {
		t.Fatalf("check failed: %+v", err)
	}
	if _, err := stack.Deliver(ctx, db, tx); err != nil {
		t.Fatalf("deliver failed: %+v", err)
	}

	assert.Equal(t, 2, d1.CallCount())
	assert.Equal(t, 2, d2.CallCount())
	assert.Equal(t, 2, d3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainAbort(t *testing.T) {
	failure := errors.Wrap(errors.ErrUnauthorized, "denied")
	d1 := mwtest.Decorator{}
	d2 := mwtest.Decorator{CheckErr: failure, DeliverErr: failure}
	var h mwtest.Handler

	stack := ChainDecorators(&d1, &d2).WithHandler(&h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &mwtest.Tx{Msg: &mwtest.Msg{RoutePath: "test/ok"}}

	_, err := stack.Check(ctx, db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = stack.Deliver(ctx, db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// the first decorator ran, the failing one stopped the chain
	assert.Equal(t, 2, d1.CallCount())
	assert.Equal(t, 2, d2.CallCount())
	assert.Equal(t, 0, h.CallCount())
}
