package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
	"github.com/iov-one/multiwallet/store"
)

type panicHandler struct{}

var _ multiwallet.Handler = panicHandler{}

func (panicHandler) Check(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.DeliverResult, error) {
	panic("deliver panic")
}

func TestRecovery(t *testing.T) {
	ctx := context.Background()
	kv := store.MemStore()
	r := NewRecovery()

	_, err := r.Check(ctx, kv, nil, panicHandler{})
	assert.True(t, errors.ErrPanic.Is(err), "unexpected: %+v", err)

	_, err = r.Deliver(ctx, kv, nil, panicHandler{})
	assert.True(t, errors.ErrPanic.Is(err), "unexpected: %+v", err)
}
