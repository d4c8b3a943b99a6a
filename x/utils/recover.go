package utils

import (
	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
)

// Recovery is a decorator that turns panics raised further down the
// stack into regular errors, keeping one bad transaction from taking
// down the process.
type Recovery struct{}

var _ multiwallet.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

func (r Recovery) Check(ctx multiwallet.Context, store multiwallet.KVStore, tx multiwallet.Tx, next multiwallet.Checker) (_ multiwallet.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

func (r Recovery) Deliver(ctx multiwallet.Context, store multiwallet.KVStore, tx multiwallet.Tx, next multiwallet.Deliverer) (_ multiwallet.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
