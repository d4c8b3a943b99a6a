package mwtest

import "github.com/iov-one/multiwallet"

// Decorator is a mock implementation of the multiwallet.Decorator
// interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding
// method. If error attributes are not set then wrapped handler method
// is called and its result returned.
// Each method call is counted. Regardless of the method call result
// the counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ multiwallet.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx, next multiwallet.Checker) (multiwallet.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return multiwallet.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx, next multiwallet.Deliverer) (multiwallet.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return multiwallet.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate wraps a single Handler with a single Decorator, returning
// a Handler that runs the decorator around every call.
func Decorate(h multiwallet.Handler, d multiwallet.Decorator) multiwallet.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn multiwallet.Handler
	dc multiwallet.Decorator
}

var _ multiwallet.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
