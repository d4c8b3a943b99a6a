package mwtest

import "github.com/iov-one/multiwallet"

// Handler is a mock counting each method call and returning declared
// results.
type Handler struct {
	checkCall   int
	CheckResult multiwallet.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult multiwallet.DeliverResult
	DeliverErr    error
}

var _ multiwallet.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.CheckResult, error) {
	h.checkCall++
	return h.CheckResult, h.CheckErr
}

func (h *Handler) Deliver(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.DeliverResult, error) {
	h.deliverCall++
	return h.DeliverResult, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// Router is a minimal multiwallet.Registry implementation that routes
// messages to handlers by path.
type Router struct {
	routes map[string]multiwallet.Handler
}

var _ multiwallet.Registry = (*Router)(nil)

func NewRouter() *Router {
	return &Router{routes: make(map[string]multiwallet.Handler)}
}

func (r *Router) Handle(path string, h multiwallet.Handler) {
	if _, ok := r.routes[path]; ok {
		panic("re-registering route: " + path)
	}
	r.routes[path] = h
}

// Handler returns the handler registered for given path, or nil.
func (r *Router) Handler(path string) multiwallet.Handler {
	return r.routes[path]
}
