package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
)

// isPath constrains message paths to the characters a route may carry.
// Path segments are separated with a slash, like "admin/add_owner".
var isPath = regexp.MustCompile(`^[a-z0-9_/]{3,64}$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
type Router struct {
	routes map[string]multiwallet.Handler
}

var _ multiwallet.Registry = (*Router)(nil)
var _ multiwallet.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]multiwallet.Handler),
	}
}

// Handle adds a new Handler for the given path. This function panics
// if a handler for this path was already registered, or if the path
// is invalid.
func (r *Router) Handle(path string, h multiwallet.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path. If no path is
// found, it returns a noSuchPathHandler that errors on any call.
func (r *Router) Handler(path string) multiwallet.Handler {
	h, ok := r.routes[path]
	if !ok {
		return noSuchPathHandler{path: path}
	}
	return h
}

// Check dispatches to the proper handler based on the message path
func (r *Router) Check(ctx multiwallet.Context, store multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.CheckResult, error) {
	path := multiwallet.GetPath(tx)
	return r.Handler(path).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on the message path
func (r *Router) Deliver(ctx multiwallet.Context, store multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.DeliverResult, error) {
	path := multiwallet.GetPath(tx)
	return r.Handler(path).Deliver(ctx, store, tx)
}

// noSuchPathHandler always returns ErrNotFound, because no handler
// was registered under the requested path.
type noSuchPathHandler struct {
	path string
}

var _ multiwallet.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Check(multiwallet.Context, multiwallet.KVStore, multiwallet.Tx) (multiwallet.CheckResult, error) {
	return multiwallet.CheckResult{}, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

func (h noSuchPathHandler) Deliver(multiwallet.Context, multiwallet.KVStore, multiwallet.Tx) (multiwallet.DeliverResult, error) {
	return multiwallet.DeliverResult{}, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}
