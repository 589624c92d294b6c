package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
)

// isPath describes a valid routing path: "<extension>/<operation>".
var isPath = regexp.MustCompile(`^[a-z]+[a-z0-9_]*/[a-z]+[a-z0-9_]*$`).MatchString

// Router maps message paths to handlers and dispatches transactions
// to the handler registered for the transaction message.
type Router struct {
	handlers map[string]streampay.Handler
}

var _ streampay.Registry = (*Router)(nil)
var _ streampay.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]streampay.Handler),
	}
}

// Handle implements streampay.Registry. It panics on an invalid path
// or a duplicate registration, both are programmer errors.
func (r *Router) Handle(path string, h streampay.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.handlers[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.handlers[path] = h
}

// Handler returns the registered Handler. It always returns a
// non-nil Handler, resolving unknown paths to a handler that fails
// with ErrNotFound.
func (r *Router) Handler(path string) streampay.Handler {
	h, ok := r.handlers[path]
	if !ok {
		return notFoundHandler(path)
	}
	return h
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg.Path()).Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg.Path()).Deliver(ctx, db, tx)
}

// notFoundHandler always fails with ErrNotFound for the path it was
// created for.
type notFoundHandler string

var _ streampay.Handler = notFoundHandler("")

func (h notFoundHandler) Check(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(h))
}

func (h notFoundHandler) Deliver(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(h))
}
