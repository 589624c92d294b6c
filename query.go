package streampay

import (
	"fmt"
	"strings"
)

// Query modes understood by QueryHandler implementations.
const (
	// KeyQueryMod means to query for exact match of the given key
	KeyQueryMod = ""
	// PrefixQueryMod means to query for anything with this prefix
	PrefixQueryMod = "prefix"
)

// QueryHandler is anything that can process ABCI-style queries against
// the read-only state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRouter allows us to register many query handlers to different
// paths and dispatch to the proper one.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter initializes a QueryRouter with no routes.
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler, 10),
	}
}

// RegisterAll registers a number of Registrar functions at once.
func (r QueryRouter) RegisterAll(qr ...func(QueryRouter)) {
	for _, q := range qr {
		q(r)
	}
}

// Register adds a new handler for the given path. Panics on duplicate
// registration, which is always a coding error.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if !strings.HasPrefix(path, "/") {
		panic(fmt.Sprintf("query path must start with '/': %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering query route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
