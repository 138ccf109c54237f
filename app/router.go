package app

import (
	"fmt"
	"regexp"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
)

// isPath is the allowed format of a message path, "<extension>/<name>".
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router allows us to register many handlers with different paths and
// then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]dappr.Handler
}

var (
	_ dappr.Registry = (*Router)(nil)
	_ dappr.Handler  = (*Router)(nil)
	_ dappr.Scoper   = (*Router)(nil)
)

// NewRouter initializes a router with no routes
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]dappr.Handler, 10),
	}
}

// Handle adds a new Handler for the given path. This function panics if a
// handler for given path is already registered or the path is malformed.
func (r *Router) Handle(path string, h dappr.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path. If no path is
// found, returns a handler that fails with ErrNotFound. Always returns a
// non-nil Handler.
func (r *Router) Handler(path string) dappr.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}


// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx dappr.Context, store dappr.KVStore, msg dappr.Msg) error {
	return r.Handler(msg.Path()).Check(ctx, store, msg)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx dappr.Context, store dappr.KVStore, msg dappr.Msg) (*dappr.DeliverResult, error) {
	return r.Handler(msg.Path()).Deliver(ctx, store, msg)
}

// LockScope returns the keys declared by the handler of the message. A
// handler that does not declare any is run without locking anything, which
// is only correct for handlers that do not write.
func (r *Router) LockScope(ctx dappr.Context, store dappr.ReadOnlyKVStore, msg dappr.Msg) ([][]byte, error) {
	h := r.Handler(msg.Path())
	if _, ok := h.(notFoundHandler); ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", msg.Path())
	}
	s, ok := h.(dappr.Scoper)
	if !ok {
		return nil, nil
	}
	return s.LockScope(ctx, store, msg)
}

// notFoundHandler always returns ErrNotFound, the string is the path that
// was requested.
type notFoundHandler string

func (path notFoundHandler) Check(dappr.Context, dappr.KVStore, dappr.Msg) error {
	return errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(dappr.Context, dappr.KVStore, dappr.Msg) (*dappr.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

// QueryRouter allows us to register many query handlers to different paths
// and then direct each query to the proper handler.
type QueryRouter struct {
	routes map[string]dappr.QueryHandler
}

var _ dappr.QueryRegistry = QueryRouter{}

// NewQueryRouter initializes a QueryRouter with no routes
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]dappr.QueryHandler, 10),
	}
}

// Register adds a new Handler for the given path.
// panics if another Handler was already registered
func (r QueryRouter) Register(path string, h dappr.QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering query route: %s", path))
	}
	r.routes[path] = h
}

// Query runs the handler registered for the path.
func (r QueryRouter) Query(db dappr.ReadOnlyKVStore, path string, key []byte) (interface{}, error) {
	h, ok := r.routes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for path %q", path)
	}
	return h.Query(db, key)
}
