package dappr

import (
	"encoding/json"
)

// Msg is an operation request. The path is used to route it to the handler
// that knows how to execute it.
type Msg interface {
	// Path returns the routing path for this message.
	Path() string

	// Validate performs stateless checks of the message content.
	Validate() error
}

// Event is a record emitted by a successful operation, for audit and
// observability. Events are never consumed by the operations themselves.
type Event interface {
	EventName() string
}

// Handler is a core engine that can process a few specific messages
// This could represent "fund an escrow", or "sign an emergency withdrawal"
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a message
// against the current state, without executing it.
type Checker interface {
	Check(ctx Context, store KVStore, msg Msg) error
}

// Deliverer is a subset of Handler to execute a message.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, msg Msg) (*DeliverResult, error)
}

// Scoper is implemented by handlers that must run serialized with other
// operations touching the same records. LockScope returns the keys that
// the execution of the message may read or write. The store passed is
// the committed state and must not be modified.
type Scoper interface {
	LockScope(ctx Context, store ReadOnlyKVStore, msg Msg) ([][]byte, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication or logging to many Handlers
type Decorator interface {
	Check(ctx Context, store KVStore, msg Msg, next Checker) error
	Deliver(ctx Context, store KVStore, msg Msg, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(path string, h Handler)
}

// DeliverResult captures the result of a successful operation.
type DeliverResult struct {
	// Data is operation specific, usually the serialized record the
	// operation updated or the ID of a created one.
	Data []byte
	// Log is a human readable summary.
	Log string
	// Events are emitted after the state was written.
	Events []Event
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...Initializer) Initializer {
	return chainInitializer(inits)
}

type chainInitializer []Initializer

func (c chainInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, i := range c {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

// QueryHandler loads the record stored under a query key. The returned
// value is serialized by the caller.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, key []byte) (interface{}, error)
}

// QueryHandlerFunc allows to use a function as a QueryHandler.
type QueryHandlerFunc func(db ReadOnlyKVStore, key []byte) (interface{}, error)

func (fn QueryHandlerFunc) Query(db ReadOnlyKVStore, key []byte) (interface{}, error) {
	return fn(db, key)
}

// QueryRegistry is the setup side of a query router.
type QueryRegistry interface {
	Register(path string, h QueryHandler)
}
