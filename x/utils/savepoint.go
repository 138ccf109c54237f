package utils

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error.
//
// Check always runs against a savepoint that is discarded, so that a check
// never modifies the state.
type Savepoint struct{}

var _ dappr.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// Check runs the next checker on a cache that is always dropped.
func (s Savepoint) Check(ctx dappr.Context, store dappr.KVStore, msg dappr.Msg, next dappr.Checker) error {
	cstore, ok := store.(dappr.CacheableKVStore)
	if !ok {
		return errors.Wrapf(errors.ErrHuman, "%T cannot be cache wrapped", store)
	}
	cache := cstore.CacheWrap()
	defer cache.Discard()
	return next.Check(ctx, cache, msg)
}

// Deliver writes the changes of the next deliverer only if it succeeded.
func (s Savepoint) Deliver(ctx dappr.Context, store dappr.KVStore, msg dappr.Msg, next dappr.Deliverer) (*dappr.DeliverResult, error) {
	cstore, ok := store.(dappr.CacheableKVStore)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "%T cannot be cache wrapped", store)
	}

	cache := cstore.CacheWrap()
	res, err := next.Deliver(ctx, cache, msg)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}
