package app

import (
	"sync/atomic"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Service executes messages against a store. Every delivered message is
// one atomic change: either all its writes are persisted or none.
//
// Deliver and Check are safe for concurrent use.
type Service struct {
	store    dappr.CacheableKVStore
	router   *Router
	queries  QueryRouter
	handler  dappr.Handler
	emitters []Emitter
	locks    *keyLocks
	logger   log.Logger

	// height of the last delivered message, accessed atomically
	height int64
}

// NewService returns a service that routes messages with given router.
// A commit store is loaded to its latest version and every successful
// message is committed as a new version.
func NewService(store dappr.CacheableKVStore, router *Router, queries QueryRouter) (*Service, error) {
	s := &Service{
		store:   store,
		router:  router,
		queries: queries,
		handler: ChainDecorators(
			utils.NewLogging(),
			utils.NewRecovery(),
			utils.NewSavepoint(),
		).WithHandler(router),
		locks:  newKeyLocks(),
		logger: log.NewNopLogger(),
	}
	if cs, ok := store.(dappr.CommitKVStore); ok {
		if err := cs.LoadLatestVersion(); err != nil {
			return nil, errors.Wrap(err, "load store")
		}
		id, err := cs.LatestVersion()
		if err != nil {
			return nil, errors.Wrap(err, "latest version")
		}
		s.height = id.Version
	}
	return s, nil
}

// WithLogger sets the logger passed to all handlers.
func (s *Service) WithLogger(logger log.Logger) *Service {
	s.logger = logger
	return s
}

// WithEmitters sets the emitters that receive the events of delivered
// messages.
func (s *Service) WithEmitters(emitters ...Emitter) *Service {
	s.emitters = emitters
	return s
}

// Store returns the store the service writes to.
func (s *Service) Store() dappr.CacheableKVStore {
	return s.store
}

// Height returns the height of the last delivered message.
func (s *Service) Height() int64 {
	return atomic.LoadInt64(&s.height)
}

// Check validates the message and runs the handler checks against the
// current state. The state is never modified.
func (s *Service) Check(ctx dappr.Context, msg dappr.Msg) error {
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	ctx = s.context(ctx, "check", msg, s.Height())
	return s.handler.Check(ctx, s.store, msg)
}

// Deliver executes the message. The keys declared by the handler are
// locked for the whole execution, including the commit. Events are emitted
// only when the changes were persisted.
func (s *Service) Deliver(ctx dappr.Context, msg dappr.Msg) (*dappr.DeliverResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}

	keys, err := s.router.LockScope(ctx, s.store, msg)
	if err != nil {
		return nil, errors.Wrap(err, "lock scope")
	}
	unlock := s.locks.Lock(keys)
	defer unlock()

	ctx = s.context(ctx, "deliver", msg, atomic.AddInt64(&s.height, 1))
	res, err := s.handler.Deliver(ctx, s.store, msg)
	if err != nil {
		return nil, err
	}
	if _, err := s.commit(); err != nil {
		dappr.GetLogger(ctx).Error("cannot commit", "err", err, "unrecoverable", true)
		return nil, errors.Wrapf(errors.ErrUnrecoverable, "commit: %s", err)
	}
	for _, e := range s.emitters {
		e.Emit(ctx, res.Events)
	}
	return res, nil
}

// Query runs the query handler registered for the path against the
// current state.
func (s *Service) Query(path string, key []byte) (interface{}, error) {
	return s.queries.Query(s.store, path, key)
}

// InitGenesis initializes the state from genesis content. It can be run
// only once for a store.
func (s *Service) InitGenesis(ctx dappr.Context, gen Genesis, init dappr.Initializer) error {
	cache := s.store.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if err := init.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "init from genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	version, err := s.commit()
	if err != nil {
		return errors.Wrap(err, "commit genesis")
	}
	if version > 0 {
		atomic.StoreInt64(&s.height, version)
	}
	s.logger.Info("genesis loaded", "chain_id", gen.ChainID)
	return nil
}

// ChainID returns the chain ID set on genesis, if any.
func (s *Service) ChainID() (string, error) {
	return loadChainID(s.store)
}

func (s *Service) context(ctx dappr.Context, call string, msg dappr.Msg, height int64) dappr.Context {
	ctx = dappr.WithLogger(ctx, s.logger.With("call", call))
	if _, ok := dappr.GetHeight(ctx); !ok {
		ctx = dappr.WithHeight(ctx, height)
	}
	return ctx
}

// commit persists a new version when the store is a commit store and
// returns its number.
func (s *Service) commit() (int64, error) {
	cs, ok := s.store.(dappr.CommitKVStore)
	if !ok {
		return 0, nil
	}
	id, err := cs.Commit()
	return id.Version, err
}
