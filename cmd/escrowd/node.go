package main

import (
	"encoding/hex"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/app"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/store"
	"github.com/dappr/dappr/store/iavl"
	"github.com/dappr/dappr/x"
	"github.com/dappr/dappr/x/cash"
	"github.com/dappr/dappr/x/emergency"
	"github.com/dappr/dappr/x/escrow"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"
)

// auth trusts the conditions set by the command line for the --as flag.
var auth = x.ContextAuth{Key: "escrowd"}

// node is an opened store with the application wired on top.
type node struct {
	svc   *app.Service
	debug bool
	close func()
}

// openNode opens the configured store under home and wires all
// extensions.
func openNode(home string, cfg Config, logger log.Logger) (*node, error) {
	db, closeDB, err := openStore(home, cfg)
	if err != nil {
		return nil, err
	}

	bank := cash.NewController()
	engine := escrow.NewEngine(bank, nil)

	r := app.NewRouter()
	cash.RegisterRoutes(r, auth, bank)
	escrow.RegisterRoutes(r, auth, engine)
	emergency.RegisterRoutes(r, auth, emergency.NewController(engine))

	qr := app.NewQueryRouter()
	cash.RegisterQuery(qr)
	escrow.RegisterQuery(qr)
	emergency.RegisterQuery(qr)

	svc, err := app.NewService(db, r, qr)
	if err != nil {
		closeDB()
		return nil, errors.Wrap(err, "service")
	}
	svc.WithLogger(logger).WithEmitters(app.LogEmitter{})
	return &node{svc: svc, debug: cfg.Debug, close: closeDB}, nil
}

func openStore(home string, cfg Config) (dappr.CacheableKVStore, func(), error) {
	dir := filepath.Join(home, "data")
	switch {
	case cfg.Store == "iavl" && cfg.DBBackend == "memdb":
		s := iavl.NewCommitStoreFromDB(dbm.NewMemDB())
		return s, s.Close, nil
	case cfg.Store == "iavl":
		s, err := iavl.NewCommitStore(dir, cfg.DBName)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open iavl store")
		}
		return s, s.Close, nil
	default:
		s, err := store.OpenDBStore(cfg.DBName, cfg.DBBackend, dir)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open db store")
		}
		return s, func() { _ = s.Close() }, nil
	}
}

// identity returns the condition of a named command line user.
func identity(name string) dappr.Condition {
	return dappr.NewCondition("cli", "user", []byte(name))
}

// parseAddress accepts "@name" for the address of a named identity or any
// format understood by dappr.ParseAddress.
func parseAddress(s string) (dappr.Address, error) {
	if strings.HasPrefix(s, "@") {
		name := s[1:]
		if name == "" {
			return nil, errors.Wrap(errors.ErrInput, "empty identity name")
		}
		return identity(name).Address(), nil
	}
	addr, err := dappr.ParseAddress(s)
	if err != nil {
		return nil, err
	}
	if addr == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}
	return addr, nil
}

func parseID(s string) ([]byte, error) {
	id, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "escrow id: %s", err)
	}
	if len(id) != escrow.IDLength {
		return nil, errors.Wrapf(errors.ErrInput, "escrow id must be %d bytes", escrow.IDLength)
	}
	return id, nil
}

// parseTime accepts unix seconds or RFC3339. An empty value is zero.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrInput, "time %q", s)
	}
	return t, nil
}
