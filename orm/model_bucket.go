package orm

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
)

// schemaVersion prefixes every stored record. It keeps the stored value
// non-empty even for records that encode to zero bytes.
const schemaVersion byte = 1

// Model is impelemented by any entity that can be stored using ModelBucket.
type Model interface {
	dappr.Persistent
	Validate() error
}

// ModelBucket is the keyed storage of a single record type.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary key. Result is loaded into given destination model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db dappr.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns true if an entity with given key exists.
	Has(db dappr.ReadOnlyKVStore, key []byte) (bool, error)

	// Create saves given model in the database. It fails with
	// ErrDuplicate if an entity with the same key already exists.
	Create(db dappr.KVStore, key []byte, m Model) error

	// Put saves given model in the database, overwriting any previous
	// state.
	Put(db dappr.KVStore, key []byte, m Model) error

	// DBKey returns the full database key of an entity, including the
	// bucket prefix.
	DBKey(key []byte) []byte
}

// NewModelBucket returns a ModelBucket instance.
func NewModelBucket(name string) ModelBucket {
	return &modelBucket{
		b: NewBucket(name),
	}
}

type modelBucket struct {
	b Bucket
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db dappr.ReadOnlyKVStore, key []byte, dest Model) error {
	bz, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if bz == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T %X not in the store", dest, key)
	}
	if len(bz) == 0 || bz[0] != schemaVersion {
		return errors.Wrapf(errors.ErrModel, "%T %X unknown schema", dest, key)
	}
	if err := dest.Unmarshal(bz[1:]); err != nil {
		return errors.Wrapf(err, "%T", dest)
	}
	return nil
}

func (mb *modelBucket) DBKey(key []byte) []byte {
	return mb.b.DBKey(key)
}

func (mb *modelBucket) Has(db dappr.ReadOnlyKVStore, key []byte) (bool, error) {
	return mb.b.Has(db, key)
}

func (mb *modelBucket) Create(db dappr.KVStore, key []byte, m Model) error {
	exists, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(errors.ErrDuplicate, "%T %X", m, key)
	}
	return mb.Put(db, key, m)
}

func (mb *modelBucket) Put(db dappr.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	bz, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %T", m)
	}
	if err := mb.b.Set(db, key, append([]byte{schemaVersion}, bz...)); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}
