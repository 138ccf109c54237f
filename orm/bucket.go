package orm

import (
	"fmt"
	"regexp"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a prefixed subspace of the DB. All keys stored through a
// bucket are prefixed with "<name>:".
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket to store data
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the bucket name.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get returns the raw value stored under the key, nil if missing.
func (b Bucket) Get(db dappr.ReadOnlyKVStore, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.Wrap(ErrInvalidKey, "empty")
	}
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", b.name)
	}
	return bz, nil
}

// Has checks if there is a value stored under the key.
func (b Bucket) Has(db dappr.ReadOnlyKVStore, key []byte) (bool, error) {
	if len(key) == 0 {
		return false, errors.Wrap(ErrInvalidKey, "empty")
	}
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrapf(err, "has %s", b.name)
	}
	return ok, nil
}

// Set writes the raw value under the key.
func (b Bucket) Set(db dappr.KVStore, key, value []byte) error {
	if len(key) == 0 {
		return errors.Wrap(ErrInvalidKey, "empty")
	}
	if err := db.Set(b.DBKey(key), value); err != nil {
		return errors.Wrapf(err, "set %s", b.name)
	}
	return nil
}
