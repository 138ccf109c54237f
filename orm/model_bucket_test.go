package orm

import (
	"testing"

	"github.com/dappr/dappr/dapprtest/assert"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/store"
)

// counter is a model used only by the tests.
type counter struct {
	Count uint64
	Owner []byte
}

func (c *counter) Marshal() ([]byte, error) { return Marshal(c) }
func (c *counter) Unmarshal(bz []byte) error { return Unmarshal(bz, c) }
func (c *counter) Validate() error {
	if len(c.Owner) == 0 {
		return errors.Field("Owner", errors.ErrEmpty, "required")
	}
	return nil
}

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	c1 := &counter{Count: 1, Owner: []byte("alice")}
	assert.Nil(t, b.Create(db, []byte("c1"), c1))

	var got counter
	assert.Nil(t, b.One(db, []byte("c1"), &got))
	assert.Equal(t, *c1, got)

	// create once
	err := b.Create(db, []byte("c1"), &counter{Count: 2, Owner: []byte("bob")})
	assert.IsErr(t, errors.ErrDuplicate, err)

	// mutate in place
	got.Count = 5
	assert.Nil(t, b.Put(db, []byte("c1"), &got))
	var updated counter
	assert.Nil(t, b.One(db, []byte("c1"), &updated))
	assert.Equal(t, uint64(5), updated.Count)

	has, err := b.Has(db, []byte("c1"))
	assert.Nil(t, err)
	assert.Equal(t, true, has)

	err = b.One(db, []byte("unknown"), &got)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestModelBucketValidatesOnWrite(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	err := b.Put(db, []byte("c1"), &counter{Count: 1})
	assert.FieldError(t, err, "Owner", errors.ErrEmpty)

	has, err := b.Has(db, []byte("c1"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}

func TestModelBucketRejectsEmptyKey(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	err := b.Put(db, nil, &counter{Count: 1, Owner: []byte("alice")})
	assert.IsErr(t, ErrInvalidKey, err)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestBucketKeysArePrefixed(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("esc")
	assert.Nil(t, b.Set(db, []byte("abc"), []byte("v")))

	raw, err := db.Get([]byte("esc:abc"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), raw)

	// two buckets never share keys
	other, err := NewBucket("mst").Get(db, []byte("abc"))
	assert.Nil(t, err)
	assert.Nil(t, other)
}

func TestBucketNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewBucket("Not-valid")
}
