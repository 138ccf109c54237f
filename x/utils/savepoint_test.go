package utils

import (
	"testing"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/dapprtest"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// always written before calling the decorator
	ok, ov := []byte("demo"), []byte("data")
	// key and value the handler tries to write
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}
	derr := errors.ErrState.New("something went wrong")

	cases := map[string]struct {
		handler dappr.Handler
		check   bool
		wantErr bool
		written [][]byte
		missing [][]byte
	}{
		"check never writes on success": {
			handler: dapprtest.WriteHandler{Key: nk, Value: nv},
			check:   true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"check never writes on failure": {
			handler: dapprtest.WriteHandler{Key: nk, Value: nv, Err: derr},
			check:   true,
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver rolls back on failure": {
			handler: dapprtest.WriteHandler{Key: nk, Value: nv, Err: derr},
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver writes on success": {
			handler: dapprtest.WriteHandler{Key: nk, Value: nv},
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := dapprtest.Context()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			msg := &dapprtest.Msg{RoutePath: "test/write"}
			var err error
			if tc.check {
				err = NewSavepoint().Check(ctx, kv, msg, tc.handler)
			} else {
				_, err = NewSavepoint().Deliver(ctx, kv, msg, tc.handler)
			}
			if tc.wantErr {
				assert.True(t, errors.ErrState.Is(err))
			} else {
				assert.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "missing %X", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "unexpected %X", k)
			}
		})
	}
}

func TestSavepointNonCacheable(t *testing.T) {
	kv := store.MemStore()
	ctx := dapprtest.Context()
	msg := &dapprtest.Msg{RoutePath: "test/write"}
	err := NewSavepoint().Check(ctx, nonCacheable{kv}, msg, &dapprtest.Handler{})
	assert.True(t, errors.ErrHuman.Is(err))
}

// nonCacheable hides the CacheWrap method of the wrapped store.
type nonCacheable struct {
	dappr.KVStore
}
