package gconf

import (
	"encoding/json"
	"testing"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/dapprtest/assert"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/store"
)

// testConf is a minimal configuration kept as JSON.
type testConf struct {
	Owner string `json:"owner"`
	Limit uint64 `json:"limit"`
}

func (c *testConf) Marshal() ([]byte, error) { return json.Marshal(c) }
func (c *testConf) Unmarshal(raw []byte) error { return json.Unmarshal(raw, c) }
func (c *testConf) Validate() error {
	if c.Owner == "" {
		return errors.Field("Owner", errors.ErrEmpty, "required")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	err := Load(db, "test", &testConf{})
	assert.IsErr(t, errors.ErrNotFound, err)

	err = Save(db, "test", &testConf{Limit: 1})
	assert.FieldError(t, err, "Owner", errors.ErrEmpty)

	assert.Nil(t, Save(db, "test", &testConf{Owner: "alice", Limit: 7}))

	var got testConf
	assert.Nil(t, Load(db, "test", &got))
	assert.Equal(t, testConf{Owner: "alice", Limit: 7}, got)

	raw, err := db.Get([]byte("_c:test"))
	assert.Nil(t, err)
	if raw == nil {
		t.Fatal("configuration must be stored under the _c: key")
	}
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		want    testConf
	}{
		"valid": {
			genesis: `{"conf": {"test": {"owner": "bob", "limit": 3}}}`,
			want:    testConf{Owner: "bob", Limit: 3},
		},
		"missing package": {
			genesis: `{"conf": {"other": {"owner": "bob"}}}`,
			wantErr: errors.ErrNotFound,
		},
		"malformed": {
			genesis: `{"conf": {"test": {"owner": 42}}}`,
			wantErr: errors.ErrInput,
		},
		"invalid": {
			genesis: `{"conf": {"test": {"limit": 3}}}`,
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts dappr.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.genesis), &opts))

			db := store.MemStore()
			err := InitConfig(db, opts, "test", &testConf{})
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			var got testConf
			assert.Nil(t, Load(db, "test", &got))
			assert.Equal(t, tc.want, got)
		})
	}
}
