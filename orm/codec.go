package orm

import (
	"github.com/dappr/dappr/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// Marshal serializes a record using the binary amino encoding. The record
// must be a pointer to a struct built from amino supported types only.
func Marshal(record interface{}) ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(record)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return bz, nil
}

// Unmarshal loads the amino encoded data into given record pointer.
func Unmarshal(bz []byte, record interface{}) error {
	if err := cdc.UnmarshalBinaryBare(bz, record); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}
