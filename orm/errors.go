package orm

import (
	"github.com/dappr/dappr/errors"
)

// Orm reserves 100~109 error codes

// ErrInvalidKey is returned when a record key is empty or malformed.
var ErrInvalidKey = errors.Register(100, "invalid key").Kind(errors.ErrInput)
