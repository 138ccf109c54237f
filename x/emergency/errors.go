package emergency

import "github.com/dappr/dappr/errors"

// Emergency reserves 1030~1039 error codes
var (
	ErrInvalidSigner   = errors.Register(1030, "invalid signer").Kind(errors.ErrInput)
	ErrAlreadySigned   = errors.Register(1031, "already signed").Kind(errors.ErrState)
	ErrAlreadyExecuted = errors.Register(1032, "already executed").Kind(errors.ErrState)
	ErrSignersMismatch = errors.Register(1033, "signers mismatch").Kind(errors.ErrState)
)
