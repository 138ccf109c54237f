package escrow

import "github.com/dappr/dappr/errors"

// Escrow reserves 1010~1029 error codes
var (
	ErrInvalidMilestoneCount     = errors.Register(1010, "invalid milestone count").Kind(errors.ErrInput)
	ErrEscrowInactive            = errors.Register(1011, "escrow not active").Kind(errors.ErrState)
	ErrInvalidMilestoneIndex     = errors.Register(1012, "invalid milestone index").Kind(errors.ErrInput)
	ErrMilestoneAlreadyCompleted = errors.Register(1013, "milestone already completed").Kind(errors.ErrState)
	ErrMilestoneNotCompleted     = errors.Register(1014, "milestone not completed").Kind(errors.ErrState)
	ErrDeadlineNotReached        = errors.Register(1015, "deadline not reached").Kind(errors.ErrState)
	ErrInsufficientFunds         = errors.Register(1016, "insufficient funds").Kind(errors.ErrAmount)
	ErrArithmeticOverflow        = errors.Register(1017, "arithmetic overflow").Kind(errors.ErrOverflow)
	ErrVerifierRejected          = errors.Register(1018, "verifier rejected").Kind(errors.ErrUnauthorized)
)
