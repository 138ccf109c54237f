/*
Package errors implements custom error interfaces for dappr.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary.

If you want to register a custom error - use Register(code, description). An
extension error should declare which of the root classes it belongs to, so
that a caller can test either for the precise failure or for its category:

	var ErrAlreadySigned = errors.Register(1032, "already signed").Kind(errors.ErrState)

	ErrAlreadySigned.Is(err) // precise failure
	errors.ErrState.Is(err)  // caller view is stale, refresh and retry

The classes used by the escrow extensions are:

	ErrInput     validation of caller input, never retried automatically
	ErrState     state conflict, the caller view is stale
	ErrOverflow  a counter would exceed its representable range
	ErrAmount    insufficient funds reported by the ledger
	ErrNotFound  a referenced record does not exist

For reusing errors - use Errxxx.New and Errxxx.Newf.

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we only
record the first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
for the error
	%s is just the error message
	%+v is the message followed by the full stack trace
*/
package errors
