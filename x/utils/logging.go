package utils

import (
	"time"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ dappr.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx dappr.Context, store dappr.KVStore, msg dappr.Msg, next dappr.Checker) error {
	start := time.Now()
	err := next.Check(ctx, store, msg)
	logDuration(ctx, start, msg, "checked", err, true)
	return err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx dappr.Context, store dappr.KVStore, msg dappr.Msg, next dappr.Deliverer) (*dappr.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, msg)
	text := "delivered"
	if err == nil && res != nil && res.Log != "" {
		text = res.Log
	}
	logDuration(ctx, start, msg, text, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx dappr.Context, start time.Time, msg dappr.Msg, text string, err error, lowPrio bool) {
	delta := time.Now().Sub(start)
	logger := dappr.GetLogger(ctx).With("path", msg.Path(), "duration", delta/time.Microsecond)

	if err != nil {
		logger = logger.With("err", err, "code", errors.Code(err))
		if errors.ErrUnrecoverable.Is(err) {
			logger.Error("unrecoverable state", "unrecoverable", true)
			return
		}
	}

	if err != nil {
		if lowPrio {
			logger.Info(text)
		} else {
			logger.Error(text)
		}
	} else {
		if lowPrio {
			logger.Debug(text)
		} else {
			logger.Info(text)
		}
	}
}
