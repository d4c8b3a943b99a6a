package utils

import (
	"time"

	"github.com/iov-one/multiwallet"
)

// Logging is a decorator that records every transaction's outcome and
// processing time on the context logger.
type Logging struct{}

var _ multiwallet.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs at debug level, or error level when the check fails
func (r Logging) Check(ctx multiwallet.Context, store multiwallet.KVStore, tx multiwallet.Tx, next multiwallet.Checker) (multiwallet.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, true)
	return res, err
}

// Deliver logs at info level, or error level when delivery fails
func (r Logging) Deliver(ctx multiwallet.Context, store multiwallet.KVStore, tx multiwallet.Tx, next multiwallet.Deliverer) (multiwallet.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, false)
	return res, err
}

// logDuration emits one entry per transaction, empty result log
// included, carrying the elapsed time and any error.
func logDuration(ctx multiwallet.Context, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := multiwallet.GetLogger(ctx).With("duration", delta/time.Microsecond)

	switch {
	case err != nil:
		logger.With("err", err).Error(msg)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
