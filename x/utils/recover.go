package utils

import (
	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ streampay.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx streampay.Context, store streampay.KVStore, tx streampay.Tx, next streampay.Checker) (_ *streampay.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx streampay.Context, store streampay.KVStore, tx streampay.Tx, next streampay.Deliverer) (_ *streampay.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
