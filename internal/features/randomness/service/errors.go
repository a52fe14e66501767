package service

import "errors"

var (
	// ErrFulfillTimeout is returned when the oracle did not fulfill a request
	// within the caller's timeout. Callers recover by falling back to local
	// secure randomness.
	ErrFulfillTimeout = errors.New("randomness request not fulfilled before timeout")

	// ErrUnknownHandle is returned when a fulfillment is requested for a
	// handle this source never issued.
	ErrUnknownHandle = errors.New("unknown randomness request handle")
)
