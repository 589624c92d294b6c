package stream

import "github.com/iov-one/streampay/errors"

var (
	// ErrInvalidSignature is returned when the counterparty consent
	// signature does not resolve to the expected party.
	ErrInvalidSignature = errors.Register(1030, "invalid signature")

	// ErrInvalidTimeframe is returned when the end of a stream
	// timeframe precedes its start.
	ErrInvalidTimeframe = errors.Register(1031, "invalid timeframe")
)
