package stream

import (
	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/crypto"
	"github.com/tendermint/go-amino"
)

// streamCodec serializes all models and messages of this extension.
// Amino struct encoding is deterministic, so it is also used to
// produce the digest signed when amending stream terms.
var streamCodec = amino.NewCodec()

// Timeframe is the block height window in which a stream vests. The
// stream starts paying out after StartBlock and is fully vested at
// EndBlock.
type Timeframe struct {
	StartBlock uint64
	EndBlock   uint64
}

// Stream is a continuous payment from a sender to a recipient.
//
// Balance is the total amount ever locked into the stream, reduced
// only when the sender takes a refund. WithdrawnBalance is the total
// the recipient has taken out so far.
type Stream struct {
	Sender           streampay.Address
	Recipient        streampay.Address
	Balance          uint64
	WithdrawnBalance uint64
	PaymentPerBlock  uint64
	Timeframe        Timeframe
}

// StreamTerms are the amendable parameters of a stream. Both parties
// sign a digest of this structure to agree on an update.
type StreamTerms struct {
	StreamID        []byte
	PaymentPerBlock uint64
	Timeframe       Timeframe
}

// CreateMsg opens a new stream, locking Amount from the sender.
type CreateMsg struct {
	Recipient       streampay.Address
	Amount          uint64
	PaymentPerBlock uint64
	Timeframe       Timeframe
}

// RefuelMsg locks additional funds into an existing stream.
type RefuelMsg struct {
	StreamID []byte
	Amount   uint64
}

// WithdrawMsg pays out everything vested so far to the recipient.
type WithdrawMsg struct {
	StreamID []byte
}

// RefundMsg returns the unvested remainder to the sender once the
// timeframe is over.
type RefundMsg struct {
	StreamID []byte
}

// UpdateDetailsMsg amends the payment rate and timeframe of a stream.
// Counterparty is the non-submitting stream party, and Signature is
// its consent over the digest of the new terms.
type UpdateDetailsMsg struct {
	StreamID        []byte
	PaymentPerBlock uint64
	Timeframe       Timeframe
	Counterparty    streampay.Address
	Signature       crypto.Signature
}
