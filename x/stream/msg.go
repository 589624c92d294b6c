package stream

import (
	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
)

const (
	pathCreateMsg        = "stream/create"
	pathRefuelMsg        = "stream/refuel"
	pathWithdrawMsg      = "stream/withdraw"
	pathRefundMsg        = "stream/refund"
	pathUpdateDetailsMsg = "stream/update"
)

var _ streampay.Msg = (*CreateMsg)(nil)

// Marshal implements streampay.Persistent.
func (m *CreateMsg) Marshal() ([]byte, error) {
	return streamCodec.MarshalBinaryBare(m)
}

// Unmarshal implements streampay.Persistent.
func (m *CreateMsg) Unmarshal(raw []byte) error {
	return streamCodec.UnmarshalBinaryBare(raw, m)
}

// Validate implements streampay.Msg.
func (m *CreateMsg) Validate() error {
	if err := m.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrMsg, "zero amount")
	}
	if m.PaymentPerBlock == 0 {
		return errors.Wrap(errors.ErrMsg, "zero payment per block")
	}
	return m.Timeframe.Validate()
}

// Path implements streampay.Msg.
func (CreateMsg) Path() string {
	return pathCreateMsg
}

var _ streampay.Msg = (*RefuelMsg)(nil)

// Marshal implements streampay.Persistent.
func (m *RefuelMsg) Marshal() ([]byte, error) {
	return streamCodec.MarshalBinaryBare(m)
}

// Unmarshal implements streampay.Persistent.
func (m *RefuelMsg) Unmarshal(raw []byte) error {
	return streamCodec.UnmarshalBinaryBare(raw, m)
}

// Validate implements streampay.Msg.
func (m *RefuelMsg) Validate() error {
	if len(m.StreamID) == 0 {
		return errors.Wrap(errors.ErrMsg, "missing stream ID")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrMsg, "zero amount")
	}
	return nil
}

// Path implements streampay.Msg.
func (RefuelMsg) Path() string {
	return pathRefuelMsg
}

var _ streampay.Msg = (*WithdrawMsg)(nil)

// Marshal implements streampay.Persistent.
func (m *WithdrawMsg) Marshal() ([]byte, error) {
	return streamCodec.MarshalBinaryBare(m)
}

// Unmarshal implements streampay.Persistent.
func (m *WithdrawMsg) Unmarshal(raw []byte) error {
	return streamCodec.UnmarshalBinaryBare(raw, m)
}

// Validate implements streampay.Msg.
func (m *WithdrawMsg) Validate() error {
	if len(m.StreamID) == 0 {
		return errors.Wrap(errors.ErrMsg, "missing stream ID")
	}
	return nil
}

// Path implements streampay.Msg.
func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

var _ streampay.Msg = (*RefundMsg)(nil)

// Marshal implements streampay.Persistent.
func (m *RefundMsg) Marshal() ([]byte, error) {
	return streamCodec.MarshalBinaryBare(m)
}

// Unmarshal implements streampay.Persistent.
func (m *RefundMsg) Unmarshal(raw []byte) error {
	return streamCodec.UnmarshalBinaryBare(raw, m)
}

// Validate implements streampay.Msg.
func (m *RefundMsg) Validate() error {
	if len(m.StreamID) == 0 {
		return errors.Wrap(errors.ErrMsg, "missing stream ID")
	}
	return nil
}

// Path implements streampay.Msg.
func (RefundMsg) Path() string {
	return pathRefundMsg
}

var _ streampay.Msg = (*UpdateDetailsMsg)(nil)

// Marshal implements streampay.Persistent.
func (m *UpdateDetailsMsg) Marshal() ([]byte, error) {
	return streamCodec.MarshalBinaryBare(m)
}

// Unmarshal implements streampay.Persistent.
func (m *UpdateDetailsMsg) Unmarshal(raw []byte) error {
	return streamCodec.UnmarshalBinaryBare(raw, m)
}

// Validate implements streampay.Msg.
func (m *UpdateDetailsMsg) Validate() error {
	if len(m.StreamID) == 0 {
		return errors.Wrap(errors.ErrMsg, "missing stream ID")
	}
	if m.PaymentPerBlock == 0 {
		return errors.Wrap(errors.ErrMsg, "zero payment per block")
	}
	if err := m.Counterparty.Validate(); err != nil {
		return errors.Wrap(err, "counterparty")
	}
	if err := m.Signature.Validate(); err != nil {
		return errors.Wrap(err, "signature")
	}
	return m.Timeframe.Validate()
}

// Path implements streampay.Msg.
func (UpdateDetailsMsg) Path() string {
	return pathUpdateDetailsMsg
}
