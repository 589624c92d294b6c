package stream

import (
	"math"

	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
	"github.com/iov-one/streampay/orm"
	"github.com/iov-one/streampay/x"
	"github.com/iov-one/streampay/x/cash"
)

const (
	createStreamCost   int64 = 300
	refuelStreamCost   int64 = 5
	withdrawStreamCost int64 = 5
	refundStreamCost   int64 = 5
	updateStreamCost   int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r streampay.Registry, auth x.Authenticator, ctrl cash.CoinMover) {
	bucket := NewStreamBucket()
	r.Handle(pathCreateMsg, &createStreamHandler{auth: auth, bucket: bucket, cash: ctrl})
	r.Handle(pathRefuelMsg, &refuelStreamHandler{auth: auth, bucket: bucket, cash: ctrl})
	r.Handle(pathWithdrawMsg, &withdrawStreamHandler{auth: auth, bucket: bucket, cash: ctrl})
	r.Handle(pathRefundMsg, &refundStreamHandler{auth: auth, bucket: bucket, cash: ctrl})
	r.Handle(pathUpdateDetailsMsg, &updateStreamHandler{auth: auth, bucket: bucket})
}

// RegisterQuery will register this bucket and its indexes under
// /streams, /streams/sender and /streams/recipient.
func RegisterQuery(qr streampay.QueryRouter) {
	NewStreamBucket().Register("streams", qr)
}

// streamAccount returns the address of the account holding the funds
// locked in a stream with the given ID.
func streamAccount(streamID []byte) streampay.Address {
	return streampay.NewCondition(BucketName, "seq", streamID).Address()
}

// blockHeight converts the context height to the unsigned model
// height. A missing height means the environment was not set up and
// is an error.
func blockHeight(ctx streampay.Context) (uint64, error) {
	height, ok := streampay.GetHeight(ctx)
	if !ok || height < 0 {
		return 0, errors.Wrap(errors.ErrHuman, "block height missing from context")
	}
	return uint64(height), nil
}

type createStreamHandler struct {
	auth   x.Authenticator
	bucket StreamBucket
	cash   cash.CoinMover
}

var _ streampay.Handler = (*createStreamHandler)(nil)

func (h *createStreamHandler) Check(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &streampay.CheckResult{GasAllocated: createStreamCost}, nil
}

func (h *createStreamHandler) validate(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*CreateMsg, streampay.Condition, error) {
	var msg CreateMsg
	if err := streampay.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}

	sender := x.MainSigner(ctx, h.auth)
	if sender == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, sender, nil
}

func (h *createStreamHandler) Deliver(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.DeliverResult, error) {
	msg, sender, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	obj, err := h.bucket.Create(db, &Stream{
		Sender:          sender.Address(),
		Recipient:       msg.Recipient,
		Balance:         msg.Amount,
		PaymentPerBlock: msg.PaymentPerBlock,
		Timeframe:       msg.Timeframe,
	})
	if err != nil {
		return nil, err
	}

	// Lock the funds on the stream account. On failure nothing was
	// persisted thanks to the savepoint around the execution.
	if err := h.cash.MoveCoins(db, sender.Address(), streamAccount(obj.Key()), msg.Amount); err != nil {
		return nil, err
	}

	return &streampay.DeliverResult{Data: obj.Key()}, nil
}

type refuelStreamHandler struct {
	auth   x.Authenticator
	bucket StreamBucket
	cash   cash.CoinMover
}

var _ streampay.Handler = (*refuelStreamHandler)(nil)

func (h *refuelStreamHandler) Check(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &streampay.CheckResult{GasAllocated: refuelStreamCost}, nil
}

func (h *refuelStreamHandler) validate(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*RefuelMsg, *Stream, error) {
	var msg RefuelMsg
	if err := streampay.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}

	s, err := h.bucket.GetStream(db, msg.StreamID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, s.Sender) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the sender can refuel")
	}
	if s.Balance > math.MaxUint64-msg.Amount {
		return nil, nil, errors.Wrap(errors.ErrOverflow, "stream balance")
	}
	return &msg, s, nil
}

func (h *refuelStreamHandler) Deliver(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.cash.MoveCoins(db, s.Sender, streamAccount(msg.StreamID), msg.Amount); err != nil {
		return nil, err
	}

	s.Balance += msg.Amount
	if err := h.bucket.Save(db, orm.NewSimpleObj(msg.StreamID, s)); err != nil {
		return nil, err
	}
	return &streampay.DeliverResult{Data: msg.StreamID}, nil
}

type withdrawStreamHandler struct {
	auth   x.Authenticator
	bucket StreamBucket
	cash   cash.CoinMover
}

var _ streampay.Handler = (*withdrawStreamHandler)(nil)

func (h *withdrawStreamHandler) Check(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &streampay.CheckResult{GasAllocated: withdrawStreamCost}, nil
}

func (h *withdrawStreamHandler) validate(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*WithdrawMsg, *Stream, error) {
	var msg WithdrawMsg
	if err := streampay.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}

	s, err := h.bucket.GetStream(db, msg.StreamID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, s.Recipient) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the recipient can withdraw")
	}
	return &msg, s, nil
}

func (h *withdrawStreamHandler) Deliver(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, err := blockHeight(ctx)
	if err != nil {
		return nil, err
	}

	amount := withdrawableAmount(s, height)
	// nothing vested yet is a successful no-op
	if amount == 0 {
		return &streampay.DeliverResult{Data: msg.StreamID}, nil
	}

	if err := h.cash.MoveCoins(db, streamAccount(msg.StreamID), s.Recipient, amount); err != nil {
		return nil, err
	}

	s.WithdrawnBalance += amount
	if err := h.bucket.Save(db, orm.NewSimpleObj(msg.StreamID, s)); err != nil {
		return nil, err
	}
	return &streampay.DeliverResult{Data: msg.StreamID}, nil
}

type refundStreamHandler struct {
	auth   x.Authenticator
	bucket StreamBucket
	cash   cash.CoinMover
}

var _ streampay.Handler = (*refundStreamHandler)(nil)

func (h *refundStreamHandler) Check(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &streampay.CheckResult{GasAllocated: refundStreamCost}, nil
}

func (h *refundStreamHandler) validate(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*RefundMsg, *Stream, error) {
	var msg RefundMsg
	if err := streampay.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}

	s, err := h.bucket.GetStream(db, msg.StreamID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, s.Sender) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the sender can refund")
	}
	return &msg, s, nil
}

func (h *refundStreamHandler) Deliver(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, err := blockHeight(ctx)
	if err != nil {
		return nil, err
	}

	amount := refundableAmount(s, height)
	// everything vested is a successful no-op
	if amount == 0 {
		return &streampay.DeliverResult{Data: msg.StreamID}, nil
	}

	if err := h.cash.MoveCoins(db, streamAccount(msg.StreamID), s.Sender, amount); err != nil {
		return nil, err
	}

	s.Balance -= amount
	if err := h.bucket.Save(db, orm.NewSimpleObj(msg.StreamID, s)); err != nil {
		return nil, err
	}
	return &streampay.DeliverResult{Data: msg.StreamID}, nil
}

type updateStreamHandler struct {
	auth   x.Authenticator
	bucket StreamBucket
}

var _ streampay.Handler = (*updateStreamHandler)(nil)

func (h *updateStreamHandler) Check(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &streampay.CheckResult{GasAllocated: updateStreamCost}, nil
}

func (h *updateStreamHandler) validate(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*UpdateDetailsMsg, *Stream, error) {
	var msg UpdateDetailsMsg
	if err := streampay.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}

	s, err := h.bucket.GetStream(db, msg.StreamID)
	if err != nil {
		return nil, nil, err
	}

	// one party submits the amendment, the other consents by
	// signing the digest of the new terms
	var counterparty streampay.Address
	switch {
	case h.auth.HasAddress(ctx, s.Sender):
		counterparty = s.Recipient
	case h.auth.HasAddress(ctx, s.Recipient):
		counterparty = s.Sender
	default:
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not a stream party")
	}
	if !msg.Counterparty.Equals(counterparty) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "counterparty is not the other stream party")
	}

	terms := StreamTerms{
		StreamID:        msg.StreamID,
		PaymentPerBlock: msg.PaymentPerBlock,
		Timeframe:       msg.Timeframe,
	}
	if err := validateConsent(terms, msg.Signature, counterparty); err != nil {
		return nil, nil, err
	}
	return &msg, s, nil
}

func (h *updateStreamHandler) Deliver(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	s.PaymentPerBlock = msg.PaymentPerBlock
	s.Timeframe = msg.Timeframe
	if err := h.bucket.Save(db, orm.NewSimpleObj(msg.StreamID, s)); err != nil {
		return nil, err
	}
	return &streampay.DeliverResult{Data: msg.StreamID}, nil
}

