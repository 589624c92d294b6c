package stream

import (
	"context"
	"testing"

	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/app"
	"github.com/iov-one/streampay/crypto"
	"github.com/iov-one/streampay/errors"
	"github.com/iov-one/streampay/store"
	"github.com/iov-one/streampay/streamtest"
	"github.com/iov-one/streampay/streamtest/assert"
	"github.com/iov-one/streampay/x"
	"github.com/iov-one/streampay/x/cash"
	"github.com/iov-one/streampay/x/utils"
)

var (
	senderKey    = crypto.PrivKeySecp256k1FromSeed(seed("alice"))
	recipientKey = crypto.PrivKeySecp256k1FromSeed(seed("bob"))
	strangerKey  = crypto.PrivKeySecp256k1FromSeed(seed("eve"))

	senderCond    = senderKey.PublicKey().Condition()
	recipientCond = recipientKey.PublicKey().Condition()
	strangerCond  = strangerKey.PublicKey().Condition()
)

type testEnv struct {
	db     streampay.CacheableKVStore
	rt     *app.Router
	auth   *streamtest.CtxAuth
	ctrl   cash.Controller
	bucket StreamBucket
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()
	env := &testEnv{
		db:     store.MemStore(),
		rt:     app.NewRouter(),
		auth:   &streamtest.CtxAuth{Key: "auth"},
		ctrl:   cash.NewController(),
		bucket: NewStreamBucket(),
	}
	RegisterRoutes(env.rt, x.ChainAuth(env.auth), env.ctrl)
	assert.Nil(t, env.ctrl.IssueCoins(env.db, senderCond.Address(), 1000))
	return env
}

// deliver runs the message through the router as the given signer at
// the given height.
func (e *testEnv) deliver(height int64, signer streampay.Condition, msg streampay.Msg) (*streampay.DeliverResult, error) {
	ctx := streampay.WithHeight(context.Background(), height)
	if signer != nil {
		ctx = e.auth.SetConditions(ctx, signer)
	}
	return e.rt.Deliver(ctx, e.db, &streamtest.Tx{Msg: msg})
}

func (e *testEnv) balance(t testing.TB, addr streampay.Address) uint64 {
	t.Helper()
	funds, err := e.ctrl.Balance(e.db, addr)
	assert.Nil(t, err)
	return funds
}

func (e *testEnv) stream(t testing.TB, id []byte) *Stream {
	t.Helper()
	s, err := e.bucket.GetStream(e.db, id)
	assert.Nil(t, err)
	return s
}

// create opens a default stream: 5 locked, one coin per block over
// blocks 0 to 5.
func (e *testEnv) create(t testing.TB) []byte {
	t.Helper()
	res, err := e.deliver(0, senderCond, &CreateMsg{
		Recipient:       recipientCond.Address(),
		Amount:          5,
		PaymentPerBlock: 1,
		Timeframe:       Timeframe{StartBlock: 0, EndBlock: 5},
	})
	assert.Nil(t, err)
	return res.Data
}

func TestCreateStream(t *testing.T) {
	env := newTestEnv(t)

	id := env.create(t)
	assert.Equal(t, streamtest.SequenceID(0), id)

	s := env.stream(t, id)
	assert.Equal(t, senderCond.Address(), s.Sender)
	assert.Equal(t, recipientCond.Address(), s.Recipient)
	assert.Equal(t, uint64(5), s.Balance)
	assert.Equal(t, uint64(0), s.WithdrawnBalance)
	assert.Equal(t, uint64(1), s.PaymentPerBlock)
	assert.Equal(t, Timeframe{StartBlock: 0, EndBlock: 5}, s.Timeframe)

	// the locked funds moved to the stream account
	assert.Equal(t, uint64(995), env.balance(t, senderCond.Address()))
	assert.Equal(t, uint64(5), env.balance(t, streamAccount(id)))

	// IDs are assigned sequentially from zero
	id2 := env.create(t)
	assert.Equal(t, streamtest.SequenceID(1), id2)
}

func TestCreateStreamFailures(t *testing.T) {
	env := newTestEnv(t)

	// no signer
	_, err := env.deliver(0, nil, &CreateMsg{
		Recipient:       recipientCond.Address(),
		Amount:          5,
		PaymentPerBlock: 1,
		Timeframe:       Timeframe{StartBlock: 0, EndBlock: 5},
	})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// backwards timeframe
	_, err = env.deliver(0, senderCond, &CreateMsg{
		Recipient:       recipientCond.Address(),
		Amount:          5,
		PaymentPerBlock: 1,
		Timeframe:       Timeframe{StartBlock: 6, EndBlock: 5},
	})
	assert.IsErr(t, ErrInvalidTimeframe, err)

	// more than the sender owns
	_, err = env.deliver(0, senderCond, &CreateMsg{
		Recipient:       recipientCond.Address(),
		Amount:          5000,
		PaymentPerBlock: 1,
		Timeframe:       Timeframe{StartBlock: 0, EndBlock: 5},
	})
	assert.IsErr(t, errors.ErrAmount, err)
}

func TestRefuelStream(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t)

	_, err := env.deliver(1, senderCond, &RefuelMsg{StreamID: id, Amount: 5})
	assert.Nil(t, err)
	assert.Equal(t, uint64(10), env.stream(t, id).Balance)
	assert.Equal(t, uint64(10), env.balance(t, streamAccount(id)))
	assert.Equal(t, uint64(990), env.balance(t, senderCond.Address()))

	// only the sender can refuel
	_, err = env.deliver(1, strangerCond, &RefuelMsg{StreamID: id, Amount: 5})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, uint64(10), env.stream(t, id).Balance)

	// unknown stream
	_, err = env.deliver(1, senderCond, &RefuelMsg{StreamID: streamtest.SequenceID(42), Amount: 5})
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestWithdrawFromStream(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t)

	// three blocks in, three coins vested
	_, err := env.deliver(3, recipientCond, &WithdrawMsg{StreamID: id})
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), env.balance(t, recipientCond.Address()))
	assert.Equal(t, uint64(3), env.stream(t, id).WithdrawnBalance)

	// withdrawing again at the same height moves nothing
	_, err = env.deliver(3, recipientCond, &WithdrawMsg{StreamID: id})
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), env.balance(t, recipientCond.Address()))
	assert.Equal(t, uint64(3), env.stream(t, id).WithdrawnBalance)

	// only the recipient can withdraw
	_, err = env.deliver(3, senderCond, &WithdrawMsg{StreamID: id})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = env.deliver(3, strangerCond, &WithdrawMsg{StreamID: id})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, uint64(3), env.stream(t, id).WithdrawnBalance)

	// after the end the rest is claimable, and no more
	_, err = env.deliver(100, recipientCond, &WithdrawMsg{StreamID: id})
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), env.balance(t, recipientCond.Address()))
	assert.Equal(t, uint64(0), env.balance(t, streamAccount(id)))
}

func TestRefundStream(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t)

	// double the locked funds, the timeframe only vests half
	_, err := env.deliver(1, senderCond, &RefuelMsg{StreamID: id, Amount: 5})
	assert.Nil(t, err)

	// only the sender can refund
	_, err = env.deliver(6, recipientCond, &RefundMsg{StreamID: id})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// past the end the sender gets back what never vested
	_, err = env.deliver(6, senderCond, &RefundMsg{StreamID: id})
	assert.Nil(t, err)
	assert.Equal(t, uint64(995), env.balance(t, senderCond.Address()))
	assert.Equal(t, uint64(5), env.stream(t, id).Balance)

	// a second refund is a no-op
	_, err = env.deliver(7, senderCond, &RefundMsg{StreamID: id})
	assert.Nil(t, err)
	assert.Equal(t, uint64(995), env.balance(t, senderCond.Address()))

	// the refund never touches the recipient's vested funds
	_, err = env.deliver(7, recipientCond, &WithdrawMsg{StreamID: id})
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), env.balance(t, recipientCond.Address()))
	assert.Equal(t, uint64(0), env.balance(t, streamAccount(id)))
}

func TestRefundRunningStream(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t)

	// three blocks in, two coins did not vest yet
	_, err := env.deliver(3, senderCond, &RefundMsg{StreamID: id})
	assert.Nil(t, err)
	assert.Equal(t, uint64(997), env.balance(t, senderCond.Address()))
	assert.Equal(t, uint64(3), env.stream(t, id).Balance)

	// the reduced balance freezes vesting, later blocks add nothing
	_, err = env.deliver(5, senderCond, &RefundMsg{StreamID: id})
	assert.Nil(t, err)
	assert.Equal(t, uint64(997), env.balance(t, senderCond.Address()))

	// the recipient keeps what vested before the refund
	_, err = env.deliver(5, recipientCond, &WithdrawMsg{StreamID: id})
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), env.balance(t, recipientCond.Address()))
	assert.Equal(t, uint64(0), env.balance(t, streamAccount(id)))
}

func signTerms(t testing.TB, key *crypto.PrivateKey, terms StreamTerms) crypto.Signature {
	t.Helper()
	digest, err := TermsHash(terms)
	assert.Nil(t, err)
	sig, err := key.Sign(digest)
	assert.Nil(t, err)
	return sig
}

func TestUpdateStreamDetails(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t)

	terms := StreamTerms{
		StreamID:        id,
		PaymentPerBlock: 2,
		Timeframe:       Timeframe{StartBlock: 0, EndBlock: 4},
	}

	// the sender submits, the recipient consents
	_, err := env.deliver(1, senderCond, &UpdateDetailsMsg{
		StreamID:        id,
		PaymentPerBlock: terms.PaymentPerBlock,
		Timeframe:       terms.Timeframe,
		Counterparty:    recipientCond.Address(),
		Signature:       signTerms(t, recipientKey, terms),
	})
	assert.Nil(t, err)

	s := env.stream(t, id)
	assert.Equal(t, uint64(2), s.PaymentPerBlock)
	assert.Equal(t, Timeframe{StartBlock: 0, EndBlock: 4}, s.Timeframe)

	// vesting follows the new rate
	_, err = env.deliver(2, recipientCond, &WithdrawMsg{StreamID: id})
	assert.Nil(t, err)
	assert.Equal(t, uint64(4), env.balance(t, recipientCond.Address()))
}

func TestUpdateStreamDetailsByRecipient(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t)

	terms := StreamTerms{
		StreamID:        id,
		PaymentPerBlock: 2,
		Timeframe:       Timeframe{StartBlock: 0, EndBlock: 5},
	}

	// the recipient submits, the sender consents
	_, err := env.deliver(1, recipientCond, &UpdateDetailsMsg{
		StreamID:        id,
		PaymentPerBlock: terms.PaymentPerBlock,
		Timeframe:       terms.Timeframe,
		Counterparty:    senderCond.Address(),
		Signature:       signTerms(t, senderKey, terms),
	})
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), env.stream(t, id).PaymentPerBlock)
}

func TestUpdateStreamDetailsFailures(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t)

	terms := StreamTerms{
		StreamID:        id,
		PaymentPerBlock: 2,
		Timeframe:       Timeframe{StartBlock: 0, EndBlock: 4},
	}

	// a signature from someone who is not the counterparty
	_, err := env.deliver(1, senderCond, &UpdateDetailsMsg{
		StreamID:        id,
		PaymentPerBlock: terms.PaymentPerBlock,
		Timeframe:       terms.Timeframe,
		Counterparty:    recipientCond.Address(),
		Signature:       signTerms(t, strangerKey, terms),
	})
	assert.IsErr(t, ErrInvalidSignature, err)

	// a consent signature over different terms
	otherTerms := terms
	otherTerms.PaymentPerBlock = 1000
	_, err = env.deliver(1, senderCond, &UpdateDetailsMsg{
		StreamID:        id,
		PaymentPerBlock: terms.PaymentPerBlock,
		Timeframe:       terms.Timeframe,
		Counterparty:    recipientCond.Address(),
		Signature:       signTerms(t, recipientKey, otherTerms),
	})
	assert.IsErr(t, ErrInvalidSignature, err)

	// the declared counterparty must be the other stream party
	_, err = env.deliver(1, senderCond, &UpdateDetailsMsg{
		StreamID:        id,
		PaymentPerBlock: terms.PaymentPerBlock,
		Timeframe:       terms.Timeframe,
		Counterparty:    strangerCond.Address(),
		Signature:       signTerms(t, strangerKey, terms),
	})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// a stranger cannot submit, even with a valid consent
	_, err = env.deliver(1, strangerCond, &UpdateDetailsMsg{
		StreamID:        id,
		PaymentPerBlock: terms.PaymentPerBlock,
		Timeframe:       terms.Timeframe,
		Counterparty:    recipientCond.Address(),
		Signature:       signTerms(t, recipientKey, terms),
	})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// nothing was modified by the failed attempts
	s := env.stream(t, id)
	assert.Equal(t, uint64(1), s.PaymentPerBlock)
	assert.Equal(t, Timeframe{StartBlock: 0, EndBlock: 5}, s.Timeframe)
}

func TestOperationsAreAtomic(t *testing.T) {
	env := newTestEnv(t)
	stack := app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	).WithHandler(env.rt)

	deliver := func(height int64, signer streampay.Condition, msg streampay.Msg) (*streampay.DeliverResult, error) {
		ctx := streampay.WithHeight(context.Background(), height)
		ctx = env.auth.SetConditions(ctx, signer)
		return stack.Deliver(ctx, env.db, &streamtest.Tx{Msg: msg})
	}

	// a create for more than the sender owns leaves no trace behind
	_, err := deliver(0, senderCond, &CreateMsg{
		Recipient:       recipientCond.Address(),
		Amount:          5000,
		PaymentPerBlock: 1,
		Timeframe:       Timeframe{StartBlock: 0, EndBlock: 5},
	})
	assert.IsErr(t, errors.ErrAmount, err)
	_, err = env.bucket.GetStream(env.db, streamtest.SequenceID(0))
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.Equal(t, uint64(1000), env.balance(t, senderCond.Address()))

	// the ID sequence was rolled back too, the next create still
	// gets the first ID
	res, err := deliver(0, senderCond, &CreateMsg{
		Recipient:       recipientCond.Address(),
		Amount:          5,
		PaymentPerBlock: 1,
		Timeframe:       Timeframe{StartBlock: 0, EndBlock: 5},
	})
	assert.Nil(t, err)
	assert.Equal(t, streamtest.SequenceID(0), res.Data)

	// a successful delivery is tagged with the message path
	assert.Equal(t, 1, len(res.Tags))
	assert.Equal(t, utils.ActionKey, string(res.Tags[0].Key))
	assert.Equal(t, pathCreateMsg, string(res.Tags[0].Value))

	// a refuel the sender cannot cover changes no balances
	_, err = deliver(1, senderCond, &RefuelMsg{StreamID: res.Data, Amount: 2000})
	assert.IsErr(t, errors.ErrAmount, err)
	assert.Equal(t, uint64(5), env.stream(t, res.Data).Balance)
	assert.Equal(t, uint64(5), env.balance(t, streamAccount(res.Data)))
	assert.Equal(t, uint64(995), env.balance(t, senderCond.Address()))
}

func TestQueryStreamsByParty(t *testing.T) {
	env := newTestEnv(t)
	env.create(t)
	env.create(t)

	qr := streampay.NewQueryRouter()
	RegisterQuery(qr)

	models, err := qr.Handler("/streams/sender").Query(env.db, streampay.KeyQueryMod, senderCond.Address())
	assert.Nil(t, err)
	assert.Equal(t, 2, len(models))

	models, err = qr.Handler("/streams/recipient").Query(env.db, streampay.KeyQueryMod, recipientCond.Address())
	assert.Nil(t, err)
	assert.Equal(t, 2, len(models))

	models, err = qr.Handler("/streams/sender").Query(env.db, streampay.KeyQueryMod, strangerCond.Address())
	assert.Nil(t, err)
	assert.Equal(t, 0, len(models))
}
