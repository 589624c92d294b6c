package stream

import (
	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
	"github.com/iov-one/streampay/x/cash"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ streampay.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial streams from genesis and save them
// to the database, funding each stream account with the outstanding
// balance.
func (Initializer) FromGenesis(opts streampay.Options, db streampay.KVStore) error {
	streams := []struct {
		Sender          streampay.Address `json:"sender"`
		Recipient       streampay.Address `json:"recipient"`
		Balance         uint64            `json:"balance"`
		PaymentPerBlock uint64            `json:"payment_per_block"`
		StartBlock      uint64            `json:"start_block"`
		EndBlock        uint64            `json:"end_block"`
	}{}
	if err := opts.ReadOptions("stream", &streams); err != nil {
		return err
	}

	bucket := NewStreamBucket()
	ctrl := cash.NewController()
	for i, s := range streams {
		obj, err := bucket.Create(db, &Stream{
			Sender:          s.Sender,
			Recipient:       s.Recipient,
			Balance:         s.Balance,
			PaymentPerBlock: s.PaymentPerBlock,
			Timeframe: Timeframe{
				StartBlock: s.StartBlock,
				EndBlock:   s.EndBlock,
			},
		})
		if err != nil {
			return errors.Wrapf(err, "stream #%d", i)
		}
		if err := ctrl.IssueCoins(db, streamAccount(obj.Key()), s.Balance); err != nil {
			return errors.Wrapf(err, "stream #%d account", i)
		}
	}
	return nil
}
