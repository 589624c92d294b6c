package cash

import (
	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ streampay.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts streampay.Options, db streampay.KVStore) error {
	accounts := []struct {
		Address streampay.Address `json:"address"`
		Funds   uint64            `json:"funds"`
	}{}
	if err := opts.ReadOptions("cash", &accounts); err != nil {
		return err
	}

	bucket := NewWalletBucket()
	for i, a := range accounts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		wallet, err := bucket.GetOrCreate(db, a.Address)
		if err != nil {
			return err
		}
		wallet.Funds = a.Funds
		if err := bucket.Save(db, a.Address, wallet); err != nil {
			return err
		}
	}
	return nil
}
