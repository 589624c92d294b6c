package cash

import (
	"math"

	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
)

// CoinMover is the functionality other extensions consume to move
// funds between addresses.
type CoinMover interface {
	// MoveCoins removes funds from the source wallet and adds them
	// to the destination wallet. It fails without any change when
	// the source holds less than the requested amount.
	MoveCoins(db streampay.KVStore, src streampay.Address, dest streampay.Address, amount uint64) error
}

// Controller is the full interface over wallets, including issuing
// new funds (used by genesis and tests).
type Controller interface {
	CoinMover

	// IssueCoins creates the given amount out of thin air in the
	// destination wallet.
	IssueCoins(db streampay.KVStore, dest streampay.Address, amount uint64) error

	// Balance returns the funds held by an address. An address
	// that was never funded reports a zero balance.
	Balance(db streampay.ReadOnlyKVStore, addr streampay.Address) (uint64, error)
}

// BaseController implements Controller over a wallet bucket.
type BaseController struct {
	bucket WalletBucket
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation.
func NewController() BaseController {
	return BaseController{bucket: NewWalletBucket()}
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// funds, it fails.
func (c BaseController) MoveCoins(db streampay.KVStore, src streampay.Address, dest streampay.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}

	sender, err := c.bucket.Wallet(db, src)
	if err != nil {
		return err
	}
	if sender == nil || sender.Funds < amount {
		return errors.Wrap(errors.ErrAmount, "insufficient funds")
	}
	// transfer to self leaves the wallet as it is
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if recipient.Funds > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination wallet")
	}

	sender.Funds -= amount
	recipient.Funds += amount

	if err := c.bucket.Save(db, src, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}

// IssueCoins attempts to add the given amount of funds to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(db streampay.KVStore, dest streampay.Address, amount uint64) error {
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if recipient.Funds > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination wallet")
	}
	recipient.Funds += amount

	return c.bucket.Save(db, dest, recipient)
}

// Balance returns the amount held by this address.
func (c BaseController) Balance(db streampay.ReadOnlyKVStore, addr streampay.Address) (uint64, error) {
	w, err := c.bucket.Wallet(db, addr)
	if err != nil {
		return 0, err
	}
	if w == nil {
		return 0, nil
	}
	return w.Funds, nil
}
