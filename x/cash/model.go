package cash

import (
	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
	"github.com/iov-one/streampay/orm"
	"github.com/tendermint/go-amino"
)

// BucketName is where we store the balances
const BucketName = "cash"

var walletCodec = amino.NewCodec()

// Wallet holds the funds of one address.
type Wallet struct {
	Funds uint64
}

var _ orm.CloneableData = (*Wallet)(nil)

// Marshal implements streampay.Persistent.
func (w *Wallet) Marshal() ([]byte, error) {
	return walletCodec.MarshalBinaryBare(w)
}

// Unmarshal implements streampay.Persistent.
func (w *Wallet) Unmarshal(raw []byte) error {
	return walletCodec.UnmarshalBinaryBare(raw, w)
}

// Copy produces a new copy of the wallet.
func (w *Wallet) Copy() orm.CloneableData {
	return &Wallet{Funds: w.Funds}
}

// Validate is always successful, any uint64 is a legal balance.
func (w *Wallet) Validate() error {
	return nil
}

// WalletBucket is a type-safe wrapper around orm.Bucket keyed by
// address.
type WalletBucket struct {
	orm.Bucket
}

// NewWalletBucket initializes a WalletBucket.
func NewWalletBucket() WalletBucket {
	return WalletBucket{
		Bucket: orm.NewBucket(BucketName, &Wallet{}),
	}
}

// Wallet returns the wallet for the address, or nil when it was never
// funded.
func (b WalletBucket) Wallet(db streampay.ReadOnlyKVStore, addr streampay.Address) (*Wallet, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return AsWallet(obj), nil
}

// GetOrCreate loads the wallet, initializing an empty one on first
// use.
func (b WalletBucket) GetOrCreate(db streampay.ReadOnlyKVStore, addr streampay.Address) (*Wallet, error) {
	w, err := b.Wallet(db, addr)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = new(Wallet)
	}
	return w, nil
}

// Save persists the wallet under the address.
func (b WalletBucket) Save(db streampay.KVStore, addr streampay.Address, w *Wallet) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "invalid wallet key")
	}
	return b.Bucket.Save(db, orm.NewSimpleObj(addr, w))
}

// AsWallet extracts the Wallet from a bucket object.
func AsWallet(obj orm.Object) *Wallet {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Wallet)
}
