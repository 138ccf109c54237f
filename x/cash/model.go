package cash

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/coin"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet is the set of coins owned by a single address.
type Wallet struct {
	Coins coin.Coins `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return orm.Marshal(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return orm.Unmarshal(raw, w)
}

// Validate requires that all coins are sorted and positive
func (w *Wallet) Validate() error {
	return errors.Wrap(w.Coins.Validate(), "coins")
}

// WalletBucket stores wallets keyed by the owner address.
type WalletBucket struct {
	orm.ModelBucket
}

// NewWalletBucket returns a bucket for wallets.
func NewWalletBucket() WalletBucket {
	return WalletBucket{
		ModelBucket: orm.NewModelBucket(BucketName),
	}
}

// Get returns the wallet of given address. ErrNotFound is returned if the
// wallet was never opened.
func (b WalletBucket) Get(db dappr.ReadOnlyKVStore, addr dappr.Address) (*Wallet, error) {
	var w Wallet
	if err := b.One(db, addr, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// GetOrEmpty returns the wallet of given address or an empty one if it
// does not exist.
func (b WalletBucket) GetOrEmpty(db dappr.ReadOnlyKVStore, addr dappr.Address) (*Wallet, error) {
	w, err := b.Get(db, addr)
	switch {
	case err == nil:
		return w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}

// Save writes the wallet of given address.
func (b WalletBucket) Save(db dappr.KVStore, addr dappr.Address, w *Wallet) error {
	return b.Put(db, addr, w)
}
