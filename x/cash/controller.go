package cash

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/coin"
	"github.com/dappr/dappr/errors"
)

// Controller is the functionality needed by the handlers and by other
// extensions that move value, ie. the escrow engine.
type Controller interface {
	// Open makes sure a wallet exists for given address. Opening an
	// existing wallet is a no-op.
	Open(db dappr.KVStore, addr dappr.Address) error

	// Transfer moves amount from src to dst. It fails with
	// ErrInsufficientBalance if src does not hold enough.
	Transfer(db dappr.KVStore, src, dst dappr.Address, amount coin.Coin) error

	// Mint adds amount to the wallet of dst.
	Mint(db dappr.KVStore, dst dappr.Address, amount coin.Coin) error

	// Burn removes amount from the wallet of src.
	Burn(db dappr.KVStore, src dappr.Address, amount coin.Coin) error

	// Balance returns how much of the ticker addr holds.
	Balance(db dappr.ReadOnlyKVStore, addr dappr.Address, ticker string) (uint64, error)

	// Coins returns all the coins held by addr.
	Coins(db dappr.ReadOnlyKVStore, addr dappr.Address) (coin.Coins, error)
}

// BaseController is a simple implementation of the Controller over a
// WalletBucket.
type BaseController struct {
	bucket WalletBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default wallet bucket.
func NewController() BaseController {
	return BaseController{bucket: NewWalletBucket()}
}

func (c BaseController) Open(db dappr.KVStore, addr dappr.Address) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	has, err := c.bucket.Has(db, addr)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	return c.bucket.Save(db, addr, &Wallet{})
}

func (c BaseController) Transfer(db dappr.KVStore, src, dst dappr.Address, amount coin.Coin) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	sender, err := c.bucket.GetOrEmpty(db, src)
	if err != nil {
		return errors.Wrap(err, "sender")
	}
	if !sender.Coins.Contains(amount) {
		return errors.Wrapf(ErrInsufficientBalance, "%s holds %d %s, needs %d",
			src, sender.Coins.Balance(amount.Ticker), amount.Ticker, amount.Amount)
	}
	if src.Equals(dst) {
		return nil
	}

	recipient, err := c.bucket.GetOrEmpty(db, dst)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}

	// Compute both wallets before writing anything.
	left, err := sender.Coins.Subtract(amount)
	if err != nil {
		return errors.Wrap(err, "subtract")
	}
	right, err := recipient.Coins.Add(amount)
	if err != nil {
		return errors.Wrap(err, "add")
	}

	if err := c.bucket.Save(db, src, &Wallet{Coins: left}); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if err := c.bucket.Save(db, dst, &Wallet{Coins: right}); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

func (c BaseController) Mint(db dappr.KVStore, dst dappr.Address, amount coin.Coin) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	w, err := c.bucket.GetOrEmpty(db, dst)
	if err != nil {
		return err
	}
	coins, err := w.Coins.Add(amount)
	if err != nil {
		return errors.Wrap(err, "add")
	}
	return c.bucket.Save(db, dst, &Wallet{Coins: coins})
}

func (c BaseController) Burn(db dappr.KVStore, src dappr.Address, amount coin.Coin) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	w, err := c.bucket.GetOrEmpty(db, src)
	if err != nil {
		return err
	}
	if !w.Coins.Contains(amount) {
		return errors.Wrapf(ErrInsufficientBalance, "cannot burn %s", amount)
	}
	coins, err := w.Coins.Subtract(amount)
	if err != nil {
		return errors.Wrap(err, "subtract")
	}
	return c.bucket.Save(db, src, &Wallet{Coins: coins})
}

func (c BaseController) Balance(db dappr.ReadOnlyKVStore, addr dappr.Address, ticker string) (uint64, error) {
	coins, err := c.Coins(db, addr)
	if err != nil {
		return 0, err
	}
	return coins.Balance(ticker), nil
}

func (c BaseController) Coins(db dappr.ReadOnlyKVStore, addr dappr.Address) (coin.Coins, error) {
	w, err := c.bucket.GetOrEmpty(db, addr)
	if err != nil {
		return nil, err
	}
	return w.Coins, nil
}

func validateAmount(amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "amount must be positive")
	}
	return nil
}
