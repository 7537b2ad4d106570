package wallet

import (
	"context"
	"errors"

	sdktypes "github.com/cosmos/cosmos-sdk/types"

	"github.com/bharath-123/cat-mint/keys"
	"github.com/bharath-123/cat-mint/signer"
	"github.com/bharath-123/cat-mint/types"
)

// CreateTxOptions describes one transaction. Zero values fall back to the
// wallet defaults: simulated gas, the client's gas adjustment and gas prices.
type CreateTxOptions struct {
	Msgs          []sdktypes.Msg
	Memo          string
	Fees          sdktypes.Coins
	Gas           uint64
	GasAdjustment float64
	FeeDenoms     []string
}

// Wallet signs transactions with one key for one chain.
type Wallet struct {
	key      *keys.SigningKey
	signer   *signer.Signer
	defaults signer.TxOptions
}

func New(key *keys.SigningKey, s *signer.Signer, defaults signer.TxOptions) (*Wallet, error) {
	if key == nil {
		return nil, types.KeyDerivationError("open wallet", errors.New("signing key is nil"))
	}
	if s == nil {
		return nil, errors.New("signer is nil")
	}
	return &Wallet{key: key, signer: s, defaults: defaults}, nil
}

func (w *Wallet) Address() string {
	return w.key.Address()
}

// CreateAndSignTx builds, prices and signs opts.Msgs. Messages whose sender is
// not this wallet are refused before anything is sent to the node.
func (w *Wallet) CreateAndSignTx(ctx context.Context, opts CreateTxOptions) (*types.SignedTx, error) {
	txOpts := w.defaults
	txOpts.Memo = opts.Memo
	txOpts.Fees = opts.Fees
	txOpts.Gas = opts.Gas
	if opts.GasAdjustment > 0 {
		txOpts.GasAdjustment = opts.GasAdjustment
	}
	if len(opts.FeeDenoms) > 0 {
		txOpts.FeeDenoms = opts.FeeDenoms
	}
	return w.signer.BuildAndSignTx(ctx, txOpts, opts.Msgs...)
}
