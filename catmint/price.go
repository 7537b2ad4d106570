package catmint

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"cosmossdk.io/math"
	sdktypes "github.com/cosmos/cosmos-sdk/types"
)

const (
	MintDenom = "uluna"
	Week      = 7 * 24 * time.Hour
)

var (
	ErrPriceOverflow     = errors.New("mint price overflows 128 bits")
	ErrNoFundsSent       = errors.New("no funds sent")
	ErrMultipleCoinsSent = errors.New("multiple coins sent")
	ErrWrongDenom        = errors.New("wrong denom, only " + MintDenom + " is accepted")
	ErrInsufficientFunds = errors.New("insufficient funds for mint price")

	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	micro      = big.NewInt(1_000_000)
)

// MintPrice is 10^weeks LUNA, in uluna, where weeks is the number of whole
// weeks between genesis and now. The contract computes it in 128 bits.
func MintPrice(genesis, now time.Time) (sdktypes.Coin, error) {
	var weeks int64
	if now.After(genesis) {
		weeks = int64(now.Sub(genesis) / Week)
	}
	price := new(big.Int).Exp(big.NewInt(10), big.NewInt(weeks), nil)
	price.Mul(price, micro)
	if price.Cmp(maxUint128) > 0 {
		return sdktypes.Coin{}, fmt.Errorf("%d weeks since genesis: %w", weeks, ErrPriceOverflow)
	}
	return sdktypes.NewCoin(MintDenom, math.NewIntFromBigInt(price)), nil
}

// ValidateMintFunds applies the contract's checks on the funds of a mint_cat call.
func ValidateMintFunds(funds sdktypes.Coins, price sdktypes.Coin) error {
	switch {
	case funds.Empty():
		return ErrNoFundsSent
	case len(funds) > 1:
		return ErrMultipleCoinsSent
	case funds[0].Denom != MintDenom:
		return ErrWrongDenom
	case funds[0].Amount.LT(price.Amount):
		return fmt.Errorf("sent %s, need %s: %w", funds[0], price, ErrInsufficientFunds)
	}
	return nil
}
