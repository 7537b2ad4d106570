// Package mint submits one contract call, by default mint_cat on the cat-mint
// contract: derive the key, sign once, broadcast once.
package mint

import (
	"context"

	sdktypes "github.com/cosmos/cosmos-sdk/types"

	"github.com/bharath-123/cat-mint/cosmwasm"
	"github.com/bharath-123/cat-mint/types"
	"github.com/bharath-123/cat-mint/wallet"
)

// TxAuthor signs transactions for one account.
type TxAuthor interface {
	Address() string
	CreateAndSignTx(ctx context.Context, opts wallet.CreateTxOptions) (*types.SignedTx, error)
}

type Broadcaster interface {
	BroadcastTx(ctx context.Context, signedTx *types.SignedTx) (*types.BroadcastResult, error)
}

// Execute builds the MsgExecuteContract described by opts with author as
// sender, signs it and broadcasts it exactly once. Nothing is retried. A result
// with a non-zero code is returned together with its typed error.
func Execute(ctx context.Context, author TxAuthor, broadcaster Broadcaster, opts cosmwasm.ExecuteOptions) (*types.BroadcastResult, error) {
	msg, err := cosmwasm.NewExecuteContract(author.Address(), opts)
	if err != nil {
		return nil, err
	}

	signedTx, err := author.CreateAndSignTx(ctx, wallet.CreateTxOptions{
		Msgs:          []sdktypes.Msg{msg},
		Memo:          opts.Memo,
		Fees:          opts.Fees,
		Gas:           opts.Gas,
		GasAdjustment: opts.GasAdjustment,
		FeeDenoms:     opts.FeeDenoms,
	})
	if err != nil {
		return nil, err
	}

	result, err := broadcaster.BroadcastTx(ctx, signedTx)
	if err != nil {
		return nil, err
	}
	return result, result.Err()
}
